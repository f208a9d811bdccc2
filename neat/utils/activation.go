// Package utils holds small numeric helpers shared by the genetics and network packages.
package utils

import "math"

// steepeningFactor is the steepening constant baked into Sigmoid; part of the contract,
// not a tunable, so every network evaluates the same function regardless of genome.
const steepeningFactor = 4.9

// Sigmoid is the steepened logistic activation function every hidden and output node in
// the phenotype applies to its summed input. NEAT networks forgo a tunable per-node
// activation in favor of this single fixed nonlinearity.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-steepeningFactor*x))
}
