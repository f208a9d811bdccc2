// Package goneat is the library boundary a host application drives: construct a
// Population, build phenotype networks, score them, and call Epoch to advance the search.
package goneat

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/stat"

	"github.com/yaricom/goneat-core/neat"
	"github.com/yaricom/goneat-core/neat/genetics"
	"github.com/yaricom/goneat-core/neat/network"
)

// Genome re-exports the genotype type so a host needn't import neat/genetics directly.
type Genome = genetics.Genome

// Network re-exports the phenotype type so a host needn't import neat/network directly.
type Network = network.Network

// Options re-exports the configuration type.
type Options = neat.Options

// Population is the host-facing orchestrator. It wraps neat/genetics.Population, whose
// Epoch implementation cannot itself depend on neat/network without an import cycle
// (Network is built FROM a Genome), and supplies the BuildNetworks operation that stitches
// the two together.
type Population struct {
	inner *genetics.Population
}

// New constructs a population from an optional configuration, validated, with a random
// source seeded from seed. A nil cfg is replaced by neat.DefaultOptions; a non-nil cfg is
// used as given, so its zero-valued fields are not replaced by defaults.
func New(cfg *Options, seed int64) (*Population, error) {
	if cfg == nil {
		cfg = neat.DefaultOptions()
	}
	inner, err := genetics.NewPopulation(cfg, neat.NewRandSource(seed))
	if err != nil {
		return nil, errors.Wrap(err, "failed to construct population")
	}
	return &Population{inner: inner}, nil
}

// GenomeNetwork pairs a genome with its freshly built phenotype.
type GenomeNetwork struct {
	Genome  *Genome
	Network *Network
}

// BuildNetworks returns one (genome, network) pair per current genome, in the current
// genome order. A genome whose connections happen to be cyclic - which should never occur
// given the mutation invariants the genetics package enforces - is skipped with a logged
// warning rather than propagated as a host-facing error, since a single bad genome must
// not abort evaluation of the rest of the generation.
func (p *Population) BuildNetworks() []GenomeNetwork {
	genomes := p.inner.Genomes
	pairs := make([]GenomeNetwork, 0, len(genomes))
	for _, g := range genomes {
		net, err := network.Build(g)
		if err != nil {
			neat.Warnf("skipping genome %d: %v", g.ID, err)
			continue
		}
		pairs = append(pairs, GenomeNetwork{Genome: g, Network: net})
	}
	return pairs
}

// Epoch advances the population by one generation. The host must have assigned Fitness to
// every genome beforehand.
func (p *Population) Epoch() {
	neat.Debugf("generation %d: advancing epoch", p.inner.Generation)
	p.inner.Epoch()
}

// GetBest returns the all-time best genome recorded so far, or nil if no epoch has run yet.
func (p *Population) GetBest() *Genome { return p.inner.GetBest() }

// GetStats returns the current population's summary statistics.
func (p *Population) GetStats() genetics.Stats { return p.inner.GetStats() }

// FitnessSummary reports the mean and standard deviation of Fitness across the current
// generation, computed with gonum/stat the way the rest of the evolutionary-computation
// corpus reports per-generation statistics.
func (p *Population) FitnessSummary() (mean, stddev float64) {
	values := make([]float64, len(p.inner.Genomes))
	for i, g := range p.inner.Genomes {
		values[i] = g.Fitness
	}
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	stddev = stat.StdDev(values, nil)
	return mean, stddev
}

// ExportFitnessHistory writes a sequence of best-fitness-per-generation samples to w as a
// compressed NumPy archive, for a host that wants to plot or further analyze the run's
// convergence outside of Go - the same device the wider corpus uses to hand per-generation
// statistics off to external tooling.
func ExportFitnessHistory(w io.Writer, history []float64) error {
	out := npz.NewWriter(w)
	if err := out.Write("best_fitness_per_generation", history); err != nil {
		return errors.Wrap(err, "failed to write fitness history")
	}
	return out.Close()
}
