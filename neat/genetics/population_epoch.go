package genetics

import (
	"math"
	"sort"
)

const (
	rateAddNodeCap    = 0.2
	rateAddConnCap    = 0.3
	rateRemoveConnCap = 0.3
	ratePerturbCap    = 3.0
	rateInflation     = 1.1

	minTargetSpecies       = 5
	maxTargetSpecies       = 20
	compatThresholdUp      = 1.05
	compatThresholdDown    = 0.95
	compatThresholdFloor   = 0.5
	compatThresholdCeiling = 5.0

	nodeAmplifierHigh = 22.5
	nodeAmplifierLow  = 0.75
	connAmplifier     = 4.0

	backfillPoolSize = 10
)

// Epoch advances the population by one generation, in order: sort by fitness, update the
// all-time best, ratchet stagnant mutation rates, speciate with threshold homeostasis, cull
// stale species, share fitness and allocate offspring, reproduce, backfill, and finally
// replace Genomes wholesale. The host is expected to have assigned Fitness to every genome
// before calling Epoch; a genome the host never scored keeps whatever Fitness it carries:
// zero for an initial genome or a crossover child, its source genome's value for an elite
// or a clone, unless ResetFitnessOnReplace zeroed it.
func (p *Population) Epoch() {
	p.sortByFitnessDescending()
	p.updateBestEver()
	p.ratchetOnStagnation()

	effective := p.effectiveRatesForGeneration()

	p.speciate()
	p.cullStaleSpecies()

	totalAdjusted := p.computeAdjustedFitnesses()
	offspring := p.allocateOffspring(totalAdjusted)

	next := p.placeElites()
	next = p.reproduce(next, offspring, effective)
	next = p.backfill(next)

	if p.cfg.ResetFitnessOnReplace {
		for _, g := range next {
			g.Fitness = 0
			g.AdjustedFitness = 0
		}
	}

	p.Genomes = next
	p.Generation++
}

func (p *Population) sortByFitnessDescending() {
	sort.Slice(p.Genomes, func(i, j int) bool { return p.Genomes[i].Fitness > p.Genomes[j].Fitness })
}

// updateBestEver deep-copies the top genome into Best whenever it beats the watermark, and
// tracks generations without improvement otherwise. bestFitnessEver is non-decreasing by
// construction: it is only ever replaced with a strictly greater value.
func (p *Population) updateBestEver() {
	if len(p.Genomes) == 0 {
		return
	}
	top := p.Genomes[0]
	if top.Fitness > p.bestFitnessEver {
		p.bestFitnessEver = top.Fitness
		p.Best = top.Copy(top.ID)
		p.generationWithoutImprovement = 0
	} else {
		p.generationWithoutImprovement++
	}
}

// ratchetOnStagnation permanently inflates the session's structural/weight mutation rates
// by 10%, capped, once the population has gone more than 5 generations without
// improvement. This is a one-way ratchet: it never deflates on its own, even after the
// population recovers and starts improving again.
func (p *Population) ratchetOnStagnation() {
	if p.generationWithoutImprovement <= 5 {
		return
	}
	p.current.addNodeRate = min(p.current.addNodeRate*rateInflation, rateAddNodeCap)
	p.current.addConnRate = min(p.current.addConnRate*rateInflation, rateAddConnCap)
	p.current.removeConnRate = min(p.current.removeConnRate*rateInflation, rateRemoveConnCap)
	p.current.weightPerturbStrength = min(p.current.weightPerturbStrength*rateInflation, ratePerturbCap)
}

// effectiveRatesForGeneration computes the mutation rates to use this generation, recomputed
// fresh every time on top of (but without altering) the permanent ratcheted rates: a
// node-addition amplifier that decays linearly from strong topology exploration to
// conservative growth over MutationAmplifierOverGenerations, and a constant
// connection-addition/removal amplifier active only within ConnectionMutationAmplifierRange.
func (p *Population) effectiveRatesForGeneration() rates {
	eff := p.current

	horizon := p.cfg.MutationAmplifierOverGenerations
	if horizon > 0 && p.Generation <= horizon {
		progress := float64(p.Generation) / float64(horizon)
		amplifier := nodeAmplifierHigh*(1-progress) + nodeAmplifierLow*progress
		eff.addNodeRate *= amplifier
	}

	from, to := p.cfg.ConnectionMutationAmplifierRange[0], p.cfg.ConnectionMutationAmplifierRange[1]
	if p.Generation >= from && p.Generation <= to {
		eff.addConnRate *= connAmplifier
		eff.removeConnRate *= connAmplifier
	}
	return eff
}

// speciate applies adaptive threshold homeostasis (compare the current species count
// against a target of PopulationSize/10 clamped to [5, 20] and nudge compatThreshold by 5%)
// followed by a greedy first-match assignment of every genome to a species.
func (p *Population) speciate() {
	target := p.cfg.PopulationSize / 10
	if target < minTargetSpecies {
		target = minTargetSpecies
	} else if target > maxTargetSpecies {
		target = maxTargetSpecies
	}

	if len(p.Species) > target {
		p.cfg.CompatThreshold *= compatThresholdUp
	} else if len(p.Species) > 0 {
		p.cfg.CompatThreshold *= compatThresholdDown
	}
	if p.cfg.CompatThreshold < compatThresholdFloor {
		p.cfg.CompatThreshold = compatThresholdFloor
	} else if p.cfg.CompatThreshold > compatThresholdCeiling {
		p.cfg.CompatThreshold = compatThresholdCeiling
	}

	for _, s := range p.Species {
		s.Clear()
	}

	for _, g := range p.Genomes {
		placed := false
		for _, s := range p.Species {
			if g.Compatibility(s.Representative, p.cfg.C1, p.cfg.C2, p.cfg.C3) < p.cfg.CompatThreshold {
				s.AddMember(g)
				placed = true
				break
			}
		}
		if !placed {
			p.Species = append(p.Species, NewSpecies(p.nextSpeciesIDValue(), g))
		}
	}

	survivors := p.Species[:0]
	for _, s := range p.Species {
		if len(s.Members) == 0 {
			continue
		}
		s.Representative = s.Fittest()
		survivors = append(survivors, s)
	}
	p.Species = survivors
}

// cullStaleSpecies keeps a species only if its stagnation counter is below the configured
// threshold, or it holds the all-time best genome.
func (p *Population) cullStaleSpecies() {
	survivors := p.Species[:0]
	for _, s := range p.Species {
		s.UpdateStagnation()
		if s.Stale < p.cfg.StagnationThreshold || s.ContainsBest(p.Best) {
			survivors = append(survivors, s)
		}
	}
	p.Species = survivors
}

// computeAdjustedFitnesses applies fitness sharing within every species and returns the
// total adjusted fitness across the whole population.
func (p *Population) computeAdjustedFitnesses() float64 {
	var total float64
	for _, s := range p.Species {
		s.ComputeAdjustedFitnesses()
		for _, m := range s.Members {
			total += m.AdjustedFitness
		}
	}
	return total
}

// allocateOffspring gives each species an offspring quota proportional to its total
// adjusted fitness, out of whatever population slots elitism hasn't already claimed.
func (p *Population) allocateOffspring(totalAdjusted float64) map[int]int {
	offspring := make(map[int]int, len(p.Species))
	elitesPlaced := 0
	for _, s := range p.Species {
		elitesPlaced += min(p.cfg.Elitism, len(s.Members))
	}
	remaining := p.cfg.PopulationSize - elitesPlaced
	if remaining < 0 {
		remaining = 0
	}
	if totalAdjusted <= 0 {
		return offspring
	}
	for _, s := range p.Species {
		var speciesAdjusted float64
		for _, m := range s.Members {
			speciesAdjusted += m.AdjustedFitness
		}
		offspring[s.ID] = int(math.Round(speciesAdjusted / totalAdjusted * float64(remaining)))
	}
	return offspring
}

// placeElites deep-copies the top Elitism members of every surviving species unchanged
// into the next generation, before any crossover or mutation happens.
func (p *Population) placeElites() []*Genome {
	next := make([]*Genome, 0, p.cfg.PopulationSize)
	for _, s := range p.Species {
		ranked := rankedByFitness(s.Members)
		count := p.cfg.Elitism
		if count > len(ranked) {
			count = len(ranked)
		}
		for i := 0; i < count; i++ {
			next = append(next, ranked[i].Copy(p.nextGenomeIDValue()))
		}
	}
	return next
}

// reproduce fills out each species' offspring quota: until the next generation is full,
// pick two parents from the top survivalThreshold fraction of its members, cross them with
// probability crossoverRate (otherwise clone the species' current best), mutate the child
// with a single compound cycle repeated maxMutationAttempts times, and append it.
func (p *Population) reproduce(next []*Genome, offspring map[int]int, eff rates) []*Genome {
	for _, s := range p.Species {
		quota := offspring[s.ID]
		ranked := rankedByFitness(s.Members)
		poolSize := int(float64(len(ranked)) * p.cfg.SurvivalThreshold)
		if poolSize < 1 {
			poolSize = 1
		}
		if poolSize > len(ranked) {
			poolSize = len(ranked)
		}
		pool := ranked[:poolSize]

		for i := 0; i < quota && len(next) < p.cfg.PopulationSize; i++ {
			var child *Genome
			if p.rnd.Bool(p.cfg.CrossoverRate) && len(pool) > 1 {
				a := pool[p.rnd.Intn(len(pool))]
				b := pool[p.rnd.Intn(len(pool))]
				fitter, other := a, b
				if b.Fitness > a.Fitness {
					fitter, other = b, a
				}
				child = fitter.Crossover(other, p.nextGenomeIDValue(), p.rnd)
			} else {
				child = ranked[0].Copy(p.nextGenomeIDValue())
			}
			p.mutateChild(child, eff)
			next = append(next, child)
		}
	}
	return next
}

// backfill tops up the next generation if it's still short - a rounding error in offspring
// allocation, or a species producing fewer legal children than its quota - by drawing a
// parent from the top 10 of the old generation, cloning and mutating it once, and
// appending until full.
func (p *Population) backfill(next []*Genome) []*Genome {
	if len(p.Genomes) == 0 {
		return next
	}
	poolSize := backfillPoolSize
	if poolSize > len(p.Genomes) {
		poolSize = len(p.Genomes)
	}
	pool := p.Genomes[:poolSize]
	eff := p.effectiveRatesForGeneration()
	for len(next) < p.cfg.PopulationSize {
		parent := pool[p.rnd.Intn(len(pool))]
		child := parent.Copy(p.nextGenomeIDValue())
		p.mutateChild(child, eff)
		next = append(next, child)
	}
	return next
}

// mutateChild runs the compound mutation cycle: a weight pass, then add-connection,
// remove-connection and add-node each gated by its own Bernoulli draw, repeated
// MaxMutationAttempts times.
func (p *Population) mutateChild(child *Genome, eff rates) {
	for i := 0; i < p.cfg.MaxMutationAttempts; i++ {
		if p.rnd.Bool(p.cfg.WeightMutationRate) {
			child.MutateWeights(p.cfg.WeightPerturbRate, eff.weightPerturbStrength, p.cfg.WeightInitRange, p.rnd)
		}
		if p.rnd.Bool(eff.addConnRate) {
			child.MutateAddConnection(p.innovation, p.rnd, defaultAddConnectionAttempts)
		}
		if p.rnd.Bool(eff.removeConnRate) {
			child.MutateRemoveConnection(p.rnd)
		}
		if p.rnd.Bool(eff.addNodeRate) {
			child.MutateAddNode(p.innovation, p.rnd)
		}
	}
}

func rankedByFitness(members []*Genome) []*Genome {
	ranked := make([]*Genome, len(members))
	copy(ranked, members)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Fitness > ranked[j].Fitness })
	return ranked
}

