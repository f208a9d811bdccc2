package genetics

import "math"

// Species is a bucket of genomes deemed compatible under the compatibility distance
// metric. It tracks a representative used only for this generation's distance
// comparisons, its member list (which never deduplicates), a best-fitness watermark and
// how many generations have passed since that watermark last improved.
type Species struct {
	ID             int
	Representative *Genome
	Members        []*Genome
	BestFitness    float64
	Stale          int
	Average        float64
}

// NewSpecies returns a new species seeded with founder as both its representative and its
// sole member. BestFitness starts at -Inf so the first UpdateStagnation call always
// records an improvement.
func NewSpecies(id int, founder *Genome) *Species {
	return &Species{
		ID:             id,
		Representative: founder,
		Members:        []*Genome{founder},
		BestFitness:    math.Inf(-1),
	}
}

// AddMember appends g to this species' member list without deduplication.
func (s *Species) AddMember(g *Genome) {
	s.Members = append(s.Members, g)
}

// Clear empties the member list ahead of a fresh speciation pass; Representative is left
// untouched until the caller assigns a new one.
func (s *Species) Clear() {
	s.Members = nil
}

// ComputeAdjustedFitnesses applies explicit fitness sharing: every member's
// AdjustedFitness becomes Fitness / |Members|. This is the only place fitness sharing is
// applied.
func (s *Species) ComputeAdjustedFitnesses() {
	if len(s.Members) == 0 {
		return
	}
	n := float64(len(s.Members))
	var total float64
	for _, m := range s.Members {
		m.AdjustedFitness = m.Fitness / n
		total += m.AdjustedFitness
	}
	s.Average = total / n
}

// UpdateStagnation checks the current best member's fitness against BestFitness: if it
// strictly exceeds the watermark, the watermark is updated and Stale resets to 0;
// otherwise Stale increments.
func (s *Species) UpdateStagnation() {
	best := s.bestMemberFitness()
	if best > s.BestFitness {
		s.BestFitness = best
		s.Stale = 0
	} else {
		s.Stale++
	}
}

// ContainsBest reports whether any member's fitness is at least the all-time best
// genome's fitness. Comparison is by fitness value, not identity, deliberately -
// behavioural equivalence suffices to exempt a species from stagnation culling.
func (s *Species) ContainsBest(best *Genome) bool {
	if best == nil {
		return false
	}
	for _, m := range s.Members {
		if m.Fitness >= best.Fitness {
			return true
		}
	}
	return false
}

// Fittest returns the member with the greatest fitness, or nil if the species is empty.
func (s *Species) Fittest() *Genome {
	if len(s.Members) == 0 {
		return nil
	}
	best := s.Members[0]
	for _, m := range s.Members[1:] {
		if m.Fitness > best.Fitness {
			best = m
		}
	}
	return best
}

func (s *Species) bestMemberFitness() float64 {
	if len(s.Members) == 0 {
		return math.Inf(-1)
	}
	best := s.Members[0].Fitness
	for _, m := range s.Members[1:] {
		if m.Fitness > best {
			best = m.Fitness
		}
	}
	return best
}
