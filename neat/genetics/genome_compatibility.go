package genetics

import "math"

// Compatibility computes the NEAT compatibility distance between two genomes. It
// partitions the union of innovation ids carried by g and other into matching (present
// in both), disjoint (present in only one, with an id below both genomes' maxima) and
// excess (present in
// only one, with an id beyond the other genome's maximum); W is the mean absolute weight
// difference over matching genes. The result is
//
//	c1*E/N + c2*D/N + c3*W
//
// where N = max(1, max(|g.Conns|, |other.Conns|)) - this core normalises unconditionally
// rather than only for large genomes, and floors N at 1 so two tiny genomes are still
// comparable.
func (g *Genome) Compatibility(other *Genome, c1, c2, c3 float64) float64 {
	maxA, maxB := g.maxInnovation(), other.maxInnovation()

	var matching, disjoint, excess int
	var weightDiffSum float64

	seen := make(map[int64]bool, len(g.Conns)+len(other.Conns))

	// A gene unique to g is excess when its id exceeds other's maximum (it arose after
	// other's entire history), disjoint otherwise - and symmetrically for other.
	for innov, ca := range g.Conns {
		seen[innov] = true
		if cb, ok := other.Conns[innov]; ok {
			matching++
			weightDiffSum += math.Abs(ca.Weight - cb.Weight)
		} else if innov > maxB {
			excess++
		} else {
			disjoint++
		}
	}
	for innov := range other.Conns {
		if seen[innov] {
			continue
		}
		if innov > maxA {
			excess++
		} else {
			disjoint++
		}
	}

	var w float64
	if matching > 0 {
		w = weightDiffSum / float64(matching)
	}

	n := len(g.Conns)
	if len(other.Conns) > n {
		n = len(other.Conns)
	}
	if n < 1 {
		n = 1
	}

	return c1*float64(excess)/float64(n) + c2*float64(disjoint)/float64(n) + c3*w
}
