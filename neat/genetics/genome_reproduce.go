package genetics

import "github.com/yaricom/goneat-core/neat"

// Crossover produces a child from two parent genomes. The receiver must be the fitter of
// the two parents - the population enforces this at every call site. The child inherits
// the fitter parent's node set, adding as a hidden node any node referenced by a
// retained connection that the fitter parent itself lacks (MutateAddNode always adds its
// hidden node before the genes that reference it, so the fitter parent's own nodes are
// normally sufficient). For every connection g carries: if
// other carries a gene at the same innovation id, the child copies one of the two genes
// chosen uniformly at random; otherwise the child copies g's own (disjoint or excess)
// gene. Genes unique to other are discarded.
func (g *Genome) Crossover(other *Genome, childID int, rnd *neat.RandSource) *Genome {
	child := NewGenome(childID)
	for id, n := range g.Nodes {
		child.Nodes[id] = n.Copy()
	}

	for innov, mine := range g.Conns {
		chosen := mine
		if theirs, ok := other.Conns[innov]; ok && rnd.Bool(0.5) {
			chosen = theirs
		}
		child.AddConnection(chosen.Copy())

		for _, endpoint := range [2]int{chosen.From, chosen.To} {
			if _, ok := child.Nodes[endpoint]; !ok {
				if n, ok := g.Nodes[endpoint]; ok {
					child.Nodes[endpoint] = n.Copy()
				} else if n, ok := other.Nodes[endpoint]; ok {
					child.Nodes[endpoint] = NewNode(n.ID, HiddenNode)
				}
			}
		}
	}
	return child
}
