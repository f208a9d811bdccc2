package genetics

import "github.com/yaricom/goneat-core/neat"

const defaultAddConnectionAttempts = 20

// MutateAddConnection repeatedly draws two distinct node ids and, on the first pair that
// passes every rejection rule, wires them with a fresh random weight and an innovation id
// shared with any other genome that ever discovers the same pair. It returns false if no
// legal pair turned up within maxAttempts.
//
// Beyond rejecting an output->input pairing, this also rejects any pair that would close a
// directed cycle over the genome's currently enabled connections - required to keep
// Network construction's topological sort total.
func (g *Genome) MutateAddConnection(reg *InnovationRegistry, rnd *neat.RandSource, maxAttempts int) bool {
	if maxAttempts <= 0 {
		maxAttempts = defaultAddConnectionAttempts
	}
	ids := g.NodeIDs()
	if len(ids) < 2 {
		return false
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		a := ids[rnd.Intn(len(ids))]
		b := ids[rnd.Intn(len(ids))]
		if a == b {
			continue
		}
		na, nb := g.Nodes[a], g.Nodes[b]
		if na.Kind == OutputNode && nb.Kind == InputNode {
			continue
		}
		if g.HasConnection(a, b) {
			continue
		}
		if g.wouldCreateCycle(a, b) {
			continue
		}
		innov := reg.NextConnID(a, b)
		weight := rnd.SignedRange(1.0)
		g.AddConnection(NewConnectionGene(a, b, weight, innov))
		return true
	}
	return false
}

// MutateAddNode disables a uniformly chosen enabled connection c and splices a fresh
// hidden node into it, wiring c.from->new at weight 1.0 and new->c.to at weight c.weight.
// The split adds one extra sigmoid to that path, so the sub-network's output changes at
// the instant of mutation even though the weights are chosen to keep it close. Both new
// connections draw innovation ids from the registry. Every split allocates a fresh node
// id, so two genomes that split the same original edge get different hidden node ids and
// therefore different innovation ids for their new connections. Returns false if the
// genome has no enabled connection.
func (g *Genome) MutateAddNode(reg *InnovationRegistry, rnd *neat.RandSource) bool {
	enabled := make([]*ConnectionGene, 0, len(g.Conns))
	for _, c := range g.Conns {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		return false
	}
	c := enabled[rnd.Intn(len(enabled))]
	c.Enabled = false

	newNodeID := reg.NextNodeID()
	g.AddNode(NewNode(newNodeID, HiddenNode))

	innov1 := reg.NextConnID(c.From, newNodeID)
	g.AddConnection(NewConnectionGene(c.From, newNodeID, 1.0, innov1))

	innov2 := reg.NextConnID(newNodeID, c.To)
	g.AddConnection(NewConnectionGene(newNodeID, c.To, c.Weight, innov2))
	return true
}

// MutateRemoveConnection deletes (not merely disables) a uniformly chosen connection
// gene. Returns false if the genome has none.
func (g *Genome) MutateRemoveConnection(rnd *neat.RandSource) bool {
	if len(g.Conns) == 0 {
		return false
	}
	conns := g.ConnectionsSorted()
	victim := conns[rnd.Intn(len(conns))]
	delete(g.Conns, victim.Innovation)
	return true
}

// MutateWeights perturbs every connection independently: with probability perturbRate it
// is nudged by a uniform offset in [-perturbStrength, +perturbStrength], and otherwise
// replaced outright by a fresh uniform value in [-initRange, +initRange]. perturbStrength
// is passed in separately from Options because the population's stagnation ratchet
// inflates it as session state distinct from the base config. Weight mutation never
// fails.
func (g *Genome) MutateWeights(perturbRate, perturbStrength, initRange float64, rnd *neat.RandSource) {
	for _, c := range g.Conns {
		if rnd.Bool(perturbRate) {
			c.Weight += rnd.SignedRange(perturbStrength)
		} else {
			c.Weight = rnd.SignedRange(initRange)
		}
	}
}
