package genetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaricom/goneat-core/neat"
)

func TestGenome_Crossover_ReferentialClosure(t *testing.T) {
	reg := NewInnovationRegistry()
	rnd := neat.NewRandSource(7)

	fitter := NewGenome(1)
	other := NewGenome(2)

	in := NewNode(reg.NextNodeID(), InputNode)
	out := NewNode(reg.NextNodeID(), OutputNode)
	for _, g := range []*Genome{fitter, other} {
		g.AddNode(in)
		g.AddNode(out)
	}

	shared := reg.NextConnID(in.ID, out.ID)
	fitter.AddConnection(NewConnectionGene(in.ID, out.ID, 0.5, shared))
	other.AddConnection(NewConnectionGene(in.ID, out.ID, -0.5, shared))

	// fitter alone mutates a hidden node into the picture via an excess gene.
	require.True(t, fitter.MutateAddNode(reg, rnd))

	fitter.Fitness = 10
	other.Fitness = 1

	child := fitter.Crossover(other, 3, rnd)

	for _, c := range child.Conns {
		_, fromOK := child.Nodes[c.From]
		_, toOK := child.Nodes[c.To]
		assert.True(t, fromOK, "child connection references a from-node missing from the child")
		assert.True(t, toOK, "child connection references a to-node missing from the child")
	}
}

func TestGenome_Crossover_DiscardsUniqueGenesOfLessFitParent(t *testing.T) {
	reg := NewInnovationRegistry()
	rnd := neat.NewRandSource(1)

	fitter := NewGenome(1)
	other := NewGenome(2)
	in := NewNode(reg.NextNodeID(), InputNode)
	out := NewNode(reg.NextNodeID(), OutputNode)
	fitter.AddNode(in)
	fitter.AddNode(out)
	other.AddNode(in)
	other.AddNode(out)

	uniqueToOther := reg.NextConnID(in.ID, out.ID)
	other.AddConnection(NewConnectionGene(in.ID, out.ID, 0.9, uniqueToOther))

	child := fitter.Crossover(other, 3, rnd)
	assert.Empty(t, child.Conns, "genes unique to the less fit parent must not appear in the child")
}
