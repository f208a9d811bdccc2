package genetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleGenome(reg *InnovationRegistry) *Genome {
	g := NewGenome(1)
	a := NewNode(reg.NextNodeID(), InputNode)
	b := NewNode(reg.NextNodeID(), OutputNode)
	g.AddNode(a)
	g.AddNode(b)
	innov := reg.NextConnID(a.ID, b.ID)
	g.AddConnection(NewConnectionGene(a.ID, b.ID, 0.7, innov))
	return g
}

func TestGenome_HasConnection(t *testing.T) {
	reg := NewInnovationRegistry()
	g := simpleGenome(reg)

	ids := g.NodeIDs()
	require.Len(t, ids, 2)
	assert.True(t, g.HasConnection(ids[0], ids[1]))
	assert.False(t, g.HasConnection(ids[1], ids[0]))
}

func TestGenome_CopyIsIndependent(t *testing.T) {
	reg := NewInnovationRegistry()
	g := simpleGenome(reg)
	g.Fitness = 3.5

	c := g.Copy(2)
	c.Fitness = 9.0
	for _, conn := range c.Conns {
		conn.Weight = 100
	}

	assert.Equal(t, 3.5, g.Fitness, "mutating the copy must not disturb the original")
	for _, conn := range g.Conns {
		assert.NotEqual(t, float64(100), conn.Weight)
	}
}

func TestGenome_WouldCreateCycle(t *testing.T) {
	reg := NewInnovationRegistry()
	g := NewGenome(1)
	a := NewNode(reg.NextNodeID(), InputNode)
	b := NewNode(reg.NextNodeID(), HiddenNode)
	c := NewNode(reg.NextNodeID(), OutputNode)
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	g.AddConnection(NewConnectionGene(a.ID, b.ID, 0.1, reg.NextConnID(a.ID, b.ID)))
	g.AddConnection(NewConnectionGene(b.ID, c.ID, 0.1, reg.NextConnID(b.ID, c.ID)))

	assert.True(t, g.wouldCreateCycle(c.ID, a.ID), "closing c->a would create a cycle through a->b->c")
	assert.False(t, g.wouldCreateCycle(a.ID, c.ID), "a->c is a legal skip connection")
	assert.True(t, g.wouldCreateCycle(a.ID, a.ID), "a self-loop is always a cycle")
}
