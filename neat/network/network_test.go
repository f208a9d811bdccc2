package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaricom/goneat-core/neat"
	"github.com/yaricom/goneat-core/neat/genetics"
	"github.com/yaricom/goneat-core/neat/utils"
)

func straightThroughGenome() *genetics.Genome {
	reg := genetics.NewInnovationRegistry()
	g := genetics.NewGenome(1)
	in := genetics.NewNode(reg.NextNodeID(), genetics.InputNode)
	out := genetics.NewNode(reg.NextNodeID(), genetics.OutputNode)
	g.AddNode(in)
	g.AddNode(out)
	g.AddConnection(genetics.NewConnectionGene(in.ID, out.ID, 1.0, reg.NextConnID(in.ID, out.ID)))
	return g
}

func TestBuild_RejectsCyclicConnectionGraph(t *testing.T) {
	g := genetics.NewGenome(1)
	a := genetics.NewNode(1, genetics.InputNode)
	b := genetics.NewNode(2, genetics.HiddenNode)
	c := genetics.NewNode(3, genetics.HiddenNode)
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	g.AddConnection(genetics.NewConnectionGene(a.ID, b.ID, 0.5, 1))
	g.AddConnection(genetics.NewConnectionGene(b.ID, c.ID, 0.5, 2))
	// force a cycle directly on the genome - Network.Build must still refuse it even though
	// genome-level mutation would never produce one.
	g.AddConnection(genetics.NewConnectionGene(c.ID, b.ID, 0.5, 3))

	_, err := Build(g)
	assert.Error(t, err)
}

func TestEvaluate_IsDeterministicAcrossRepeatedCalls(t *testing.T) {
	// Scenario 6: identical genome + identical inputs yields bit-identical outputs,
	// repeated evaluate calls included.
	g := straightThroughGenome()
	net, err := Build(g)
	require.NoError(t, err)

	inputs := map[int]float64{g.NodeIDs()[0]: 0.37}
	first := net.Evaluate(inputs)
	second := net.Evaluate(inputs)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Activation, second[0].Activation)
}

func TestEvaluate_MissingInputDefaultsToZero(t *testing.T) {
	g := straightThroughGenome()
	net, err := Build(g)
	require.NoError(t, err)

	out := net.Evaluate(map[int]float64{})
	require.Len(t, out, 1)
	assert.Equal(t, 0.5, out[0].Activation, "sigmoid(0) == 0.5")
}

func TestEvaluate_BiasNodeAlwaysFiresOne(t *testing.T) {
	reg := genetics.NewInnovationRegistry()
	g := genetics.NewGenome(1)
	bias := genetics.NewNode(reg.NextNodeID(), genetics.BiasNode)
	out := genetics.NewNode(reg.NextNodeID(), genetics.OutputNode)
	g.AddNode(bias)
	g.AddNode(out)
	g.AddConnection(genetics.NewConnectionGene(bias.ID, out.ID, 2.0, reg.NextConnID(bias.ID, out.ID)))

	net, err := Build(g)
	require.NoError(t, err)

	result := net.Evaluate(map[int]float64{})
	require.Len(t, result, 1)
	assert.Greater(t, result[0].Activation, 0.5, "a bias-only network pushes the output above the sigmoid midpoint")
}

func TestBuild_AddNodeMutationIntroducesExactlyOneExtraSigmoid(t *testing.T) {
	// Scenario 2: splitting connection A->B (weight w) introduces a hidden node with
	// incoming weight 1.0 and outgoing weight w, so the new output equals
	// sigma(w*sigma(x)) rather than sigma(w*x) - one extra sigmoid, not an unchanged value.
	reg := genetics.NewInnovationRegistry()
	g := genetics.NewGenome(1)
	in := genetics.NewNode(reg.NextNodeID(), genetics.InputNode)
	out := genetics.NewNode(reg.NextNodeID(), genetics.OutputNode)
	g.AddNode(in)
	g.AddNode(out)
	const w = 0.8
	conn := genetics.NewConnectionGene(in.ID, out.ID, w, reg.NextConnID(in.ID, out.ID))
	g.AddConnection(conn)

	before, err := Build(g)
	require.NoError(t, err)
	const x = 0.6
	inputs := map[int]float64{in.ID: x}
	beforeOut := before.Evaluate(inputs)

	ok := g.MutateAddNode(reg, neat.NewRandSource(1))
	require.True(t, ok)

	after, err := Build(g)
	require.NoError(t, err)
	afterOut := after.Evaluate(inputs)

	require.Len(t, beforeOut, 1)
	require.Len(t, afterOut, 1)
	assert.InDelta(t, utils.Sigmoid(x*w), beforeOut[0].Activation, 1e-9)
	assert.InDelta(t, utils.Sigmoid(utils.Sigmoid(x)*w), afterOut[0].Activation, 1e-9)
	assert.NotEqual(t, beforeOut[0].Activation, afterOut[0].Activation)
}
