package genetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaricom/goneat-core/neat"
)

func testOptions() *neat.Options {
	cfg := neat.DefaultOptions()
	cfg.PopulationSize = 30
	cfg.InputCount = 2
	cfg.OutputCount = 1
	cfg.Bias = true
	return cfg
}

func TestNewPopulation_BuildsExactSize(t *testing.T) {
	cfg := testOptions()
	p, err := NewPopulation(cfg, neat.NewRandSource(1))
	require.NoError(t, err)
	assert.Len(t, p.Genomes, cfg.PopulationSize)
}

func TestNewPopulation_EveryGenomeHasExpectedNodeCounts(t *testing.T) {
	cfg := testOptions()
	p, err := NewPopulation(cfg, neat.NewRandSource(1))
	require.NoError(t, err)

	for _, g := range p.Genomes {
		var inputs, bias, outputs int
		for _, n := range g.Nodes {
			switch n.Kind {
			case InputNode:
				inputs++
			case BiasNode:
				bias++
			case OutputNode:
				outputs++
			}
		}
		assert.Equal(t, cfg.InputCount, inputs)
		assert.Equal(t, 1, bias)
		assert.Equal(t, cfg.OutputCount, outputs)
	}
}

func TestNewPopulation_RejectsInvalidOptions(t *testing.T) {
	cfg := testOptions()
	cfg.PopulationSize = 0
	_, err := NewPopulation(cfg, neat.NewRandSource(1))
	assert.Error(t, err)
}

func TestNewPopulation_SparseGuaranteesOutputConnections(t *testing.T) {
	cfg := testOptions()
	cfg.SparseConnectivity = true
	cfg.ConnectionProbability = 0.0
	cfg.GuaranteedOutputConnections = true
	p, err := NewPopulation(cfg, neat.NewRandSource(1))
	require.NoError(t, err)

	for _, g := range p.Genomes {
		for _, n := range g.Nodes {
			if n.Kind == OutputNode {
				assert.True(t, g.hasIncoming(n.ID), "every output must have at least one incoming edge")
			}
		}
	}
}
