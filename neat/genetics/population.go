package genetics

import (
	"math"

	"github.com/yaricom/goneat-core/neat"
)

const birthWeightRange = 2.0

// rates holds the structural-mutation and weight-perturbation intensities that the
// stagnation ratchet permanently inflates over the life of a run. Keeping this as session
// state distinct from Options (the host-supplied base config) means the ratchet never
// touches Options; the one Options field the population does change is CompatThreshold,
// which speciation rescales in place every epoch.
type rates struct {
	addNodeRate           float64
	addConnRate            float64
	removeConnRate         float64
	weightPerturbStrength  float64
}

// Population is the top-level NEAT orchestrator: it owns the innovation registry for the
// whole run, the current generation of genomes, the current species list, and the
// all-time best genome. A host drives it one generation at a time by scoring every
// genome's Fitness and then calling Epoch.
type Population struct {
	cfg        *neat.Options
	rnd        *neat.RandSource
	innovation *InnovationRegistry

	Genomes []*Genome
	Species []*Species

	Generation int
	Best       *Genome

	bestFitnessEver              float64
	generationWithoutImprovement int
	nextGenomeID                 int
	nextSpeciesID                int

	current rates
}

// NewPopulation constructs the initial generation and the shared innovation registry from
// cfg, drawing every random decision from rnd.
func NewPopulation(cfg *neat.Options, rnd *neat.RandSource) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Population{
		cfg:             cfg,
		rnd:             rnd,
		innovation:      NewInnovationRegistry(),
		bestFitnessEver: math.Inf(-1),
		current: rates{
			addNodeRate:          cfg.AddNodeRate,
			addConnRate:          cfg.AddConnRate,
			removeConnRate:       cfg.RemoveConnRate,
			weightPerturbStrength: cfg.WeightPerturbStrength,
		},
	}
	p.Genomes = make([]*Genome, 0, cfg.PopulationSize)
	for i := 0; i < cfg.PopulationSize; i++ {
		p.Genomes = append(p.Genomes, p.newInitialGenome())
	}
	return p, nil
}

// Options returns the population's base configuration. Its CompatThreshold is adjusted
// in place by every Epoch's speciation step; the other fields are not changed.
func (p *Population) Options() *neat.Options { return p.cfg }

// GetBest returns the all-time best genome, or nil if no generation has completed yet.
func (p *Population) GetBest() *Genome { return p.Best }

// Stats is a population's summary statistics, as reported by GetStats.
type Stats struct {
	Generation      int
	BestFitness     float64
	SpeciesCount    int
	Stagnation      int
	CompatThreshold float64
}

// GetStats returns a snapshot of the current population's summary statistics.
func (p *Population) GetStats() Stats {
	return Stats{
		Generation:      p.Generation,
		BestFitness:     p.bestFitnessEver,
		SpeciesCount:    len(p.Species),
		Stagnation:      p.generationWithoutImprovement,
		CompatThreshold: p.cfg.CompatThreshold,
	}
}

// newInitialGenome builds one genome of the population's initial generation: input,
// optional bias, and output nodes, plus an optional layered hidden topology wired either
// densely or sparsely.
func (p *Population) newInitialGenome() *Genome {
	g := NewGenome(p.nextGenomeIDValue())

	var layer0 []*Node
	for i := 0; i < p.cfg.InputCount; i++ {
		n := NewNode(p.innovation.NextNodeID(), InputNode)
		g.AddNode(n)
		layer0 = append(layer0, n)
	}
	if p.cfg.Bias {
		n := NewNode(p.innovation.NextNodeID(), BiasNode)
		g.AddNode(n)
		layer0 = append(layer0, n)
	}

	layers := [][]*Node{layer0}
	for _, size := range p.hiddenLayerSizes() {
		var layer []*Node
		for i := 0; i < size; i++ {
			n := NewNode(p.innovation.NextNodeID(), HiddenNode)
			g.AddNode(n)
			layer = append(layer, n)
		}
		if len(layer) > 0 {
			layers = append(layers, layer)
		}
	}

	var outputs []*Node
	for i := 0; i < p.cfg.OutputCount; i++ {
		n := NewNode(p.innovation.NextNodeID(), OutputNode)
		g.AddNode(n)
		outputs = append(outputs, n)
	}
	layers = append(layers, outputs)

	for i := 0; i+1 < len(layers); i++ {
		p.wireLayer(g, layers[i], layers[i+1])
	}
	if p.cfg.SparseConnectivity && p.cfg.GuaranteedOutputConnections {
		p.guaranteeOutputConnections(g, layers)
	}
	return g
}

// hiddenLayerSizes returns the fixed layer sizes from Options.HiddenLayers when set, or a
// randomly drawn layer count/sizes otherwise.
func (p *Population) hiddenLayerSizes() []int {
	if len(p.cfg.HiddenLayers) > 0 {
		return p.cfg.HiddenLayers
	}
	if p.cfg.MaxHiddenLayers <= 0 {
		return nil
	}
	span := p.cfg.MaxHiddenLayers - p.cfg.MinHiddenLayers
	count := p.cfg.MinHiddenLayers
	if span > 0 {
		count += p.rnd.Intn(span + 1)
	}
	sizes := make([]int, count)
	layerSpan := p.cfg.MaxNodesPerLayer - p.cfg.MinNodesPerLayer
	for i := range sizes {
		size := p.cfg.MinNodesPerLayer
		if layerSpan > 0 {
			size += p.rnd.Intn(layerSpan + 1)
		}
		sizes[i] = size
	}
	return sizes
}

// wireLayer connects every node of "from" to every node of "to" (dense), or each such pair
// independently with probability Options.ConnectionProbability (sparse).
func (p *Population) wireLayer(g *Genome, from, to []*Node) {
	for _, a := range from {
		for _, b := range to {
			if p.cfg.SparseConnectivity && !p.rnd.Bool(p.cfg.ConnectionProbability) {
				continue
			}
			innov := p.innovation.NextConnID(a.ID, b.ID)
			weight := p.rnd.SignedRange(birthWeightRange)
			g.AddConnection(NewConnectionGene(a.ID, b.ID, weight, innov))
		}
	}
}

// guaranteeOutputConnections gives any output left with no incoming edge after the
// Bernoulli draws one, from a uniformly chosen node of an earlier layer.
func (p *Population) guaranteeOutputConnections(g *Genome, layers [][]*Node) {
	if len(layers) < 2 {
		return
	}
	earlier := make([]*Node, 0)
	for _, layer := range layers[:len(layers)-1] {
		earlier = append(earlier, layer...)
	}
	if len(earlier) == 0 {
		return
	}
	for _, out := range layers[len(layers)-1] {
		if !g.hasIncoming(out.ID) {
			src := earlier[p.rnd.Intn(len(earlier))]
			innov := p.innovation.NextConnID(src.ID, out.ID)
			weight := p.rnd.SignedRange(birthWeightRange)
			g.AddConnection(NewConnectionGene(src.ID, out.ID, weight, innov))
		}
	}
}

func (g *Genome) hasIncoming(to int) bool {
	for _, c := range g.Conns {
		if c.To == to {
			return true
		}
	}
	return false
}

func (p *Population) nextGenomeIDValue() int {
	p.nextGenomeID++
	return p.nextGenomeID
}

func (p *Population) nextSpeciesIDValue() int {
	p.nextSpeciesID++
	return p.nextSpeciesID
}
