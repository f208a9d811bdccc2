// Package neat holds the ambient configuration and logging facilities shared by the
// genetics and network packages: the tunable parameters of an evolutionary run and the
// process-wide logger they're read through.
package neat

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Options is the full set of tunable parameters for a NEAT run. Every field has a
// sensible default (see DefaultOptions); a host typically loads a partial YAML document
// and lets Validate fill in / reject the rest.
type Options struct {
	// Population shape
	PopulationSize int `yaml:"pop_size"`
	InputCount     int `yaml:"input_count"`
	OutputCount    int `yaml:"output_count"`
	Bias           bool `yaml:"bias"`

	// Initial hidden topology. When HiddenLayers is non-empty it specifies a fixed
	// per-layer node count; otherwise a random number of layers in
	// [MinHiddenLayers, MaxHiddenLayers], each sized in [MinNodesPerLayer, MaxNodesPerLayer],
	// is drawn per genome.
	HiddenLayers      []int `yaml:"hidden_layers"`
	MinHiddenLayers   int   `yaml:"min_hidden_layers"`
	MaxHiddenLayers   int   `yaml:"max_hidden_layers"`
	MinNodesPerLayer  int   `yaml:"min_nodes_per_layer"`
	MaxNodesPerLayer  int   `yaml:"max_nodes_per_layer"`

	// Initial wiring
	SparseConnectivity          bool    `yaml:"sparse_connectivity"`
	ConnectionProbability       float64 `yaml:"connection_probability"`
	GuaranteedOutputConnections bool    `yaml:"guaranteed_output_connections"`

	// Speciation
	CompatThreshold float64 `yaml:"compat_threshold"`
	C1              float64 `yaml:"c1_excess"`
	C2              float64 `yaml:"c2_disjoint"`
	C3              float64 `yaml:"c3_weight"`

	// Weight mutation
	WeightPerturbRate     float64 `yaml:"weight_perturb_rate"`
	WeightPerturbStrength float64 `yaml:"weight_perturb_strength"`
	UniformWeightRate     float64 `yaml:"uniform_weight_rate"`
	WeightInitRange       float64 `yaml:"weight_init_range"`
	WeightMutationRate    float64 `yaml:"weight_mutation_rate"`

	// Structural mutation base rates
	AddNodeRate    float64 `yaml:"add_node_rate"`
	AddConnRate    float64 `yaml:"add_conn_rate"`
	RemoveConnRate float64 `yaml:"remove_conn_rate"`

	// Reproduction
	Elitism            int     `yaml:"elitism"`
	SurvivalThreshold  float64 `yaml:"survival_threshold"`
	StagnationThreshold int    `yaml:"stagnation_threshold"`
	CrossoverRate      float64 `yaml:"crossover_rate"`

	// Dynamic rate schedules
	MutationAmplifierOverGenerations int      `yaml:"mutation_amplifier_over_generations"`
	ConnectionMutationAmplifierRange [2]int   `yaml:"connection_mutation_amplifier_range"`

	MaxMutationAttempts int `yaml:"max_mutation_attempts"`

	// ResetFitnessOnReplace controls what happens to Fitness/AdjustedFitness at the end of
	// an epoch: when true every genome in the freshly produced generation has them zeroed;
	// when false (the default) stale fitness values survive until the host overwrites them
	// before the next epoch.
	ResetFitnessOnReplace bool `yaml:"reset_fitness_on_replace"`

	LogLevel string `yaml:"log_level"`
}

// DefaultOptions returns the baseline configuration: moderate structural mutation, dense
// initial wiring, and a target species band of 5-20.
func DefaultOptions() *Options {
	return &Options{
		PopulationSize: 150,
		InputCount:     2,
		OutputCount:    1,
		Bias:           true,

		MinNodesPerLayer: 2,
		MaxNodesPerLayer: 4,

		ConnectionProbability:       1.0,
		GuaranteedOutputConnections: true,

		CompatThreshold: 3.0,
		C1:              1.0,
		C2:              1.0,
		C3:              0.4,

		WeightPerturbRate:     0.9,
		WeightPerturbStrength: 0.5,
		UniformWeightRate:     0.1,
		WeightInitRange:       1.0,
		WeightMutationRate:    0.8,

		AddNodeRate:    0.03,
		AddConnRate:    0.05,
		RemoveConnRate: 0.01,

		Elitism:             1,
		SurvivalThreshold:   0.2,
		StagnationThreshold: 15,
		CrossoverRate:       0.75,

		MutationAmplifierOverGenerations: 20,
		ConnectionMutationAmplifierRange: [2]int{0, 10},

		MaxMutationAttempts: 1,

		LogLevel: "info",
	}
}

// LoadYAMLOptions reads a YAML document, overlays it onto DefaultOptions and validates
// the result.
func LoadYAMLOptions(r io.Reader) (*Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(opts); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode NEAT options from YAML")
	}
	if err := SetLevel(opts.LogLevel); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid NEAT options")
	}
	return opts, nil
}

// LoadFlatOptions reads a flat "key: value" mapping, one setting per line, decodes it as a
// YAML map of loosely typed values, coerces each recognised key with cast, and applies it
// on top of DefaultOptions. Unrecognised keys are ignored.
func LoadFlatOptions(r io.Reader) (*Options, error) {
	opts := DefaultOptions()
	var raw map[string]interface{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse flat NEAT options")
	}
	for key, val := range raw {
		switch key {
		case "pop_size":
			opts.PopulationSize = cast.ToInt(val)
		case "input_count":
			opts.InputCount = cast.ToInt(val)
		case "output_count":
			opts.OutputCount = cast.ToInt(val)
		case "bias":
			opts.Bias = cast.ToBool(val)
		case "compat_threshold":
			opts.CompatThreshold = cast.ToFloat64(val)
		case "c1_excess":
			opts.C1 = cast.ToFloat64(val)
		case "c2_disjoint":
			opts.C2 = cast.ToFloat64(val)
		case "c3_weight":
			opts.C3 = cast.ToFloat64(val)
		case "add_node_rate":
			opts.AddNodeRate = cast.ToFloat64(val)
		case "add_conn_rate":
			opts.AddConnRate = cast.ToFloat64(val)
		case "remove_conn_rate":
			opts.RemoveConnRate = cast.ToFloat64(val)
		case "elitism":
			opts.Elitism = cast.ToInt(val)
		case "survival_threshold":
			opts.SurvivalThreshold = cast.ToFloat64(val)
		case "stagnation_threshold":
			opts.StagnationThreshold = cast.ToInt(val)
		case "crossover_rate":
			opts.CrossoverRate = cast.ToFloat64(val)
		case "log_level":
			opts.LogLevel = cast.ToString(val)
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid NEAT options")
	}
	return opts, nil
}

// Validate checks the invariants the rest of the engine assumes hold: positive
// population/IO sizes, a positive compat threshold, non-negative elitism and a survival
// threshold in (0, 1]. Mutation rates are not range-checked. It also floors
// MaxMutationAttempts and MinNodesPerLayer at 1 and raises MaxNodesPerLayer to at least
// MinNodesPerLayer.
func (o *Options) Validate() error {
	if o.PopulationSize <= 0 {
		return errors.Errorf("population size must be positive, got %d", o.PopulationSize)
	}
	if o.InputCount <= 0 || o.OutputCount <= 0 {
		return errors.Errorf("input and output counts must be positive, got in=%d out=%d", o.InputCount, o.OutputCount)
	}
	if o.CompatThreshold <= 0 {
		return errors.Errorf("compat threshold must be positive, got %f", o.CompatThreshold)
	}
	if o.Elitism < 0 {
		return errors.Errorf("elitism must not be negative, got %d", o.Elitism)
	}
	if o.SurvivalThreshold <= 0 || o.SurvivalThreshold > 1 {
		return errors.Errorf("survival threshold must be in (0, 1], got %f", o.SurvivalThreshold)
	}
	if o.MaxMutationAttempts <= 0 {
		o.MaxMutationAttempts = 1
	}
	if o.MinNodesPerLayer <= 0 {
		o.MinNodesPerLayer = 1
	}
	if o.MaxNodesPerLayer < o.MinNodesPerLayer {
		o.MaxNodesPerLayer = o.MinNodesPerLayer
	}
	return nil
}
