package main

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/anystop"
	"github.com/unixpickle/anystop/anymodel"
	"github.com/unixpickle/anystop/anyopt"
	"gopkg.in/yaml.v2"
)

// Config describes the experiment: where the data comes
// from, which network to train and which stopping
// strategies to compare.
type Config struct {
	Seed     int64  `yaml:"seed"`
	LogEvery int    `yaml:"log_every"`
	SaveDir  string `yaml:"save_dir"`

	// RestoreBest resets validated runs to their best
	// validation point before testing.
	RestoreBest bool `yaml:"restore_best"`

	// IterationCap bounds every strategy, so that a
	// criterion which never fires cannot hang the demo.
	IterationCap int `yaml:"iteration_cap"`

	Dataset    DatasetConfig    `yaml:"dataset"`
	Split      SplitConfig      `yaml:"split"`
	Network    NetworkConfig    `yaml:"network"`
	Strategies []StrategyConfig `yaml:"strategies"`
}

// DatasetConfig selects the data source.
type DatasetConfig struct {
	// Source is "chessboard", "csv" or "mnist".
	Source      string  `yaml:"source"`
	Path        string  `yaml:"path"`
	LabelColumn int     `yaml:"label_column"`
	HasHeader   bool    `yaml:"has_header"`
	Samples     int     `yaml:"samples"`
	Noise       float64 `yaml:"noise"`
}

// SplitConfig controls the test and validation splits.
type SplitConfig struct {
	// Test is the fraction of all samples used for testing.
	Test float64 `yaml:"test"`

	// Validation is the fraction of the remaining training
	// samples held out for validation.
	Validation float64 `yaml:"validation"`

	// Hash selects a hash-based split instead of a split
	// at a fixed position after shuffling.
	Hash bool `yaml:"hash"`
}

// NetworkConfig describes the model and its optimizer.
type NetworkConfig struct {
	Hidden       []int   `yaml:"hidden"`
	Activation   string  `yaml:"activation"`
	Optimizer    string  `yaml:"optimizer"`
	LearningRate float64 `yaml:"learning_rate"`
}

// StrategyConfig describes one stopping criterion.
type StrategyConfig struct {
	Name string `yaml:"name"`

	// Type is one of max_iterations, training_error,
	// generalization_loss, generalization_quotient and
	// training_progress.
	Type string `yaml:"type"`

	MaxIterations  int     `yaml:"max_iterations"`
	Interval       int     `yaml:"interval"`
	MinImprovement float64 `yaml:"min_improvement"`
	MaxLoss        float64 `yaml:"max_loss"`
	MaxQuotient    float64 `yaml:"max_quotient"`
	MinProgress    float64 `yaml:"min_progress"`

	// Validated feeds validation errors to the criterion.
	// Criteria which need them are always validated.
	Validated bool `yaml:"validated"`
}

// DefaultConfig reproduces the classic comparison of
// stopping criteria on a noisy chessboard problem.
func DefaultConfig() *Config {
	return &Config{
		Seed:         42,
		LogEvery:     50,
		IterationCap: 5000,
		Dataset: DatasetConfig{
			Source:      "chessboard",
			LabelColumn: -1,
			Samples:     800,
			Noise:       0.15,
		},
		Split: SplitConfig{
			Test:       0.4,
			Validation: 0.33,
		},
		Network: NetworkConfig{
			Hidden:     []int{20},
			Activation: "tanh",
			Optimizer:  "irprop+",
		},
		Strategies: []StrategyConfig{
			{Name: "10 iterations", Type: "max_iterations", MaxIterations: 10},
			{Name: "100 iterations", Type: "max_iterations", MaxIterations: 100},
			{Name: "500 iterations", Type: "max_iterations", MaxIterations: 500},
			{Name: "training Error", Type: "training_error", Interval: 10,
				MinImprovement: 1e-3},
			{Name: "generalization Quotient", Type: "generalization_quotient",
				Interval: 5, MaxQuotient: 0.1},
		},
	}
}

// LoadConfig reads a YAML config on top of the defaults.
// Keys which are absent keep their default values; unknown
// keys are an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate checks that the config can be run.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case "chessboard", "mnist":
		if c.Dataset.Source == "chessboard" && c.Dataset.Samples <= 0 {
			return errors.New("dataset.samples must be positive")
		}
	case "csv":
		if c.Dataset.Path == "" {
			return errors.New("dataset.path is required for CSV data")
		}
	default:
		return errors.Errorf("unknown dataset source: %q", c.Dataset.Source)
	}
	if c.Split.Test <= 0 || c.Split.Test >= 1 {
		return errors.Errorf("split.test must be in (0, 1), got %g", c.Split.Test)
	}
	if c.Split.Validation <= 0 || c.Split.Validation >= 1 {
		return errors.Errorf("split.validation must be in (0, 1), got %g",
			c.Split.Validation)
	}
	for _, h := range c.Network.Hidden {
		if h <= 0 {
			return errors.Errorf("hidden layer sizes must be positive, got %d", h)
		}
	}
	if _, err := anymodel.ParseActivation(c.Network.Activation); err != nil {
		return errors.Wrap(err, "network.activation")
	}
	if _, err := c.Network.NewOptimizer(); err != nil {
		return err
	}
	if len(c.Strategies) == 0 {
		return errors.New("at least one strategy is required")
	}
	for i, s := range c.Strategies {
		if err := s.validate(); err != nil {
			return errors.Wrapf(err, "strategy %d", i)
		}
	}
	if c.IterationCap < 0 {
		return errors.Errorf("iteration_cap must not be negative, got %d",
			c.IterationCap)
	}
	return nil
}

// NewOptimizer creates the configured optimizer.
func (n NetworkConfig) NewOptimizer() (anystop.Optimizer, error) {
	rate := anyopt.ConstRater(n.LearningRate)
	needsRate := func() error {
		if n.LearningRate <= 0 {
			return errors.Errorf("optimizer %s needs a positive learning_rate", n.Optimizer)
		}
		return nil
	}
	switch strings.ToLower(n.Optimizer) {
	case "irprop+", "":
		return &anyopt.Rprop{Variant: anyopt.IRpropPlus}, nil
	case "irprop-":
		return &anyopt.Rprop{Variant: anyopt.IRpropMinus}, nil
	case "rprop+":
		return &anyopt.Rprop{Variant: anyopt.RpropPlus}, nil
	case "rprop-":
		return &anyopt.Rprop{Variant: anyopt.RpropMinus}, nil
	case "sgd":
		return &anyopt.GradientDescent{Rater: rate}, needsRate()
	case "momentum":
		return &anyopt.GradientDescent{
			Transformer: &anyopt.Momentum{Momentum: 0.9},
			Rater:       rate,
		}, needsRate()
	case "adam":
		return &anyopt.GradientDescent{Transformer: &anyopt.Adam{}, Rater: rate},
			needsRate()
	case "rmsprop":
		return &anyopt.GradientDescent{Transformer: &anyopt.RMSProp{}, Rater: rate},
			needsRate()
	default:
		return nil, errors.Errorf("unknown optimizer: %q", n.Optimizer)
	}
}

// DisplayName returns the name to print for the strategy.
func (s StrategyConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Type
}

// NeedsValidation reports whether the criterion must see
// validation errors.
func (s StrategyConfig) NeedsValidation() bool {
	switch s.Type {
	case "generalization_loss", "generalization_quotient":
		return true
	}
	return s.Validated
}

// NewCriterion creates the (unvalidated) criterion.
func (s StrategyConfig) NewCriterion() (anystop.Criterion, error) {
	switch s.Type {
	case "max_iterations":
		return anystop.MaxIterations(s.MaxIterations), nil
	case "training_error":
		return &anystop.TrainingError{
			IntervalSize:   s.Interval,
			MinImprovement: s.MinImprovement,
		}, nil
	case "generalization_loss":
		return &anystop.GeneralizationLoss{MaxLoss: s.MaxLoss}, nil
	case "generalization_quotient":
		return &anystop.GeneralizationQuotient{
			IntervalSize: s.Interval,
			MaxQuotient:  s.MaxQuotient,
		}, nil
	case "training_progress":
		return &anystop.TrainingProgress{
			IntervalSize: s.Interval,
			MinProgress:  s.MinProgress,
		}, nil
	default:
		return nil, errors.Errorf("unknown strategy type: %q", s.Type)
	}
}

func (s StrategyConfig) validate() error {
	if _, err := s.NewCriterion(); err != nil {
		return err
	}
	switch s.Type {
	case "max_iterations":
		if s.MaxIterations <= 0 {
			return errors.New("max_iterations must be positive")
		}
	case "training_error", "generalization_quotient", "training_progress":
		if s.Interval <= 0 {
			return errors.New("interval must be positive")
		}
	}
	return nil
}
