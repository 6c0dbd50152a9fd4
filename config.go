package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"censusnet/dataset"
)

// Config is the run configuration, read from a YAML file.
type Config struct {
	Data         string  `yaml:"data"`
	Hidden       []int   `yaml:"hidden"`
	BatchSize    int     `yaml:"batch_size"`
	Epochs       int     `yaml:"epochs"`
	Optimizer    string  `yaml:"optimizer"`
	LearningRate float64 `yaml:"learning_rate"`
	Decay        float64 `yaml:"decay"`
	InitSeed     int64   `yaml:"init_seed"`
	InitScale    float64 `yaml:"init_scale"`
	ShuffleSeed  int64   `yaml:"shuffle_seed"`
	Degenerate   string  `yaml:"degenerate"`
	Holdout      float64 `yaml:"holdout"`
	Verbose      bool    `yaml:"verbose"`
	LogBatches   bool    `yaml:"log_batches"`
}

func defaultConfig() *Config {
	return &Config{
		Data:         "data/adult.csv",
		Hidden:       []int{64, 32},
		BatchSize:    32,
		Epochs:       100,
		Optimizer:    "adam",
		LearningRate: 0.001,
		InitScale:    0.01,
		Degenerate:   "zero",
		Verbose:      true,
	}
}

// loadConfig overlays the YAML file at path on the defaults. An empty path
// returns the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.BatchSize <= 0 {
		return errors.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Epochs < 0 {
		return errors.Errorf("epochs must not be negative, got %d", c.Epochs)
	}
	for _, h := range c.Hidden {
		if h <= 0 {
			return errors.Errorf("hidden widths must be positive, got %v", c.Hidden)
		}
	}
	if c.Holdout < 0 || c.Holdout >= 1 {
		return errors.Errorf("holdout must be in [0, 1), got %g", c.Holdout)
	}
	if _, err := c.degeneratePolicy(); err != nil {
		return err
	}
	switch c.Optimizer {
	case "adam", "sgd":
	default:
		return errors.Errorf("unknown optimizer %q", c.Optimizer)
	}
	return nil
}

func (c *Config) degeneratePolicy() (dataset.DegeneratePolicy, error) {
	switch c.Degenerate {
	case "zero", "":
		return dataset.DegenerateZero, nil
	case "fail":
		return dataset.DegenerateFail, nil
	}
	return 0, errors.Errorf("unknown degenerate policy %q", c.Degenerate)
}
