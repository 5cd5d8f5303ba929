// Package config loads training run configuration from YAML files and
// applies command-line overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every knob for a training run.
type Config struct {
	// DataDir points at the MNIST IDX files. Empty selects synthetic data.
	DataDir string `yaml:"data_dir"`

	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float32 `yaml:"learning_rate"`
	Momentum     float32 `yaml:"momentum"`
	HiddenSize   int     `yaml:"hidden_size"`

	// Seed drives weight initialization and shuffling. Fixed seeds
	// reproduce runs exactly.
	Seed int64 `yaml:"seed"`

	// Limit caps the number of training examples. Zero means all.
	Limit int `yaml:"limit"`
}

// Default returns the standard configuration for MNIST digit training.
func Default() Config {
	return Config{
		Epochs:       5,
		BatchSize:    64,
		LearningRate: 0.1,
		Momentum:     0.9,
		HiddenSize:   500,
		Seed:         42,
	}
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration is runnable.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("config: epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("config: learning_rate must be positive, got %v", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("config: momentum must be in [0, 1), got %v", c.Momentum)
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("config: hidden_size must be positive, got %d", c.HiddenSize)
	}
	if c.Limit < 0 {
		return fmt.Errorf("config: limit must not be negative, got %d", c.Limit)
	}
	return nil
}
