package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-ml/drift/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Epochs)
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /data/mnist
epochs: 10
learning_rate: 0.01
hidden_size: 128
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/mnist", cfg.DataDir)
	assert.Equal(t, 10, cfg.Epochs)
	assert.InDelta(t, 0.01, cfg.LearningRate, 1e-9)
	assert.Equal(t, 128, cfg.HiddenSize)

	// Untouched fields keep their defaults.
	assert.Equal(t, 64, cfg.BatchSize)
	assert.InDelta(t, 0.9, cfg.Momentum, 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epochs: [not a number"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epochs: -1"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero epochs", func(c *config.Config) { c.Epochs = 0 }},
		{"zero batch size", func(c *config.Config) { c.BatchSize = 0 }},
		{"zero learning rate", func(c *config.Config) { c.LearningRate = 0 }},
		{"momentum one", func(c *config.Config) { c.Momentum = 1 }},
		{"negative momentum", func(c *config.Config) { c.Momentum = -0.1 }},
		{"zero hidden size", func(c *config.Config) { c.HiddenSize = 0 }},
		{"negative limit", func(c *config.Config) { c.Limit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
