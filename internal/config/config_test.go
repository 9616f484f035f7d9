package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.InDelta(t, 0.5, cfg.IdentifierCoverage, 1e-9)
	assert.InDelta(t, 5.0, cfg.LowerPercentile, 1e-9)
	assert.InDelta(t, 95.0, cfg.UpperPercentile, 1e-9)
	assert.False(t, cfg.PopulationStd)
	assert.False(t, cfg.VerboseLogging)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"zero coverage", func(c *Config) { c.IdentifierCoverage = 0 }, true},
		{"coverage above one", func(c *Config) { c.IdentifierCoverage = 1.5 }, true},
		{"negative lower percentile", func(c *Config) { c.LowerPercentile = -1 }, true},
		{"upper percentile above 100", func(c *Config) { c.UpperPercentile = 101 }, true},
		{"inverted percentiles", func(c *Config) { c.LowerPercentile = 90; c.UpperPercentile = 10 }, true},
		{"full coverage valid", func(c *Config) { c.IdentifierCoverage = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{UpperPercentile: 99}.WithDefaults()

	assert.InDelta(t, 0.5, cfg.IdentifierCoverage, 1e-9)
	assert.InDelta(t, 5.0, cfg.LowerPercentile, 1e-9)
	assert.InDelta(t, 99.0, cfg.UpperPercentile, 1e-9)
}

func TestGlobalConfig(t *testing.T) {
	defer ResetGlobalConfig()

	custom := NewConfig()
	custom.IdentifierCoverage = 0.75
	SetGlobalConfig(custom)

	assert.InDelta(t, 0.75, GetGlobalConfig().IdentifierCoverage, 1e-9)

	ResetGlobalConfig()
	assert.InDelta(t, 0.5, GetGlobalConfig().IdentifierCoverage, 1e-9)
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON([]byte(`{"identifier_coverage": 0.6, "verbose_logging": true}`))
	require.NoError(t, err)

	assert.InDelta(t, 0.6, cfg.IdentifierCoverage, 1e-9)
	assert.True(t, cfg.VerboseLogging)
	// Omitted values fall back to defaults.
	assert.InDelta(t, 95.0, cfg.UpperPercentile, 1e-9)

	_, err = LoadFromJSON([]byte(`{broken`))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scrub.yaml")
		data := `
identifier_coverage: 0.8
lower_percentile: 10
upper_percentile: 90
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, cfg.IdentifierCoverage, 1e-9)
		assert.InDelta(t, 10.0, cfg.LowerPercentile, 1e-9)
		assert.InDelta(t, 90.0, cfg.UpperPercentile, 1e-9)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scrub.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"population_std": true}`), 0o600))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.True(t, cfg.PopulationStd)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scrub.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCRUB_IDENTIFIER_COVERAGE", "0.7")
	t.Setenv("SCRUB_LOWER_PERCENTILE", "1")
	t.Setenv("SCRUB_UPPER_PERCENTILE", "99")
	t.Setenv("SCRUB_POPULATION_STD", "true")
	t.Setenv("SCRUB_VERBOSE_LOGGING", "true")

	cfg := LoadFromEnv()

	assert.InDelta(t, 0.7, cfg.IdentifierCoverage, 1e-9)
	assert.InDelta(t, 1.0, cfg.LowerPercentile, 1e-9)
	assert.InDelta(t, 99.0, cfg.UpperPercentile, 1e-9)
	assert.True(t, cfg.PopulationStd)
	assert.True(t, cfg.VerboseLogging)
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SCRUB_IDENTIFIER_COVERAGE", "not-a-number")

	cfg := LoadFromEnv()
	assert.InDelta(t, 0.5, cfg.IdentifierCoverage, 1e-9)
}
