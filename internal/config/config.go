// Package config provides configuration management for scrub triage operations
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for scrub triage operations
type Config struct {
	// Identifier Inference Configuration
	IdentifierCoverage float64 `json:"identifier_coverage" yaml:"identifier_coverage"` // Minimum non-null count ratio for identifier columns (0.0-1.0)

	// Description Configuration
	LowerPercentile float64 `json:"lower_percentile" yaml:"lower_percentile"` // Lower tail percentile reported by describe
	UpperPercentile float64 `json:"upper_percentile" yaml:"upper_percentile"` // Upper tail percentile reported by describe
	PopulationStd   bool    `json:"population_std" yaml:"population_std"`     // Use population instead of sample standard deviation

	// Debugging Configuration
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"` // Enable verbose logging via slog
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultIdentifierCoverage = 0.5
	DefaultLowerPercentile    = 5.0
	DefaultUpperPercentile    = 95.0
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		IdentifierCoverage: DefaultIdentifierCoverage,

		// 5th/95th over more extreme tails: outlier-sensitive but
		// noise-tolerant for small-to-medium tables.
		LowerPercentile: DefaultLowerPercentile,
		UpperPercentile: DefaultUpperPercentile,
		PopulationStd:   false,

		VerboseLogging: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.IdentifierCoverage <= 0 || c.IdentifierCoverage > 1 {
		return fmt.Errorf("IdentifierCoverage must be in (0, 1], got %f", c.IdentifierCoverage)
	}

	if c.LowerPercentile < 0 || c.LowerPercentile > 100 {
		return fmt.Errorf("LowerPercentile must be between 0 and 100, got %f", c.LowerPercentile)
	}

	if c.UpperPercentile < 0 || c.UpperPercentile > 100 {
		return fmt.Errorf("UpperPercentile must be between 0 and 100, got %f", c.UpperPercentile)
	}

	if c.LowerPercentile >= c.UpperPercentile {
		return fmt.Errorf("LowerPercentile %f must be below UpperPercentile %f",
			c.LowerPercentile, c.UpperPercentile)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.IdentifierCoverage == 0 {
		c.IdentifierCoverage = defaults.IdentifierCoverage
	}
	if c.LowerPercentile == 0 {
		c.LowerPercentile = defaults.LowerPercentile
	}
	if c.UpperPercentile == 0 {
		c.UpperPercentile = defaults.UpperPercentile
	}

	// Boolean fields keep their zero value so an explicit false survives.

	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// ResetGlobalConfig restores the global configuration to defaults
func ResetGlobalConfig() {
	SetGlobalConfig(NewConfig())
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("SCRUB_IDENTIFIER_COVERAGE"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.IdentifierCoverage = parsed
		}
	}

	if val := os.Getenv("SCRUB_LOWER_PERCENTILE"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.LowerPercentile = parsed
		}
	}

	if val := os.Getenv("SCRUB_UPPER_PERCENTILE"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.UpperPercentile = parsed
		}
	}

	if val := os.Getenv("SCRUB_POPULATION_STD"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.PopulationStd = parsed
		}
	}

	if val := os.Getenv("SCRUB_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	return config
}
