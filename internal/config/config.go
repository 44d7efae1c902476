package config

import (
	"os"
	"strconv"

	"statdesign/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Solver SolverConfig
	Paths  PathConfig
	Sweep  SweepConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// SolverConfig holds solver and distribution backend settings
type SolverConfig struct {
	// ExactCeiling caps exact binomial/Fisher enumeration. Above it
	// endpoints downgrade to the normal approximation with a warning.
	ExactCeiling int
	MaxN         int
}

// PathConfig holds file system paths
type PathConfig struct {
	ExcelFile string
}

// SweepConfig holds batch sweep settings
type SweepConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Solver: SolverConfig{
			ExactCeiling: getEnvIntOrDefault("STATDESIGN_EXACT_CEILING", 200),
			MaxN:         getEnvIntOrDefault("STATDESIGN_MAX_N", 1_000_000),
		},
		Paths: PathConfig{
			ExcelFile: getEnvOrDefault("EXCEL_FILE", "sweep_results.xlsx"),
		},
		Sweep: SweepConfig{
			Concurrency: getEnvIntOrDefault("STATDESIGN_SWEEP_CONCURRENCY", 4),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Solver.ExactCeiling < 1 {
		return errors.ConfigInvalid("STATDESIGN_EXACT_CEILING must be at least 1")
	}
	if config.Solver.MaxN < 2 {
		return errors.ConfigInvalid("STATDESIGN_MAX_N must be at least 2")
	}
	if config.Sweep.Concurrency < 1 {
		return errors.ConfigInvalid("STATDESIGN_SWEEP_CONCURRENCY must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
