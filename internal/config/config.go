package config

import (
	"os"
	"strconv"

	"likescan/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Evaluation EvaluationConfig
	Server     ServerConfig
	Database   DatabaseConfig
}

// EvaluationConfig holds the numerical knobs of the scan evaluation pipeline
type EvaluationConfig struct {
	// Epsilon is the inward shrink applied to search bounds to avoid
	// numerical issues exactly at the sample-domain edges
	Epsilon float64
	// ScalarTolerance is the absolute interval tolerance of the bounded
	// scalar searches
	ScalarTolerance float64
	// MaxIterations caps every bounded optimization subroutine. The pipeline
	// imposes no internal timeout, so this cap is the only computation budget.
	MaxIterations int
	// RepairMissing fills failed-fit grid cells with neighbor means (2D)
	RepairMissing bool
	// LogFloor clamps non-positive grid cells for log-scaled consumers when
	// positive
	LogFloor float64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	evalConfig, err := loadEvaluationConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load evaluation configuration")
	}
	config.Evaluation = *evalConfig

	config.Server = ServerConfig{
		Port:    getEnv("SERVER_PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),
	}
	config.Database = DatabaseConfig{
		URL: os.Getenv("DATABASE_URL"),
	}

	return config, nil
}

func loadEvaluationConfig() (*EvaluationConfig, error) {
	epsilon, err := getEnvFloat("SCAN_EPSILON", 1e-4)
	if err != nil {
		return nil, err
	}
	tolerance, err := getEnvFloat("SCAN_TOLERANCE", 1e-9)
	if err != nil {
		return nil, err
	}
	maxIter, err := getEnvInt("SCAN_MAX_ITERATIONS", 500)
	if err != nil {
		return nil, err
	}
	logFloor, err := getEnvFloat("SCAN_LOG_FLOOR", 0)
	if err != nil {
		return nil, err
	}

	cfg := &EvaluationConfig{
		Epsilon:         epsilon,
		ScalarTolerance: tolerance,
		MaxIterations:   maxIter,
		RepairMissing:   getEnvBool("SCAN_REPAIR_MISSING", true),
		LogFloor:        logFloor,
	}
	if cfg.Epsilon <= 0 {
		return nil, errors.ConfigInvalid("SCAN_EPSILON must be positive")
	}
	if cfg.MaxIterations <= 0 {
		return nil, errors.ConfigInvalid("SCAN_MAX_ITERATIONS must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not a valid number: " + v)
	}
	return f, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not a valid integer: " + v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
