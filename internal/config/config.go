package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"godem/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Inversion InversionConfig `yaml:"inversion"`
	Logging   LoggingConfig   `yaml:"logging"`
	Paths     PathConfig      `yaml:"paths"`
}

// InversionConfig holds the sampling budget and staged-run settings
type InversionConfig struct {
	NSteps        int     `yaml:"nsteps"`
	NWalkers      int     `yaml:"nwalkers"` // 0 means 2*bins+1
	WarmupSteps   int     `yaml:"warmup_steps"`
	WarmupWalkers int     `yaml:"warmup_walkers"`
	WarmupTail    int     `yaml:"warmup_tail"`
	InitialGuess  float64 `yaml:"initial_guess"`
	Jitter        float64 `yaml:"jitter"`
	Seed          int64   `yaml:"seed"`
	Workers       int     `yaml:"workers"` // 0 means GOMAXPROCS
	StretchScale  float64 `yaml:"stretch_scale"`
	EdgeTolerance float64 `yaml:"edge_tolerance_k"`
	Progress      bool    `yaml:"progress"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PathConfig holds input and output file locations
type PathConfig struct {
	ContFuncs   string `yaml:"cont_funcs"`
	Intensities string `yaml:"intensities"`
	Output      string `yaml:"output"`
}

// Load reads configuration from a .env file (if present) and environment
// variables, then overlays the YAML run file at path when path is not empty.
func Load(path string) (*Config, error) {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	config := &Config{
		Inversion: loadInversionConfig(),
		Logging:   LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Paths: PathConfig{
			ContFuncs:   getEnvOrDefault("CONT_FUNC_FILE", ""),
			Intensities: getEnvOrDefault("INTENSITY_FILE", ""),
			Output:      getEnvOrDefault("OUTPUT_FILE", "dem_result.xlsx"),
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.IOError(path, err)
		}
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "parsing %s", path)
		}
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadInversionConfig() InversionConfig {
	return InversionConfig{
		NSteps:        getEnvIntOrDefault("DEM_NSTEPS", 100),
		NWalkers:      getEnvIntOrDefault("DEM_NWALKERS", 0),
		WarmupSteps:   getEnvIntOrDefault("DEM_WARMUP_STEPS", 100),
		WarmupWalkers: getEnvIntOrDefault("DEM_WARMUP_WALKERS", 3),
		WarmupTail:    getEnvIntOrDefault("DEM_WARMUP_TAIL", 10),
		InitialGuess:  getEnvFloatOrDefault("DEM_INITIAL_GUESS", 1e22),
		Jitter:        getEnvFloatOrDefault("DEM_JITTER", 0.01),
		Seed:          int64(getEnvIntOrDefault("DEM_SEED", 0)),
		Workers:       getEnvIntOrDefault("DEM_WORKERS", 0),
		StretchScale:  getEnvFloatOrDefault("DEM_STRETCH_SCALE", 2.0),
		EdgeTolerance: getEnvFloatOrDefault("DEM_EDGE_TOLERANCE_K", 1.0),
		Progress:      getEnvBoolOrDefault("DEM_PROGRESS", false),
	}
}

func validateConfig(config *Config) error {
	inv := config.Inversion
	switch {
	case inv.NSteps < 1:
		return errors.ConfigInvalid("nsteps must be at least 1")
	case inv.NWalkers < 0:
		return errors.ConfigInvalid("nwalkers must not be negative")
	case inv.WarmupSteps < 1:
		return errors.ConfigInvalid("warmup_steps must be at least 1")
	case inv.WarmupWalkers < 2:
		return errors.ConfigInvalid("warmup_walkers must be at least 2")
	case inv.WarmupTail < 1:
		return errors.ConfigInvalid("warmup_tail must be at least 1")
	case !(inv.InitialGuess > 0):
		return errors.ConfigInvalid("initial_guess must be positive")
	case !(inv.Jitter > 0):
		return errors.ConfigInvalid("jitter must be positive")
	case inv.Workers < 0:
		return errors.ConfigInvalid("workers must not be negative")
	case !(inv.StretchScale > 1):
		return errors.ConfigInvalid("stretch_scale must exceed 1")
	case inv.EdgeTolerance < 0:
		return errors.ConfigInvalid("edge_tolerance_k must not be negative")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
