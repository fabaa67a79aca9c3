package config

import (
	"os"
	"strings"

	"cordex/internal/errors"

	"github.com/spf13/cast"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Pipeline PipelineConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// DataConfig holds data source settings
type DataConfig struct {
	File  string
	Watch bool
}

// PipelineConfig holds the knobs of the derivation and aggregation stages
type PipelineConfig struct {
	DropColumn      string
	TopN            int
	FilterLimit     int
	MaxWords        int
	HistogramBins   int
	DefaultLowYear  int
	DefaultHighYear int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// DefaultDataFile is the dataset location used when nothing else is configured.
const DefaultDataFile = "metadata.csv"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			File:  getEnvOrDefault("CORDEX_DATA_FILE", DefaultDataFile),
			Watch: getEnvBoolOrDefault("CORDEX_WATCH", true),
		},
		Pipeline: PipelineConfig{
			DropColumn:      getEnvOrDefault("CORDEX_DROP_COLUMN", "mag_id"),
			TopN:            getEnvIntOrDefault("CORDEX_TOP_N", 10),
			FilterLimit:     getEnvIntOrDefault("CORDEX_FILTER_LIMIT", 20),
			MaxWords:        getEnvIntOrDefault("CORDEX_MAX_WORDS", 200),
			HistogramBins:   getEnvIntOrDefault("CORDEX_HISTOGRAM_BINS", 20),
			DefaultLowYear:  getEnvIntOrDefault("CORDEX_YEAR_LOW", 2020),
			DefaultHighYear: getEnvIntOrDefault("CORDEX_YEAR_HIGH", 2021),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8501"),
			APIPort: getEnvOrDefault("API_PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Data.File) == "" {
		return errors.ConfigInvalid("CORDEX_DATA_FILE must not be empty")
	}
	if config.Pipeline.TopN <= 0 {
		return errors.ConfigInvalid("CORDEX_TOP_N must be positive")
	}
	if config.Pipeline.FilterLimit <= 0 {
		return errors.ConfigInvalid("CORDEX_FILTER_LIMIT must be positive")
	}
	if config.Pipeline.HistogramBins <= 0 {
		return errors.ConfigInvalid("CORDEX_HISTOGRAM_BINS must be positive")
	}
	if config.Pipeline.MaxWords < 0 {
		return errors.ConfigInvalid("CORDEX_MAX_WORDS must not be negative")
	}
	if config.Pipeline.DefaultLowYear > config.Pipeline.DefaultHighYear {
		return errors.ConfigInvalid("CORDEX_YEAR_LOW must not exceed CORDEX_YEAR_HIGH")
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be json or console")
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
		if intValue, err := cast.ToIntE(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := cast.ToBoolE(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
