package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/football-features/internal/platform/logging"
)

// Config stores runtime configuration for the feature expansion tooling.
type Config struct {
	AppEnv                string
	ServiceName           string
	LogLevel              logging.Level
	LogFormat             string
	ExpandParallelism     int
	ExpandSuffix          string
	ExpandLatestAvailable int
	ExpandOutputFormat    string
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// LoadDotEnv reads the given .env files into the process environment. Missing
// files are skipped; variables already set win over file values.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := logging.FormatConsole
	if appEnv == EnvProd {
		logFormatDefault = logging.FormatJSON
	}
	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logFormatDefault)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", logFormat, logging.FormatJSON, logging.FormatConsole)
	}

	parallelism, err := getEnvAsInt("EXPAND_PARALLELISM", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPAND_PARALLELISM: %w", err)
	}
	if parallelism < 1 {
		return Config{}, fmt.Errorf("EXPAND_PARALLELISM must be >= 1")
	}

	latestAvailable, err := getEnvAsInt("EXPAND_LATEST_PERIOD_AVAILABLE", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPAND_LATEST_PERIOD_AVAILABLE: %w", err)
	}
	if latestAvailable < 0 {
		return Config{}, fmt.Errorf("EXPAND_LATEST_PERIOD_AVAILABLE must be >= 0")
	}

	outputFormat, err := parseTableFormat(getEnv("EXPAND_OUTPUT_FORMAT", FormatCSV))
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:                appEnv,
		ServiceName:           getEnv("APP_SERVICE_NAME", "football-features"),
		LogLevel:              logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:             logFormat,
		ExpandParallelism:     parallelism,
		ExpandSuffix:          getEnv("EXPAND_SUFFIX", "H"),
		ExpandLatestAvailable: latestAvailable,
		ExpandOutputFormat:    outputFormat,
	}, nil
}

// Logger builds the process logger described by the config.
func (c Config) Logger() *logging.Logger {
	return logging.New(logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: os.Stderr,
		Name:   c.ServiceName,
	})
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseTableFormat(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case FormatCSV, FormatJSON:
		return value, nil
	default:
		return "", fmt.Errorf("invalid EXPAND_OUTPUT_FORMAT %q: valid values are %s, %s", v, FormatCSV, FormatJSON)
	}
}
