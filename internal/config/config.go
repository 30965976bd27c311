package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client core.
type Config struct {
	API        APIConfig
	Credential CredentialConfig
	Logger     LoggerConfig
}

// APIConfig points at the expense backend.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// CredentialConfig controls where the bearer credential is persisted.
type CredentialConfig struct {
	Path string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("EXPENSYS_API_URL", "http://127.0.0.1:8000"),
			TimeoutSeconds: getEnvAsInt("EXPENSYS_HTTP_TIMEOUT_SECONDS", 15),
		},
		Credential: CredentialConfig{
			Path: getEnv("EXPENSYS_CREDENTIAL_FILE", defaultCredentialPath()),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("EXPENSYS_API_URL must not be empty")
	}
	return cfg, nil
}

// Timeout returns the configured per-request timeout duration.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func defaultCredentialPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".expensys-token"
	}
	return filepath.Join(home, ".expensys", "token")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
