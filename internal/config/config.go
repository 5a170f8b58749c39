package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// Settings file (tabs, calendars, spreadsheet)
	SettingsFile string

	// Google credentials
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleTokenCacheFile     string

	// Backend selection
	DataBackend string

	// Run history
	HistoryDBPath string

	// AMQP notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel  string
	LogFile   string
	LogFormat string

	RunTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		SettingsFile: getEnv("CALSHEETS_CONFIG", "config.yaml"),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleTokenCacheFile:     getEnv("GOOGLE_TOKEN_CACHE_FILE", "token.json"),

		DataBackend: getEnv("DATA_BACKEND", "sheets"),

		HistoryDBPath: getEnv("HISTORY_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "calsheets"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "hours_written"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogFormat: getEnv("LOG_FORMAT", "auto"),

		RunTimeout: getEnvDuration("RUN_TIMEOUT", 5*time.Minute),
	}

	// Same fallback chain as the Google client libraries.
	if cfg.GoogleServiceAccountJSON == "" && cfg.GoogleServiceAccountFile == "" {
		cfg.GoogleServiceAccountFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "credentials.json")
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.SettingsFile) == "" {
		errors = append(errors, "settings file path cannot be empty")
	}

	// Validate data backend
	validBackends := []string{"sheets", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Credentials are needed for the calendar even on a dry run
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
		errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided")
	}
	if c.GoogleTokenCacheFile == "" {
		errors = append(errors, "token cache file path cannot be empty")
	}

	// Validate history database directory if enabled
	if c.HistoryDBPath != "" {
		dir := filepath.Dir(c.HistoryDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create history database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := c.Level(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': %v", c.LogLevel, err))
	}
	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [auto text json]", c.LogFormat))
	}

	if c.RunTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid run timeout %v: must be at least 1 second", c.RunTimeout))
	} else if c.RunTimeout > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid run timeout %v: must be at most 1 hour", c.RunTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
