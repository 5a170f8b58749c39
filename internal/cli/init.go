// Package cli provides the calsheets commands and the process bootstrap
// helpers shared by them.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"calsheets/internal/config"
	"calsheets/internal/log"
	"calsheets/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from the configuration and sets it
// as the default logger. Records go to stderr, plus LOG_FILE when set; the
// returned function closes that file.
func SetupLogger(cfg *config.Config) (*log.Logger, func() error, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	writers := []io.Writer{os.Stderr}
	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		JSON:      useJSON(cfg.LogFormat, os.Stderr.Fd()),
		Writers:   writers,
	})
	log.SetDefault(logger)
	return logger, closeFn, nil
}

// useJSON picks the JSON handler unless the format asks for text or, in
// auto mode, fd is a terminal.
func useJSON(format string, fd uintptr) bool {
	switch format {
	case "json":
		return true
	case "text":
		return false
	default:
		return !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	}
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitHistory opens the run history database. It returns nil without error
// when history is disabled.
func InitHistory(logger *slog.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	if dbPath == "" {
		return nil, nil
	}
	repo, err := storage.NewSQLiteRepository(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open history database %s: %w", dbPath, err)
	}
	logger.Debug("Opened run history", "path", dbPath)
	return repo, nil
}

// WithShutdown returns a context cancelled on SIGINT or SIGTERM, so an
// interrupted run stops between calls instead of being killed mid-write.
func WithShutdown(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("Shutdown signal received, cancelling run", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
