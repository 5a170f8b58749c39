package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "calsheets/internal/sheets/google"
	"calsheets/internal/sheets/memory"

	goption "google.golang.org/api/option"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	opts := []goption.ClientOption{goption.WithHTTPClient(config.HTTPClient)}
	if config.Endpoint != "" {
		opts = append(opts, goption.WithEndpoint(config.Endpoint))
	}

	cli, err := gsheet.New(ctx, config.SpreadsheetID, f.logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.SpreadsheetID)

	return &BackendResult{
		Backend: cli,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store := memory.New(f.logger)
	if len(config.Tabs) > 0 {
		store.WithTabs(config.Tabs...)
	}

	f.logger.Info("Initialized memory backend, nothing will be written", "tabs", len(config.Tabs))

	return &BackendResult{
		Backend: store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
