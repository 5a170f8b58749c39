package backend

import (
	"context"
	"net/http"

	"calsheets/internal/sheets"
)

// Backend is the spreadsheet the job writes hours into
type Backend interface {
	sheets.CellWriter
	sheets.TabLister
	sheets.CellReader
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Google Sheets specific
	SpreadsheetID string
	HTTPClient    *http.Client // Authorized client for the Sheets API
	Endpoint      string       // Overrides the API endpoint, empty for the default

	// Memory backend specific
	Tabs []string // Tabs the dry run accepts; empty accepts any
}

// BackendType represents the type of backend
type BackendType string

const (
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
