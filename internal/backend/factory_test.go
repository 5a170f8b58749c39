package backend

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"calsheets/internal/config"
	"calsheets/internal/core"
	"calsheets/internal/sheets/memory"
)

func TestFromAppConfig(t *testing.T) {
	settings := &config.Settings{
		SpreadsheetID: "sheet-123",
		Location:      time.UTC,
		Categories:    []core.CategoryConfig{{Name: "Work"}, {Name: "Dev"}},
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory"}, settings, nil)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != MemoryBackend || cfg.SpreadsheetID != "sheet-123" || strings.Join(cfg.Tabs, ",") != "Work,Dev" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sqlite"}, settings, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil, settings, nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		errorString string
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "sheets", config: Config{Type: SheetsBackend, SpreadsheetID: "x", HTTPClient: http.DefaultClient}},
		{name: "sheets without id", config: Config{Type: SheetsBackend, HTTPClient: http.DefaultClient}, errorString: "spreadsheet id"},
		{name: "sheets without client", config: Config{Type: SheetsBackend, SpreadsheetID: "x"}, errorString: "HTTP client"},
		{name: "unknown", config: Config{Type: "csv"}, errorString: "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want %q", err, tt.errorString)
			}
		})
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, Tabs: []string{"Work"}})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	store, ok := res.Backend.(*memory.Store)
	if !ok {
		t.Fatalf("Backend = %T, want *memory.Store", res.Backend)
	}
	if _, err := store.UpdateCell(context.Background(), "Gym!A1", 1); err == nil {
		t.Error("dry run should only accept configured tabs")
	}
}

func TestCreateBackend_Sheets(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:          SheetsBackend,
		SpreadsheetID: "sheet-123",
		HTTPClient:    http.DefaultClient,
		Endpoint:      "http://127.0.0.1:1/",
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if res.Backend == nil {
		t.Fatal("nil backend")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "sheets,memory" {
		t.Errorf("GetBackendTypeStrings() = %q", got)
	}
}
