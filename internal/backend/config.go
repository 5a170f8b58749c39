package backend

import (
	"fmt"
	"net/http"

	"calsheets/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config, settings *config.Settings, client *http.Client) (Config, error) {
	if appConfig == nil || settings == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	tabs := make([]string, 0, len(settings.Categories))
	for _, c := range settings.Categories {
		tabs = append(tabs, c.Name)
	}

	return Config{
		Type:          backendType,
		SpreadsheetID: settings.SpreadsheetID,
		HTTPClient:    client,
		Tabs:          tabs,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SheetsBackend:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id is required for sheets backend")
		}
		if c.HTTPClient == nil {
			return fmt.Errorf("an authorized HTTP client is required for sheets backend")
		}
	case MemoryBackend:
		// Memory backend doesn't require additional validation
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SheetsBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
