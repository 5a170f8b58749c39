package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"calsheets/internal/core"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Settings is the job configuration read from the YAML settings file. It is
// loaded once at startup and not modified afterwards.
type Settings struct {
	SpreadsheetID string
	Location      *time.Location
	Categories    []core.CategoryConfig // In file order
	Calendars     []core.CalendarSource // In file order
}

type settingsFile struct {
	SpreadsheetID string    `yaml:"spreadsheet_id"`
	Timezone      string    `yaml:"timezone"`
	Tabs          yaml.Node `yaml:"tabs"`
	Calendars     yaml.Node `yaml:"calendars"`
}

type tabFile struct {
	Aliases []string `yaml:"aliases"`
	Start   struct {
		Cell  string `yaml:"cell"`
		Year  int    `yaml:"year"`
		Month int    `yaml:"month"`
	} `yaml:"start"`
}

// LoadSettings reads and validates the settings file at path.
func LoadSettings(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	return ParseSettings(b)
}

// ParseSettings decodes a YAML settings document and validates it.
func ParseSettings(b []byte) (*Settings, error) {
	var f settingsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: parse settings: %v", ErrInvalidConfiguration, err)
	}

	s := &Settings{SpreadsheetID: strings.TrimSpace(f.SpreadsheetID), Location: time.Local}
	if tz := strings.TrimSpace(f.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfiguration, tz, err)
		}
		s.Location = loc
	}

	if err := forEachPair(&f.Tabs, "tabs", func(name string, value *yaml.Node) error {
		var tab tabFile
		if err := value.Decode(&tab); err != nil {
			return fmt.Errorf("tab %q: %v", name, err)
		}
		s.Categories = append(s.Categories, core.CategoryConfig{
			Name:    name,
			Aliases: tab.Aliases,
			Start: core.StartCell{
				Cell:  tab.Start.Cell,
				Year:  tab.Start.Year,
				Month: time.Month(tab.Start.Month),
			},
		})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	if err := forEachPair(&f.Calendars, "calendars", func(name string, value *yaml.Node) error {
		var tabs []string
		if err := value.Decode(&tabs); err != nil {
			return fmt.Errorf("calendar %q: %v", name, err)
		}
		s.Calendars = append(s.Calendars, core.CalendarSource{DisplayName: name, Categories: tabs})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// forEachPair walks a YAML mapping in document order. A missing or null
// node is treated as empty.
func forEachPair(n *yaml.Node, field string, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%s must be a mapping (line %d)", field, n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the invariants every run relies on. Start cells are not
// checked here: a malformed cell only excludes its own tab at write time.
func (s *Settings) Validate() error {
	var problems []string

	if s.SpreadsheetID == "" {
		problems = append(problems, "spreadsheet_id is required")
	}
	if len(s.Categories) == 0 {
		problems = append(problems, "at least one tab must be configured")
	}
	if len(s.Calendars) == 0 {
		problems = append(problems, "at least one calendar must be configured")
	}

	names := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if strings.TrimSpace(c.Name) == "" {
			problems = append(problems, "tab names cannot be empty")
			continue
		}
		if _, dup := names[c.Name]; dup {
			problems = append(problems, fmt.Sprintf("tab %q is defined twice", c.Name))
		}
		names[c.Name] = struct{}{}
	}
	for _, c := range s.Categories {
		for _, a := range c.Aliases {
			if a == c.Name {
				continue
			}
			if _, clash := names[a]; clash {
				problems = append(problems, fmt.Sprintf("alias %q of tab %q collides with tab %q", a, c.Name, a))
			}
		}
	}

	seenCals := make(map[string]struct{}, len(s.Calendars))
	for _, cal := range s.Calendars {
		if _, dup := seenCals[cal.DisplayName]; dup {
			problems = append(problems, fmt.Sprintf("calendar %q is defined twice", cal.DisplayName))
		}
		seenCals[cal.DisplayName] = struct{}{}
		for _, tab := range cal.Categories {
			if _, ok := names[tab]; !ok {
				problems = append(problems, fmt.Sprintf("calendar %q references unknown tab %q", cal.DisplayName, tab))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidConfiguration, strings.Join(problems, "\n- "))
	}
	return nil
}

// Category returns the configuration of the named tab.
func (s *Settings) Category(name string) (core.CategoryConfig, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return core.CategoryConfig{}, false
}

// Calendar returns the watched calendar with the given display name.
func (s *Settings) Calendar(name string) (core.CalendarSource, bool) {
	for _, c := range s.Calendars {
		if c.DisplayName == name {
			return c, true
		}
	}
	return core.CalendarSource{}, false
}
