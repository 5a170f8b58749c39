package memory

import (
	"context"
	"errors"
	"testing"
)

func TestStoreUpdateAndRead(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	if n, err := s.UpdateCell(ctx, "Work!N3", 2.5); err != nil || n != 1 {
		t.Fatalf("UpdateCell() = %d, %v", n, err)
	}
	if _, err := s.UpdateCell(ctx, "'Dev Ops'!B2", 1); err != nil {
		t.Fatalf("UpdateCell() quoted tab error = %v", err)
	}
	if _, err := s.UpdateCell(ctx, "Work!N3", 3); err != nil {
		t.Fatal(err)
	}

	if v, _ := s.ReadCell(ctx, "Work!N3"); v != "3" {
		t.Errorf("ReadCell() = %q, want 3", v)
	}
	if v, _ := s.ReadCell(ctx, "Work!A1"); v != "" {
		t.Errorf("ReadCell() on blank = %q", v)
	}
	if w := s.Written(); len(w) != 2 || w[0] != "Work!N3" {
		t.Errorf("Written() = %v", w)
	}
	if tabs, _ := s.Tabs(ctx); tabs != nil {
		t.Errorf("Tabs() without WithTabs = %v, want nil", tabs)
	}
}

func TestStoreWithTabs(t *testing.T) {
	s := New(nil).WithTabs("Work", "Dev Ops")
	ctx := context.Background()

	if _, err := s.UpdateCell(ctx, "Gym!A1", 1); err == nil {
		t.Error("expected error for unknown tab")
	}
	if _, err := s.UpdateCell(ctx, "'Dev Ops'!A1", 1); err != nil {
		t.Errorf("UpdateCell() error = %v", err)
	}
	tabs, err := s.Tabs(ctx)
	if err != nil || len(tabs) != 2 {
		t.Errorf("Tabs() = %v, %v", tabs, err)
	}
}

func TestStoreFail(t *testing.T) {
	quota := errors.New("quota exceeded")
	s := New(nil)
	s.Fail("Work!A1", quota)

	if _, err := s.UpdateCell(context.Background(), "Work!A1", 1); !errors.Is(err, quota) {
		t.Errorf("UpdateCell() error = %v", err)
	}
	if len(s.Cells()) != 0 {
		t.Error("failed write must not be stored")
	}
}

func TestSplitRange(t *testing.T) {
	tests := []struct {
		in, tab, cell string
		ok            bool
	}{
		{"Work!B3", "Work", "B3", true},
		{"'It''s'!A1", "It's", "A1", true},
		{"NoBang", "", "", false},
		{"!A1", "", "", false},
		{"Work!", "", "", false},
	}
	for _, tt := range tests {
		tab, cell, ok := splitRange(tt.in)
		if tab != tt.tab || cell != tt.cell || ok != tt.ok {
			t.Errorf("splitRange(%q) = %q, %q, %v", tt.in, tab, cell, ok)
		}
	}
}
