package core

import "testing"

func TestResolver_Aliases(t *testing.T) {
	r := NewResolver([]CategoryConfig{
		{Name: "Dev", Aliases: []string{"Coding", "Eng"}},
		{Name: "Admin"},
	})

	for _, title := range []string{"Dev", "Coding", "Eng"} {
		got, ok := r.Resolve(title)
		if !ok || got != "Dev" {
			t.Errorf("Resolve(%q) = %q,%v want Dev", title, got, ok)
		}
	}
	for _, title := range []string{"devops", "dev", "Coding session", ""} {
		if got, ok := r.Resolve(title); ok {
			t.Errorf("Resolve(%q) = %q, want no match", title, got)
		}
	}
}

func TestResolver_NamesBeforeAliasesAndFirstWins(t *testing.T) {
	r := NewResolver([]CategoryConfig{
		{Name: "A", Aliases: []string{"Shared", "B"}},
		{Name: "B", Aliases: []string{"Shared"}},
	})
	if got, _ := r.Resolve("B"); got != "B" {
		t.Errorf("name match should win over alias, got %q", got)
	}
	if got, _ := r.Resolve("Shared"); got != "A" {
		t.Errorf("first category in order should win, got %q", got)
	}
}

func TestResolver_Restrict(t *testing.T) {
	r := NewResolver([]CategoryConfig{
		{Name: "Dev", Aliases: []string{"Coding"}},
		{Name: "Gym", Aliases: []string{"Run"}},
	})

	work := r.Restrict([]string{"Dev"})
	if _, ok := work.Resolve("Run"); ok {
		t.Error("restricted resolver matched a category outside its list")
	}
	if got, ok := work.Resolve("Coding"); !ok || got != "Dev" {
		t.Errorf("Resolve(Coding) = %q,%v", got, ok)
	}

	if all := r.Restrict(nil); len(all.Categories()) != 2 {
		t.Errorf("empty restriction should keep all categories, got %d", len(all.Categories()))
	}
}
