package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.DefaultSort != "updated" {
		t.Errorf("expected default sort 'updated', got %q", cfg.UI.DefaultSort)
	}
	if !cfg.UI.ShowValues {
		t.Error("expected show_values to default to true")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.DefaultSort != "updated" {
		t.Errorf("expected default config, got sort %q", cfg.UI.DefaultSort)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  default_sort: name
  show_values: false
  headless: true

recent:
  - ~/inventories/home
  - /absolute/path
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.DefaultSort != "name" || !cfg.UI.Headless {
		t.Errorf("ui config not parsed: %+v", cfg.UI)
	}
	if len(cfg.Recent) != 2 {
		t.Fatalf("got %d recent entries, want 2", len(cfg.Recent))
	}
	if strings.HasPrefix(cfg.Recent[0], "~") {
		t.Errorf("expected ~ expansion, got %q", cfg.Recent[0])
	}
	if cfg.Recent[1] != "/absolute/path" {
		t.Errorf("absolute path changed: %q", cfg.Recent[1])
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error for invalid yaml")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.DefaultSort = "value"
	cfg.RememberRecent("/inv/a")

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.UI.DefaultSort != "value" {
		t.Errorf("sort round trip: got %q", loaded.UI.DefaultSort)
	}
	if len(loaded.Recent) != 1 || loaded.Recent[0] != "/inv/a" {
		t.Errorf("recent round trip: %v", loaded.Recent)
	}
}

func TestRememberRecentDedupAndCap(t *testing.T) {
	cfg := DefaultConfig()
	for _, d := range []string{"/a", "/b", "/c", "/d", "/e", "/f"} {
		cfg.RememberRecent(d)
	}
	cfg.RememberRecent("/c")

	if len(cfg.Recent) > 5 {
		t.Errorf("recent grew past cap: %v", cfg.Recent)
	}
	if cfg.Recent[0] != "/c" {
		t.Errorf("most recent should be first, got %v", cfg.Recent)
	}
	seen := map[string]bool{}
	for _, r := range cfg.Recent {
		if seen[r] {
			t.Errorf("duplicate entry %q in %v", r, cfg.Recent)
		}
		seen[r] = true
	}
}
