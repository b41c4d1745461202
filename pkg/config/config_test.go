package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.DebounceMs != 300 {
		t.Errorf("expected debounce 300ms, got %d", cfg.Search.DebounceMs)
	}
	if cfg.UI.ScrollTopThreshold != 10 {
		t.Errorf("expected scroll top threshold 10, got %d", cfg.UI.ScrollTopThreshold)
	}
	if !cfg.WatchEnabled() {
		t.Error("expected watch enabled by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Search.DebounceMs != 300 {
		t.Errorf("expected default config, got debounce %d", cfg.Search.DebounceMs)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
content:
  path: ~/docs/benefits.yaml
  default_open_sections:
    - leave
    - pension
  watch: false

search:
  debounce_ms: 150

ui:
  scroll_top_threshold: 5
  exclusive_sections: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Path should have ~ expanded
	home, _ := os.UserHomeDir()
	expectedPath := filepath.Join(home, "docs/benefits.yaml")
	if cfg.Content.Path != expectedPath {
		t.Errorf("expected expanded path %q, got %q", expectedPath, cfg.Content.Path)
	}

	if len(cfg.Content.DefaultOpenSections) != 2 {
		t.Fatalf("expected 2 default open sections, got %d", len(cfg.Content.DefaultOpenSections))
	}
	if cfg.Content.DefaultOpenSections[0] != "leave" {
		t.Errorf("expected first open section 'leave', got %q", cfg.Content.DefaultOpenSections[0])
	}
	if cfg.WatchEnabled() {
		t.Error("expected watch disabled")
	}

	if cfg.Search.DebounceMs != 150 {
		t.Errorf("expected debounce_ms 150, got %d", cfg.Search.DebounceMs)
	}
	if cfg.UI.ScrollTopThreshold != 5 {
		t.Errorf("expected scroll_top_threshold 5, got %d", cfg.UI.ScrollTopThreshold)
	}
	if !cfg.UI.ExclusiveSections {
		t.Error("expected exclusive_sections true")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_NormalizesBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
search:
  debounce_ms: -50

ui:
  scroll_top_threshold: -1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Search.DebounceMs != 0 {
		t.Errorf("expected negative debounce clamped to 0, got %d", cfg.Search.DebounceMs)
	}
	if cfg.UI.ScrollTopThreshold != 10 {
		t.Errorf("expected threshold reset to default, got %d", cfg.UI.ScrollTopThreshold)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	watch := false
	cfg := Config{
		Content: ContentConfig{
			Path:                "/path/to/pack.json",
			DefaultOpenSections: []string{"vacation"},
			Watch:               &watch,
		},
		Search: SearchConfig{DebounceMs: 200},
		UI:     UIConfig{ScrollTopThreshold: 8},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.Content.Path != "/path/to/pack.json" {
		t.Errorf("expected content path preserved, got %q", loaded.Content.Path)
	}
	if len(loaded.Content.DefaultOpenSections) != 1 || loaded.Content.DefaultOpenSections[0] != "vacation" {
		t.Errorf("expected default open sections preserved, got %v", loaded.Content.DefaultOpenSections)
	}
	if loaded.WatchEnabled() {
		t.Error("expected watch disabled after round trip")
	}
	if loaded.Search.DebounceMs != 200 {
		t.Errorf("expected debounce 200, got %d", loaded.Search.DebounceMs)
	}
	if loaded.UI.ScrollTopThreshold != 8 {
		t.Errorf("expected threshold 8, got %d", loaded.UI.ScrollTopThreshold)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "prat")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DataDir()
	expected := filepath.Join(dir, "prat")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got := StateDir()
	expected := filepath.Join(dir, "prat")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
