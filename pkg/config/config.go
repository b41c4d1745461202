// Package config handles loading and saving prat configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/prat/config.yaml
//   - Data:    ~/.local/share/prat/ (content packs)
//   - State:   ~/.local/state/prat/ (view state database)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	ScrollTopThreshold int  `yaml:"scroll_top_threshold,omitempty"` // Rows scrolled before the back-to-top hint appears
	ExclusiveSections  bool `yaml:"exclusive_sections,omitempty"`   // Opening a section closes the others
	Headless           bool `yaml:"headless,omitempty"`             // Omit the page title header line
}

// SearchConfig controls search behavior.
type SearchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty"` // Delay before a typed query is applied
}

// ContentConfig controls content pack loading.
type ContentConfig struct {
	Path                string   `yaml:"path,omitempty"`                  // Content pack file or directory
	DefaultOpenSections []string `yaml:"default_open_sections,omitempty"` // Section IDs open at startup
	Watch               *bool    `yaml:"watch,omitempty"`                 // Reload on file change (default true)
}

// Config is the top-level configuration for prat.
type Config struct {
	Content ContentConfig `yaml:"content,omitempty"`
	Search  SearchConfig  `yaml:"search,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			DebounceMs: 300,
		},
		UI: UIConfig{
			ScrollTopThreshold: 10,
		},
	}
}

// WatchEnabled reports whether live reload is on. Unset means enabled.
func (c Config) WatchEnabled() bool {
	if c.Content.Watch == nil {
		return true
	}
	return *c.Content.Watch
}

// ConfigDir returns the XDG config directory for prat.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "prat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "prat")
}

// DataDir returns the XDG data directory for prat.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "prat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "prat")
}

// StateDir returns the XDG state directory for prat.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "prat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "prat")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Search.DebounceMs < 0 {
		cfg.Search.DebounceMs = 0
	}
	if cfg.UI.ScrollTopThreshold <= 0 {
		cfg.UI.ScrollTopThreshold = DefaultConfig().UI.ScrollTopThreshold
	}

	cfg.Content.Path = expandHome(cfg.Content.Path)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
