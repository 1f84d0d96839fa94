// Package settings persists the notifications screen preferences between
// runs, in tui.toml next to the configuration file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/search"
)

const fileName = "tui" + config.FileExtTOML

// Settings holds the screen preferences.
type Settings struct {
	// GroupBy is the list grouping: none, city or type.
	GroupBy string `toml:"group_by"`
	// SearchMode is the "/" search strategy: token, substring or regex.
	SearchMode string `toml:"search_mode"`
}

// DefaultSettings returns settings with all default values.
func DefaultSettings() Settings {
	return Settings{
		GroupBy:    string(domain.GroupByNone),
		SearchMode: "token",
	}
}

// Path returns the settings file: tui_settings_path when set, otherwise
// tui.toml in config_dir.
func Path() string {
	if override := config.Get("tui_settings_path", ""); override != "" {
		return override
	}
	return filepath.Join(config.Get("config_dir", ""), fileName)
}

// Load reads settings from path. A missing file yields the defaults; keys
// missing from the file keep their defaults.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes settings to path, creating its directory if needed.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), config.FileModeDir); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, config.FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Validate checks that settings values are valid.
func (s Settings) Validate() error {
	if !domain.GroupByMode(s.GroupBy).IsValid() {
		return fmt.Errorf("invalid group_by value: %q", s.GroupBy)
	}
	if _, err := search.New(s.SearchMode); err != nil {
		return err
	}
	return nil
}

// Provider returns the search provider of SearchMode.
func (s Settings) Provider() search.Provider {
	p, err := search.New(s.SearchMode)
	if err != nil {
		return search.NewTokenProvider()
	}
	return p
}
