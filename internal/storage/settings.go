package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nikbrunner/favme/internal/model"
)

// SettingsStorage persists display preferences as a flat JSON document.
type SettingsStorage struct {
	path string
}

// NewSettingsStorage creates a SettingsStorage for the given file path.
func NewSettingsStorage(path string) *SettingsStorage {
	return &SettingsStorage{path: path}
}

// Path returns the settings file path.
func (s *SettingsStorage) Path() string {
	return s.path
}

// Load reads settings from disk.
// A missing file yields defaults. A corrupt file yields defaults and an
// error wrapping ErrConfigCorrupt. Missing fields are filled with defaults;
// values are not validated here.
func (s *SettingsStorage) Load() (model.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultSettings(), nil
		}
		return model.DefaultSettings(), err
	}

	var settings model.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("%w: %s: %v", ErrConfigCorrupt, s.path, err)
	}

	// Apply defaults for missing fields
	defaults := model.DefaultSettings()
	if settings.AppearanceMode == "" {
		settings.AppearanceMode = defaults.AppearanceMode
	}
	if settings.ColorTheme == "" {
		settings.ColorTheme = defaults.ColorTheme
	}

	return settings, nil
}

// LoadValidated loads settings and resets out-of-list values to their
// defaults, saving the corrected document immediately. A load error is
// returned together with the settings in use; a save error takes
// precedence since the correction did not survive.
func (s *SettingsStorage) LoadValidated() (model.Settings, error) {
	settings, loadErr := s.Load()
	if settings.Normalize() {
		if err := s.Save(settings); err != nil {
			return settings, err
		}
	}
	return settings, loadErr
}

// Save writes settings to disk.
func (s *SettingsStorage) Save(settings model.Settings) error {
	return writeJSON(s.path, settings)
}
