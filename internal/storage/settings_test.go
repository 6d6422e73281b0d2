package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/favme/internal/model"
	"github.com/nikbrunner/favme/internal/storage"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/golden"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), storage.SettingsFile)
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSettingsStorage_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.SettingsFile)
	s := storage.NewSettingsStorage(path)

	want := model.Settings{AppearanceMode: "light", ColorTheme: "green"}
	assert.NilError(t, s.Save(want))

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	golden.Assert(t, string(data), "app_settings.golden")

	got, err := s.Load()
	assert.NilError(t, err)
	assert.DeepEqual(t, got, want)
}

func TestSettingsStorage_LoadNonexistent(t *testing.T) {
	s := storage.NewSettingsStorage(filepath.Join(t.TempDir(), storage.SettingsFile))

	got, err := s.Load()
	assert.NilError(t, err)
	assert.DeepEqual(t, got, model.DefaultSettings())
}

func TestSettingsStorage_LoadCorrupt(t *testing.T) {
	path := writeSettings(t, `{"appearance_mode": `)

	got, err := storage.NewSettingsStorage(path).Load()
	assert.ErrorIs(t, err, storage.ErrConfigCorrupt)
	assert.DeepEqual(t, got, model.DefaultSettings())
}

func TestSettingsStorage_LoadFillsMissingFields(t *testing.T) {
	path := writeSettings(t, `{"appearance_mode": "system"}`)

	got, err := storage.NewSettingsStorage(path).Load()
	assert.NilError(t, err)
	assert.DeepEqual(t, got, model.Settings{AppearanceMode: "system", ColorTheme: "blue"})
}

func TestSettingsStorage_LoadValidatedResetsUnknownTheme(t *testing.T) {
	path := writeSettings(t, `{"appearance_mode": "light", "color_theme": "purple"}`)
	s := storage.NewSettingsStorage(path)

	got, err := s.LoadValidated()
	assert.NilError(t, err)
	assert.Equal(t, got.ColorTheme, "blue")
	assert.Equal(t, got.AppearanceMode, "light")

	// correction must already be on disk
	persisted, err := s.Load()
	assert.NilError(t, err)
	assert.Equal(t, persisted.ColorTheme, "blue")
}

func TestSettingsStorage_LoadValidatedLeavesValidFileAlone(t *testing.T) {
	content := `{"appearance_mode":"light","color_theme":"dark-blue"}`
	path := writeSettings(t, content)

	got, err := storage.NewSettingsStorage(path).LoadValidated()
	assert.NilError(t, err)
	assert.Equal(t, got.ColorTheme, "dark-blue")

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(data), content, "valid settings should not be rewritten")
}

func TestSettingsStorage_LoadValidatedCorruptKeepsFile(t *testing.T) {
	content := `not json`
	path := writeSettings(t, content)

	got, err := storage.NewSettingsStorage(path).LoadValidated()
	assert.ErrorIs(t, err, storage.ErrConfigCorrupt)
	assert.DeepEqual(t, got, model.DefaultSettings())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(data), content)
}
