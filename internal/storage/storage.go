package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/favme/internal/model"
)

var (
	// ErrConfigCorrupt is returned alongside a usable empty/default document
	// when a file exists but cannot be parsed.
	ErrConfigCorrupt = errors.New("config file is corrupt")
	// ErrPersistence wraps any failure to write a document.
	ErrPersistence = errors.New("failed to persist")
)

const (
	FavoritesFile = "favorites_config.json"
	SettingsFile  = "app_settings.json"
	SQLiteFile    = "favorites.db"
)

// Storage defines the interface for persisting favorites.
type Storage interface {
	Load() (*model.Favorites, error)
	Save(fav *model.Favorites) error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads favorites from the JSON file.
// A missing file yields empty favorites and no error. A corrupt file yields
// empty favorites and an error wrapping ErrConfigCorrupt.
func (s *JSONStorage) Load() (*model.Favorites, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewFavorites(), nil
		}
		return model.NewFavorites(), err
	}

	var fav model.Favorites
	if err := json.Unmarshal(data, &fav); err != nil {
		return model.NewFavorites(), fmt.Errorf("%w: %s: %v", ErrConfigCorrupt, s.path, err)
	}

	// Ensure maps are not nil
	if fav.Folders == nil {
		fav.Folders = map[string]string{}
	}
	if fav.Websites == nil {
		fav.Websites = map[string]string{}
	}

	return &fav, nil
}

// Save writes favorites to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(fav *model.Favorites) error {
	doc := model.Favorites{
		Folders:  fav.Collection(model.KindFolder),
		Websites: fav.Collection(model.KindWebsite),
	}
	return writeJSON(s.path, doc)
}

// Quarantine moves the document aside to path+".corrupt" so a later Save
// does not overwrite it. Returns the new location.
func (s *JSONStorage) Quarantine() (string, error) {
	dest := s.path + ".corrupt"
	if err := os.Rename(s.path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// writeJSON marshals v with 4-space indentation and writes it through a
// temp file that is renamed over path.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// OpenStorage opens the favorites backend in dir.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStorage(dir string) (Storage, error) {
	sqlitePath := filepath.Join(dir, SQLiteFile)
	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}
	return NewJSONStorage(filepath.Join(dir, FavoritesFile)), nil
}
