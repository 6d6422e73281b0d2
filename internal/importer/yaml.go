package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/favme/internal/model"
	"gopkg.in/yaml.v3"
)

// document mirrors favorites_config.json. JSON is valid YAML, so the same
// decoder reads both.
type document struct {
	Folders  map[string]string `yaml:"folders"`
	Websites map[string]string `yaml:"websites"`
}

// ParseYAML reads a favorites document in YAML or JSON form.
// Entries are returned folders first, each collection sorted by name.
func ParseYAML(r io.Reader) ([]model.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse favorites yaml: %w", err)
	}

	fav := model.Favorites{Folders: doc.Folders, Websites: doc.Websites}
	return fav.All(), nil
}

// ParseFile picks a parser from the file extension.
func ParseFile(path string) ([]model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ParseHTMLBookmarks(f)
	case ".yaml", ".yml", ".json":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("unsupported import format %q (want .html, .yaml or .json)", filepath.Ext(path))
	}
}
