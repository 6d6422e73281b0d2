package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyName     = errors.New("favorite name must not be empty")
	ErrEmptyValue    = errors.New("favorite value must not be empty")
	ErrDuplicateName = errors.New("favorite name already exists")
	ErrNotFound      = errors.New("favorite not found")
	ErrUnknownKind   = errors.New("unknown favorite kind")
)

// Kind selects one of the two independent favorite collections.
type Kind int

const (
	KindFolder Kind = iota
	KindWebsite
)

// String returns the lowercase name used in CLI arguments and messages.
func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindWebsite:
		return "website"
	default:
		return "unknown"
	}
}

// ParseKind accepts "folder"/"folders" and "website"/"websites"/"web".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folder", "folders", "dir":
		return KindFolder, nil
	case "website", "websites", "web", "site", "url":
		return KindWebsite, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Favorites is the persisted aggregate of folder and website shortcuts.
// Folders maps name to filesystem path, Websites maps name to URL.
type Favorites struct {
	Folders  map[string]string `json:"folders"`
	Websites map[string]string `json:"websites"`
}

// Entry is a single favorite as presented in a listing.
type Entry struct {
	Kind  Kind
	Name  string
	Value string // path for folders, url for websites
}

// NewFavorites creates empty Favorites with initialized maps.
func NewFavorites() *Favorites {
	return &Favorites{
		Folders:  map[string]string{},
		Websites: map[string]string{},
	}
}

// Collection returns the mapping for kind, allocating it if nil.
func (f *Favorites) Collection(kind Kind) map[string]string {
	switch kind {
	case KindFolder:
		if f.Folders == nil {
			f.Folders = map[string]string{}
		}
		return f.Folders
	default:
		if f.Websites == nil {
			f.Websites = map[string]string{}
		}
		return f.Websites
	}
}

// Get returns the value stored under name.
func (f *Favorites) Get(kind Kind, name string) (string, bool) {
	v, ok := f.Collection(kind)[name]
	return v, ok
}

// Add inserts a new favorite. Name and value are trimmed.
// The collection is left untouched on any error.
func (f *Favorites) Add(kind Kind, name, value string) error {
	name, value, err := validateInput(name, value)
	if err != nil {
		return err
	}

	c := f.Collection(kind)
	if _, exists := c[name]; exists {
		return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, name)
	}
	c[name] = value
	return nil
}

// Edit renames and/or updates a favorite. A rename deletes the old key
// before inserting the new one; newName may equal oldName for an in-place
// value update.
func (f *Favorites) Edit(kind Kind, oldName, newName, newValue string) error {
	c := f.Collection(kind)
	if _, ok := c[oldName]; !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, oldName)
	}

	newName, newValue, err := validateInput(newName, newValue)
	if err != nil {
		return err
	}

	if newName != oldName {
		if _, exists := c[newName]; exists {
			return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, newName)
		}
		delete(c, oldName)
	}
	c[newName] = newValue
	return nil
}

// Remove deletes a favorite by name.
func (f *Favorites) Remove(kind Kind, name string) error {
	c := f.Collection(kind)
	if _, ok := c[name]; !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}
	delete(c, name)
	return nil
}

// Entries returns the favorites of kind sorted by name.
func (f *Favorites) Entries(kind Kind) []Entry {
	c := f.Collection(kind)
	entries := make([]Entry, 0, len(c))
	for name, value := range c {
		entries = append(entries, Entry{Kind: kind, Name: name, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// All returns folders followed by websites, each sorted by name.
func (f *Favorites) All() []Entry {
	return append(f.Entries(KindFolder), f.Entries(KindWebsite)...)
}

// Clone returns a deep copy.
func (f *Favorites) Clone() *Favorites {
	out := NewFavorites()
	for k, v := range f.Folders {
		out.Folders[k] = v
	}
	for k, v := range f.Websites {
		out.Websites[k] = v
	}
	return out
}

// Merge adds every entry whose name is free in its collection.
// Returns how many were added and how many were skipped as duplicates or
// invalid input.
func (f *Favorites) Merge(entries []Entry) (added, skipped int) {
	for _, e := range entries {
		if err := f.Add(e.Kind, e.Name, e.Value); err != nil {
			skipped++
			continue
		}
		added++
	}
	return added, skipped
}

func validateInput(name, value string) (string, string, error) {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return "", "", ErrEmptyName
	}
	if value == "" {
		return "", "", ErrEmptyValue
	}
	return name, value, nil
}
