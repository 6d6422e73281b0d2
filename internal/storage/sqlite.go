package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/favme/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS favorites (
			kind TEXT NOT NULL CHECK (kind IN ('folder', 'website')),
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (kind, name)
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (%d);
	`, currentSchemaVersion)
	_, err := s.db.Exec(schema)
	return err
}

// Load reads favorites from the database.
func (s *SQLiteStorage) Load() (*model.Favorites, error) {
	fav := model.NewFavorites()

	rows, err := s.db.Query(`SELECT kind, name, value FROM favorites`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kindStr, name, value string
		if err := rows.Scan(&kindStr, &name, &value); err != nil {
			return nil, err
		}
		kind, err := model.ParseKind(kindStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
		}
		fav.Collection(kind)[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fav, nil
}

// Save replaces the stored favorites.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(fav *model.Favorites) error {
	if err := s.save(fav); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteStorage) save(fav *model.Favorites) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM favorites"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO favorites (kind, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, kind := range []model.Kind{model.KindFolder, model.KindWebsite} {
		for name, value := range fav.Collection(kind) {
			if _, err := stmt.Exec(kind.String(), name, value); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
