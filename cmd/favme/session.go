package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nikbrunner/favme/internal/logger"
	"github.com/nikbrunner/favme/internal/model"
	"github.com/nikbrunner/favme/internal/reconcile"
	"github.com/nikbrunner/favme/internal/storage"
)

// session holds everything a command needs after startup.
type session struct {
	dir      string
	log      logger.Logger
	settings model.Settings
	prefs    *storage.SettingsStorage
	store    storage.Storage
	fav      *model.Favorites
}

// openSession runs the startup sequence: validate settings, load favorites,
// then prune folders that no longer exist and persist the result.
func openSession(c *cli.Context, exists reconcile.ExistsFunc) (*session, error) {
	log, err := logger.New(c.String("log-level"), c.Bool("pretty"))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	dir := c.String("data-dir")
	if dir == "" {
		dir, err = storage.DataDir()
		if err != nil {
			return nil, err
		}
	}
	log.Debug("using data directory", logger.String("dir", dir))

	s := &session{dir: dir, log: log}
	stderr := c.App.ErrWriter

	s.prefs = storage.NewSettingsStorage(filepath.Join(dir, storage.SettingsFile))
	s.settings, err = s.prefs.LoadValidated()
	switch {
	case errors.Is(err, storage.ErrConfigCorrupt):
		fmt.Fprintf(stderr, "warning: %s is corrupt, using default settings\n", s.prefs.Path())
	case err != nil:
		log.Warn("failed to persist validated settings", logger.Error(err))
	}

	s.store, err = storage.OpenStorage(dir)
	if err != nil {
		return nil, err
	}

	s.fav, err = s.store.Load()
	if errors.Is(err, storage.ErrConfigCorrupt) {
		fmt.Fprintf(stderr, "warning: %v; starting with empty favorites\n", err)
		if js, ok := s.store.(*storage.JSONStorage); ok {
			if dest, qerr := js.Quarantine(); qerr == nil {
				fmt.Fprintf(stderr, "warning: corrupt file kept at %s\n", dest)
			} else {
				log.Warn("failed to move corrupt favorites aside", logger.Error(qerr))
			}
		}
	} else if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	rec := reconcile.New(s.store, log)
	if exists != nil {
		rec.Exists = exists
	}
	res, err := rec.Run(s.fav)
	for _, name := range res.Removed {
		fmt.Fprintf(stderr, "note: removed folder %q, its path no longer exists\n", name)
	}
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}

	return s, nil
}

func (s *session) save() error {
	return s.store.Save(s.fav)
}

func (s *session) close() {
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.log.Warn("failed to close storage", logger.Error(err))
		}
	}
	_ = s.log.Sync()
}
