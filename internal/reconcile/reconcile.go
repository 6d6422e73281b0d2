// Package reconcile prunes folder favorites whose target no longer exists.
package reconcile

import (
	"os"
	"sort"

	"github.com/nikbrunner/favme/internal/logger"
	"github.com/nikbrunner/favme/internal/model"
	"github.com/nikbrunner/favme/internal/storage"
)

// ExistsFunc reports whether a filesystem path exists.
type ExistsFunc func(path string) bool

// PathExists follows symlinks; a dangling link counts as missing.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Result describes one reconciliation pass.
type Result struct {
	Checked int
	Removed []string // sorted names of pruned folders
}

// Prune deletes every folder whose path fails exists and returns the
// removed names sorted. Each entry is checked independently.
func Prune(folders map[string]string, exists ExistsFunc) []string {
	var removed []string
	for name, path := range folders {
		if !exists(path) {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		delete(folders, name)
	}
	sort.Strings(removed)
	return removed
}

// Reconciler runs the startup pass against a store.
type Reconciler struct {
	Store  storage.Storage
	Exists ExistsFunc
	Logger logger.Logger
}

// New creates a Reconciler checking the real filesystem.
func New(store storage.Storage, log logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{Store: store, Exists: PathExists, Logger: log}
}

// Run prunes fav.Folders in place and saves the result, websites untouched.
// The document is saved even when nothing was removed. A save failure is
// logged and returned; fav still holds the pruned state.
func (r *Reconciler) Run(fav *model.Favorites) (Result, error) {
	exists := r.Exists
	if exists == nil {
		exists = PathExists
	}
	log := r.Logger
	if log == nil {
		log = logger.Nop()
	}

	folders := fav.Collection(model.KindFolder)
	result := Result{Checked: len(folders)}
	result.Removed = Prune(folders, exists)

	for _, name := range result.Removed {
		log.Info("removed missing folder favorite", logger.String("name", name))
	}
	log.Debug("folder check complete",
		logger.Int("checked", result.Checked),
		logger.Int("removed", len(result.Removed)),
	)

	if err := r.Store.Save(fav); err != nil {
		log.Error("failed to save reconciled favorites", logger.Error(err))
		return result, err
	}
	return result, nil
}
