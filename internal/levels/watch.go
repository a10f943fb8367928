package levels

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the catalog from dir whenever a level file in it changes and
// hands the new catalog to onChange. It blocks until ctx is cancelled.
// Reload failures are logged and the previous catalog stays in use.
func Watch(ctx context.Context, dir string, logger *log.Logger, onChange func(*Catalog)) error {
	if logger == nil {
		logger = log.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("levels: cannot create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, dir); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				// New subdirectories are watched too; files copied in with
				// them are picked up by the reload.
				if err := watchTree(watcher, event.Name); err != nil {
					logger.Warn("level watcher error", "err", err)
				}
				pending = time.After(reloadDelay)
				continue
			}
			if !IsLevelFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				pending = time.After(reloadDelay)
			}

		case <-pending:
			pending = nil
			cat, err := Load(dir, logger)
			if err != nil {
				logger.Error("level reload failed", "dir", dir, "err", err)
				continue
			}
			logger.Info("levels reloaded", "dir", dir, "count", cat.Count())
			onChange(cat)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("level watcher error", "err", err)
		}
	}
}

// watchTree adds dir and every directory below it, matching what the
// loader walks.
func watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("levels: cannot watch %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Live holds the current catalog for servers that hot-reload levels.
// Sessions keep the catalog they were created with.
type Live struct {
	p atomic.Pointer[Catalog]
}

// NewLive returns a Live holding c.
func NewLive(c *Catalog) *Live {
	l := &Live{}
	l.p.Store(c)
	return l
}

// Get returns the current catalog.
func (l *Live) Get() *Catalog {
	return l.p.Load()
}

// Set replaces the current catalog. It matches Watch's onChange signature.
func (l *Live) Set(c *Catalog) {
	l.p.Store(c)
}
