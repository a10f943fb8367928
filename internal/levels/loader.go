package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Loader reads custom level files from a directory tree.
type Loader struct {
	Root   string
	Logger *log.Logger
}

// NewLoader creates a loader for the given directory.
func NewLoader(root string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Root: root, Logger: logger}
}

// LoadAll recursively loads every .yaml/.yml level under Root.
// Files that fail to parse or validate are skipped with a warning.
// Levels are ordered by their declared number, then by path.
func (l *Loader) LoadAll() ([]Level, error) {
	var lvls []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsLevelFile(path) {
			return nil
		}

		lvl, err := l.LoadFile(path)
		if err != nil {
			l.Logger.Warn("skipping level file", "path", path, "err", err)
			return nil
		}
		lvls = append(lvls, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: cannot walk %s: %w", l.Root, err)
	}

	sortLevels(lvls)
	return lvls, nil
}

// LoadFile loads and validates a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading %s: %w", path, err)
	}
	lvl, err := ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	lvl.FilePath = path
	return lvl, nil
}

// IsLevelFile reports whether path has a level file extension.
func IsLevelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load returns the catalog for dir. An empty dir means the built-in levels;
// a directory without any valid level also falls back to them.
func Load(dir string, logger *log.Logger) (*Catalog, error) {
	if dir == "" {
		return Builtin()
	}
	if logger == nil {
		logger = log.Default()
	}

	lvls, err := NewLoader(dir, logger).LoadAll()
	if err != nil {
		return nil, err
	}
	if len(lvls) == 0 {
		logger.Warn("no valid levels found, using built-in levels", "dir", dir)
		return Builtin()
	}
	logger.Debug("loaded custom levels", "dir", dir, "count", len(lvls))
	return NewCatalog(lvls), nil
}
