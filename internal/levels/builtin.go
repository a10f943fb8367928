package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

//go:embed data/*.yaml
var builtinFS embed.FS

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
	builtinErr     error
)

// Builtin returns the catalog of the five levels shipped with the game.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtinCatalog, builtinErr = loadFS(builtinFS, "data")
	})
	return builtinCatalog, builtinErr
}

// MustBuiltin is Builtin for callers that treat a broken embed as fatal.
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}

func loadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("levels: cannot read embedded levels: %w", err)
	}

	var lvls []Level
	for _, e := range entries {
		data, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("levels: cannot read %s: %w", e.Name(), err)
		}
		lvl, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("levels: invalid built-in level %s: %w", e.Name(), err)
		}
		lvls = append(lvls, lvl)
	}
	sortLevels(lvls)
	return NewCatalog(lvls), nil
}

// sortLevels orders by declared number, then file path.
func sortLevels(lvls []Level) {
	sort.SliceStable(lvls, func(i, j int) bool {
		if lvls[i].Number != lvls[j].Number {
			return lvls[i].Number < lvls[j].Number
		}
		return lvls[i].FilePath < lvls[j].FilePath
	})
}
