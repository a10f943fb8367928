// Package levels owns the ordered catalog of maze levels: the five built-in
// levels embedded in the binary, YAML loading for custom level directories,
// and hot reload of such directories.
package levels

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/maze"
)

// ErrLevelNotFound is returned when a level number is outside the catalog.
var ErrLevelNotFound = errors.New("levels: level not found")

// Level is one immutable level definition.
type Level struct {
	Number        int
	Name          string
	Description   string
	TimeLimit     int // seconds, 0 = unlimited
	CoinValue     int
	GemValue      int
	RoamingSnakes bool
	Grid          maze.Grid
	FilePath      string // empty for built-in levels
}

// Start returns the player spawn for the level.
func (l *Level) Start() core.Position {
	return maze.FindStartPosition(l.Grid)
}

// Snakes returns the spawn points of roaming snakes. Levels without roaming
// snakes have none; their snake cells stay static.
func (l *Level) Snakes() []core.Position {
	if !l.RoamingSnakes {
		return nil
	}
	return l.Grid.Positions(maze.Snake)
}

// Catalog is an ordered, read-only list of levels numbered from 1.
type Catalog struct {
	levels []Level
}

// NewCatalog builds a catalog, renumbering the levels 1..n in the given order.
func NewCatalog(lvls []Level) *Catalog {
	c := &Catalog{levels: make([]Level, len(lvls))}
	copy(c.levels, lvls)
	for i := range c.levels {
		c.levels[i].Number = i + 1
	}
	return c
}

// Count returns the number of levels.
func (c *Catalog) Count() int {
	return len(c.levels)
}

// Get returns level n (1-based), or nil if n is out of range.
func (c *Catalog) Get(n int) *Level {
	if n < 1 || n > len(c.levels) {
		return nil
	}
	return &c.levels[n-1]
}

// Lookup is Get with an error for out-of-range numbers.
func (c *Catalog) Lookup(n int) (*Level, error) {
	if l := c.Get(n); l != nil {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %d (have 1..%d)", ErrLevelNotFound, n, len(c.levels))
}

// Next returns the number of the level after n, wrapping from the last level to 1.
func (c *Catalog) Next(n int) int {
	if n >= len(c.levels) || n < 1 {
		return 1
	}
	return n + 1
}

// All returns the levels in order.
func (c *Catalog) All() []Level {
	out := make([]Level, len(c.levels))
	copy(out, c.levels)
	return out
}
