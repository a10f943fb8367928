package maze

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/maze-escape/internal/core"
)

// Grid is a maze stored row by row: Grid[y][x].
type Grid [][]CellKind

// ParseRows builds a grid from level-file rows, one character per cell.
func ParseRows(rows []string) (Grid, error) {
	g := make(Grid, len(rows))
	for y, row := range rows {
		line := make([]CellKind, 0, len(row))
		for x, r := range row {
			k, err := ParseCell(r)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			line = append(line, k)
		}
		g[y] = line
	}
	return g, nil
}

// Rows renders the grid back to level-file rows.
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for y, line := range g {
		var sb strings.Builder
		for _, k := range line {
			sb.WriteRune(k.Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the length of the first row, or 0 for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether p addresses a cell. Rows may differ in length.
func (g Grid) InBounds(p core.Position) bool {
	return p.Y >= 0 && p.Y < len(g) && p.X >= 0 && p.X < len(g[p.Y])
}

// At returns the kind at p. Out-of-bounds positions read as Wall.
func (g Grid) At(p core.Position) CellKind {
	if !g.InBounds(p) {
		return Wall
	}
	return g[p.Y][p.X]
}

// Positions lists every cell of the given kind in row-major order.
func (g Grid) Positions(kind CellKind) []core.Position {
	var out []core.Position
	for y, line := range g {
		for x, k := range line {
			if k == kind {
				out = append(out, core.Pos(x, y))
			}
		}
	}
	return out
}

// Count returns how many cells have the given kind.
func (g Grid) Count(kind CellKind) int {
	n := 0
	for _, line := range g {
		for _, k := range line {
			if k == kind {
				n++
			}
		}
	}
	return n
}
