package session

import (
	"math/rand"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/maze"
)

// StepSnakes moves every roaming snake one cell. Each snake picks uniformly
// among the neighbors it may enter and stays put when boxed in. Snakes move
// independently and may share a cell.
func StepSnakes(g maze.Grid, snakes []core.Position, rng *rand.Rand) []core.Position {
	out := make([]core.Position, len(snakes))
	var options []core.Position
	for i, p := range snakes {
		options = options[:0]
		for _, n := range p.Neighbors() {
			if maze.SnakeCanEnter(g, n) {
				options = append(options, n)
			}
		}
		if len(options) == 0 {
			out[i] = p
			continue
		}
		out[i] = options[rng.Intn(len(options))]
	}
	return out
}
