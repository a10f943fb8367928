package maze

import "github.com/vovakirdan/maze-escape/internal/core"

// FallbackStart is used when a grid has no Start cell.
var FallbackStart = core.Pos(1, 1)

// IsValidMove reports whether the player may step onto p: it must be inside
// the grid and not a wall. Saws and snakes are enterable (and lethal).
func IsValidMove(g Grid, p core.Position) bool {
	return g.InBounds(p) && g[p.Y][p.X] != Wall
}

// IsGoalReached reports whether p is a goal cell.
func IsGoalReached(g Grid, p core.Position) bool {
	return g.InBounds(p) && g[p.Y][p.X] == Goal
}

// ObstacleAt classifies the static obstacle drawn at p.
func ObstacleAt(g Grid, p core.Position) Obstacle {
	if !g.InBounds(p) {
		return ObstacleNone
	}
	switch g[p.Y][p.X] {
	case Saw:
		return ObstacleSaw
	case Snake:
		return ObstacleSnake
	}
	return ObstacleNone
}

// RewardAt returns the collectible at p with its default pickup value.
func RewardAt(g Grid, p core.Position) Reward {
	if !g.InBounds(p) {
		return Reward{}
	}
	switch g[p.Y][p.X] {
	case Coin:
		return Reward{Kind: RewardCoin, Value: CoinPoints}
	case Gem:
		return Reward{Kind: RewardGem, Value: GemPoints}
	}
	return Reward{}
}

// FindStartPosition returns the first Start cell in row-major order,
// or FallbackStart when there is none.
func FindStartPosition(g Grid) core.Position {
	for y, line := range g {
		for x, k := range line {
			if k == Start {
				return core.Pos(x, y)
			}
		}
	}
	return FallbackStart
}

// SnakeCanEnter reports whether a roaming snake may step onto p. Snakes stay
// off walls, goals, saws and collectibles.
func SnakeCanEnter(g Grid, p core.Position) bool {
	if !g.InBounds(p) {
		return false
	}
	switch g[p.Y][p.X] {
	case Wall, Goal, Saw, Coin, Gem:
		return false
	}
	return true
}
