// Package maze holds the maze grid and the pure queries the game session runs
// against it: movement validity, goal detection, obstacle and reward lookup.
package maze

import "fmt"

// CellKind is the content of one maze cell.
type CellKind int

const (
	Path CellKind = iota
	Wall
	Start
	Goal
	Saw
	Snake
	Coin
	Gem
)

var kindRunes = map[CellKind]rune{
	Path:  '.',
	Wall:  '#',
	Start: 'S',
	Goal:  'G',
	Saw:   'X',
	Snake: 'Z',
	Coin:  '$',
	Gem:   '*',
}

var kindNames = map[CellKind]string{
	Path:  "path",
	Wall:  "wall",
	Start: "start",
	Goal:  "goal",
	Saw:   "saw",
	Snake: "snake",
	Coin:  "coin",
	Gem:   "gem",
}

// Rune returns the level-file character for the kind.
func (k CellKind) Rune() rune {
	if r, ok := kindRunes[k]; ok {
		return r
	}
	return '?'
}

func (k CellKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

// ParseCell converts a level-file character into a cell kind.
func ParseCell(r rune) (CellKind, error) {
	for k, kr := range kindRunes {
		if kr == r {
			return k, nil
		}
	}
	return Path, fmt.Errorf("maze: unknown cell character %q", r)
}

// Obstacle classifies a lethal cell.
type Obstacle int

const (
	ObstacleNone Obstacle = iota
	ObstacleSaw
	ObstacleSnake
)

func (o Obstacle) String() string {
	switch o {
	case ObstacleSaw:
		return "saw"
	case ObstacleSnake:
		return "snake"
	default:
		return "none"
	}
}

// RewardKind classifies a collectible cell.
type RewardKind int

const (
	RewardNone RewardKind = iota
	RewardCoin
	RewardGem
)

// Default point values credited to the running score on pickup.
// Per-level values only apply when the final score is computed.
const (
	CoinPoints = 50
	GemPoints  = 100
)

// Reward is a collectible and its pickup value.
type Reward struct {
	Kind  RewardKind
	Value int
}

// None reports whether there is no reward.
func (r Reward) None() bool {
	return r.Kind == RewardNone
}
