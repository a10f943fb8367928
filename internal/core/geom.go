// Package core provides the small value types shared by every maze package:
// grid positions, movement directions, input actions and a colored character
// screen buffer. It has no dependency on Bubble Tea so game logic stays pure.
package core

import "fmt"

// Position is a cell coordinate in a maze. X grows to the right, Y grows downward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns the position shifted by the direction's offset.
func (p Position) Add(d Direction) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Neighbors returns the four axis-aligned neighbors in Up, Down, Left, Right order.
func (p Position) Neighbors() [4]Position {
	return [4]Position{p.Add(Up), p.Add(Down), p.Add(Left), p.Add(Right)}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four movement directions.
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the valid movement directions.
var Directions = [4]Direction{Up, Down, Left, Right}

// Offset returns the (dx, dy) step for the direction. NoDirection yields (0, 0).
func (d Direction) Offset() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of Up, Down, Left, Right.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection converts "up", "down", "left" or "right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return NoDirection, false
}

// Rect is an axis-aligned box on the screen, used for overlays and panels.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// CenteredRect returns a w×h rectangle centered in a screen of the given size.
func CenteredRect(screenW, screenH, w, h int) Rect {
	return NewRect((screenW-w)/2, (screenH-h)/2, w, h)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
