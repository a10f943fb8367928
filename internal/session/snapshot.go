package session

import (
	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/levels"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Resolved reports whether the run has ended in a win or a loss.
func (s Status) Resolved() bool {
	return s == StatusWon || s == StatusLost
}

// Loss reasons shown to the player.
const (
	ReasonSaw          = "Cut by a spinning saw!"
	ReasonRoamingSnake = "Caught by a roaming snake!"
	ReasonStaticSnake  = "Bitten by a deadly snake!"
	ReasonTimeout      = "Time limit exceeded!"
)

// Snapshot is a copy of the session state handed to views.
type Snapshot struct {
	Level      int             `json:"level"`
	LevelName  string          `json:"level_name"`
	Player     core.Position   `json:"player"`
	Status     Status          `json:"status"`
	Elapsed    int             `json:"elapsed"`
	TimeLimit  int             `json:"time_limit"`
	Score      int             `json:"score"`
	Coins      int             `json:"coins"`
	Gems       int             `json:"gems"`
	Collected  []core.Position `json:"collected"`
	Snakes     []core.Position `json:"snakes"`
	LossReason string          `json:"loss_reason,omitempty"`
	Epoch      uint64          `json:"epoch"`

	// Def is the level being played. Levels are immutable, so sharing is safe.
	Def *levels.Level `json:"-"`
}

// Ticking reports whether the timer should be running.
func (s Snapshot) Ticking() bool {
	return s.Status == StatusActive
}

// Remaining returns the seconds left before the time limit, or -1 when unlimited.
func (s Snapshot) Remaining() int {
	if s.TimeLimit <= 0 {
		return -1
	}
	return max(s.TimeLimit-s.Elapsed, 0)
}

// IsCollected reports whether the reward at p was picked up this run.
func (s Snapshot) IsCollected(p core.Position) bool {
	for _, c := range s.Collected {
		if c == p {
			return true
		}
	}
	return false
}

// SnakeAt reports whether a roaming snake occupies p.
func (s Snapshot) SnakeAt(p core.Position) bool {
	for _, sn := range s.Snakes {
		if sn == p {
			return true
		}
	}
	return false
}
