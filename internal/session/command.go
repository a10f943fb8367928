package session

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/maze-escape/internal/core"
)

// Command names accepted by Apply.
const (
	CmdStart       = "start"
	CmdPause       = "pause"
	CmdResume      = "resume"
	CmdTogglePause = "toggle_pause"
	CmdStop        = "stop"
	CmdReset       = "reset"
	CmdMove        = "move"
	CmdNextLevel   = "next_level"
	CmdSelectLevel = "select_level"
)

// ErrUnknownCommand is returned by Apply for a command name it does not know.
var ErrUnknownCommand = errors.New("session: unknown command")

// Command is a serialized session command, as sent by remote views.
type Command struct {
	Command   string `json:"command"`
	Direction string `json:"direction,omitempty"`
	Level     int    `json:"level,omitempty"`
}

// Commands lists the accepted command names.
func Commands() []string {
	return []string{CmdStart, CmdPause, CmdResume, CmdTogglePause, CmdStop, CmdReset, CmdMove, CmdNextLevel, CmdSelectLevel}
}

// Apply runs a serialized command. Only unknown command names are errors.
// A move with an unrecognized direction, like any command that does not apply
// in the current state, is a no-op.
func (s *Session) Apply(c Command) (Snapshot, error) {
	switch c.Command {
	case CmdStart:
		return s.Start(), nil
	case CmdPause:
		return s.Pause(), nil
	case CmdResume:
		return s.Resume(), nil
	case CmdTogglePause:
		return s.TogglePause(), nil
	case CmdStop:
		return s.Stop(), nil
	case CmdReset:
		return s.Reset(), nil
	case CmdMove:
		d, ok := core.ParseDirection(c.Direction)
		if !ok {
			return s.Snapshot(), nil
		}
		return s.Move(d), nil
	case CmdNextLevel:
		return s.AdvanceLevel(), nil
	case CmdSelectLevel:
		return s.SelectLevel(c.Level), nil
	}
	return s.Snapshot(), fmt.Errorf("%w %q", ErrUnknownCommand, c.Command)
}
