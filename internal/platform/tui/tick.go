// Package tui provides the Bubble Tea front end for the maze: the level menu,
// the game screen, the scoreboard and the SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerTickMsg refreshes the run clock. epoch ties it to the run segment that
// scheduled it; ticks from an older segment are dropped.
type timerTickMsg struct {
	epoch uint64
}

// snakeTickMsg steps roaming snakes.
type snakeTickMsg struct {
	epoch uint64
}

func timerTickCmd(every time.Duration, epoch uint64) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return timerTickMsg{epoch: epoch}
	})
}

func snakeTickCmd(every time.Duration, epoch uint64) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return snakeTickMsg{epoch: epoch}
	})
}
