// Package render draws session snapshots: into a core.Screen for terminal
// views and into PNG images for the web API.
package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/maze"
	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

// CellW is the number of screen columns per maze cell. Two columns keep
// cells roughly square in a terminal.
const CellW = 2

// hurryThreshold is when the timer turns into a warning.
const hurryThreshold = 10

type glyph struct {
	r     rune
	fill  rune
	color core.Color
}

var glyphs = map[maze.CellKind]glyph{
	maze.Path:  {' ', ' ', core.ColorDefault},
	maze.Wall:  {'█', '█', core.ColorGray},
	maze.Start: {'·', ' ', core.ColorBlue},
	maze.Goal:  {'⌂', ' ', core.ColorBrightGreen},
	maze.Saw:   {'x', ' ', core.ColorBrightRed},
	maze.Snake: {'s', ' ', core.ColorGreen},
	maze.Coin:  {'$', ' ', core.ColorYellow},
	maze.Gem:   {'♦', ' ', core.ColorBrightCyan},
}

var (
	playerGlyph = glyph{'@', ' ', core.ColorBrightYellow}
	snakeGlyph  = glyph{'S', ' ', core.ColorOrange}
)

// Legend is the one-line key shown under the maze.
const Legend = "@ you  ⌂ goal  $ coin  ♦ gem  x saw  s snake  S roaming snake"

// Help is the key reference shown at the bottom of the game screen.
const Help = "←↑↓→/WASD move  space pause  enter start/next  r reset  x stop  esc levels  q quit"

// GridSize returns the screen footprint of a grid.
func GridSize(g maze.Grid) (w, h int) {
	return g.Width() * CellW, g.Height()
}

// MinSize returns the smallest screen that fits the board for g.
func MinSize(g maze.Grid) (w, h int) {
	gw, gh := GridSize(g)
	return max(gw, 40), gh + 7
}

// DrawGrid draws the maze at (ox, oy). With a snapshot, collected rewards are
// hidden and the player and roaming snakes are drawn on top.
func DrawGrid(dst *core.Screen, ox, oy int, g maze.Grid, snap *session.Snapshot) {
	for y, row := range g {
		for x, kind := range row {
			gl := glyphs[kind]
			p := core.Pos(x, y)
			if snap != nil {
				switch {
				case snap.Player == p:
					gl = playerGlyph
				case snap.SnakeAt(p):
					gl = snakeGlyph
				case (kind == maze.Coin || kind == maze.Gem) && snap.IsCollected(p):
					gl = glyphs[maze.Path]
				}
			}
			sx := ox + x*CellW
			dst.SetColor(sx, oy+y, gl.r, gl.color)
			for i := 1; i < CellW; i++ {
				dst.SetColor(sx+i, oy+y, gl.fill, gl.color)
			}
		}
	}
}

// Board draws the full game screen: header, maze, status line, help and any
// dialog for the session state. st feeds the result dialogs.
func Board(dst *core.Screen, snap session.Snapshot, st stats.Stats) {
	dst.Clear()
	if snap.Def == nil {
		return
	}

	g := snap.Def.Grid
	minW, minH := MinSize(g)
	if dst.Width() < minW || dst.Height() < minH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorBrightRed)
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("need %dx%d, have %dx%d", minW, minH, dst.Width(), dst.Height()), core.ColorGray)
		return
	}

	drawHeader(dst, snap)

	gw, gh := GridSize(g)
	ox := (dst.Width() - gw) / 2
	oy := 3
	DrawGrid(dst, ox, oy, g, &snap)

	dst.DrawTextCentered(oy+gh+1, Legend, core.ColorGray)
	drawStatus(dst, oy+gh+2, snap)
	dst.DrawTextCentered(dst.Height()-1, Help, core.ColorGray)

	switch snap.Status {
	case session.StatusIdle:
		Dialog(dst, core.ColorCyan, fmt.Sprintf("Level %d: %s", snap.Level, snap.LevelName), snap.Def.Description, "", "Press ENTER to start")
	case session.StatusPaused:
		Dialog(dst, core.ColorYellow, "Paused", "Press SPACE to resume")
	case session.StatusWon:
		Dialog(dst, core.ColorBrightGreen,
			"Level Complete!",
			fmt.Sprintf("Time: %s   Score: %d", scoring.FormatTime(snap.Elapsed), snap.Score),
			fmt.Sprintf("Coins: %d   Gems: %d", snap.Coins, snap.Gems),
			fmt.Sprintf("Streak: %d   Best: %s", st.CurrentStreak, bestTime(st)),
			"",
			"ENTER next level   R play again",
		)
	case session.StatusLost:
		Dialog(dst, core.ColorBrightRed,
			"Game Over",
			snap.LossReason,
			fmt.Sprintf("Time: %s", scoring.FormatTime(snap.Elapsed)),
			"",
			"R try again   ESC choose level",
		)
	}
}

func drawHeader(dst *core.Screen, snap session.Snapshot) {
	title := fmt.Sprintf(" Level %d: %s", snap.Level, snap.LevelName)
	dst.DrawTextColor(0, 0, title, core.ColorBrightCyan)

	timer := "Time " + scoring.FormatTime(snap.Elapsed)
	color := core.ColorWhite
	if snap.TimeLimit > 0 {
		timer += " / " + scoring.FormatTime(snap.TimeLimit)
		if snap.Status == session.StatusActive && snap.Remaining() <= hurryThreshold {
			color = core.ColorBrightRed
		}
	}
	right := fmt.Sprintf("%s   Score %d ", timer, snap.Score)
	dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(right), 0, right, color)

	dst.DrawTextColor(1, 1, snap.Def.Description, core.ColorGray)
	for x := range dst.Width() {
		dst.SetColor(x, 2, '─', core.ColorGray)
	}
}

func drawStatus(dst *core.Screen, y int, snap session.Snapshot) {
	var parts []string
	if snap.Status == session.StatusActive && snap.TimeLimit > 0 && snap.Remaining() <= hurryThreshold {
		parts = append(parts, "HURRY!")
	}
	if snap.Def.RoamingSnakes {
		parts = append(parts, "Snakes are moving!")
	}
	if len(parts) == 0 {
		return
	}
	line := parts[0]
	for _, p := range parts[1:] {
		line += "   " + p
	}
	dst.DrawTextCentered(y, line, core.ColorOrange)
}

func bestTime(st stats.Stats) string {
	if st.BestTime == 0 {
		return "--:--"
	}
	return scoring.FormatTime(st.BestTime)
}

// Dialog draws a centered box with the title on top and the lines below it.
func Dialog(dst *core.Screen, color core.Color, title string, lines ...string) {
	w := utf8.RuneCountInString(title)
	for _, l := range lines {
		w = max(w, utf8.RuneCountInString(l))
	}
	box := core.CenteredRect(dst.Width(), dst.Height(), w+6, len(lines)+4)

	dst.FillRect(box, ' ')
	dst.DrawBox(box, color)
	dst.DrawTextCentered(box.Y+1, title, color)
	for i, l := range lines {
		dst.DrawTextCentered(box.Y+3+i, l, core.ColorWhite)
	}
}

// Preview renders a level's grid as plain text, one line per row.
func Preview(g maze.Grid) *core.Screen {
	w, h := GridSize(g)
	s := core.NewScreen(w, h)
	DrawGrid(s, 0, 0, g, nil)
	return s
}
