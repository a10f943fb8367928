package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/maze-escape/internal/core"
)

// ansi maps the board palette to 256-colour terminal codes.
var ansi = map[core.Color]lipgloss.Color{
	core.ColorRed:          "1",
	core.ColorGreen:        "2",
	core.ColorYellow:       "3",
	core.ColorBlue:         "4",
	core.ColorMagenta:      "5",
	core.ColorCyan:         "6",
	core.ColorWhite:        "7",
	core.ColorBrightRed:    "9",
	core.ColorBrightGreen:  "10",
	core.ColorBrightYellow: "11",
	core.ColorBrightCyan:   "14",
	core.ColorOrange:       "208",
	core.ColorGray:         "240",
}

// pieces are the board glyphs drawn bold. A piece matches on glyph and colour,
// so a '$' or 'x' in a text line stays plain.
var pieces = map[core.Cell]bool{
	{Rune: '@', Color: core.ColorBrightYellow}: true,
	{Rune: 'S', Color: core.ColorOrange}:       true,
	{Rune: '⌂', Color: core.ColorBrightGreen}:  true,
	{Rune: 'x', Color: core.ColorBrightRed}:    true,
	{Rune: '♦', Color: core.ColorBrightCyan}:   true,
}

// styleKey identifies one lipgloss style: a colour, or a bold board piece.
type styleKey struct {
	color core.Color
	bold  bool
}

func keyOf(c core.Cell) styleKey {
	return styleKey{color: c.Color, bold: pieces[c]}
}

func (k styleKey) style() lipgloss.Style {
	st := lipgloss.NewStyle()
	if fg, ok := ansi[k.color]; ok {
		st = st.Foreground(fg)
	}
	return st.Bold(k.bold)
}

// styledRun is a stretch of one row sharing a style.
type styledRun struct {
	key  styleKey
	text string
}

// rowRuns splits row y into runs of equally styled cells.
func rowRuns(s *core.Screen, y int) []styledRun {
	var (
		runs []styledRun
		text strings.Builder
		cur  styleKey
	)
	for x := range s.Width() {
		cell := s.GetCell(x, y)
		k := keyOf(cell)
		if x > 0 && k != cur {
			runs = append(runs, styledRun{cur, text.String()})
			text.Reset()
		}
		cur = k
		text.WriteRune(cell.Rune)
	}
	if s.Width() > 0 {
		runs = append(runs, styledRun{cur, text.String()})
	}
	return runs
}

// paint turns a screen into the styled string bubbletea displays.
func paint(s *core.Screen) string {
	styles := make(map[styleKey]lipgloss.Style)
	rows := make([]string, s.Height())

	for y := range rows {
		var sb strings.Builder
		for _, r := range rowRuns(s, y) {
			if r.key == (styleKey{}) {
				sb.WriteString(r.text)
				continue
			}
			st, ok := styles[r.key]
			if !ok {
				st = r.key.style()
				styles[r.key] = st
			}
			sb.WriteString(st.Render(r.text))
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}
