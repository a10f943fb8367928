package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/render"
	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/stats"
	"github.com/vovakirdan/maze-escape/internal/storage"
)

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	catalog        *levels.Catalog
	cursor         int
	width          int
	height         int
	stats          stats.Stats
	best           map[int]int
	keyMapper      *KeyMapper
	quitting       bool
	selected       int  // Level number chosen, 0 while choosing
	openScoreboard bool // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a level picker with the cursor on level current.
// runs may be nil; best scores are then omitted.
func NewMenuModel(catalog *levels.Catalog, st stats.Stats, runs *storage.Store, current, width, height int) MenuModel {
	best := make(map[int]int)
	if runs != nil {
		if sums, err := runs.LevelSummaries(); err == nil {
			for _, s := range sums {
				best[s.Level] = s.BestScore
			}
		}
	}
	return MenuModel{
		catalog:   catalog,
		cursor:    core.Clamp(current-1, 0, max(catalog.Count()-1, 0)),
		width:     width,
		height:    height,
		stats:     st,
		best:      best,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < m.catalog.Count()-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if m.catalog.Count() > 0 {
			m.selected = m.cursor + 1
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuCurStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	previewStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("E S C A P E   T H E   M A Z E", m.width)))
	b.WriteString("\n\n")

	st := m.stats
	summary := fmt.Sprintf("Played %d  Won %d  Streak %d  Score %d", st.TotalGames, st.Wins, st.CurrentStreak, st.TotalScore)
	b.WriteString(menuDimStyle.Render(centerText(summary, m.width)))
	b.WriteString("\n\n")

	var list strings.Builder
	for i, lvl := range m.catalog.All() {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = menuCurStyle
		}
		line := fmt.Sprintf("%s%d. %-22s", cursor, lvl.Number, lvl.Name)
		if lvl.TimeLimit > 0 {
			line += " " + scoring.FormatTime(lvl.TimeLimit)
		} else {
			line += " --:--"
		}
		if wins := st.LevelWins(lvl.Number); wins > 0 {
			line += fmt.Sprintf("  won %d", wins)
		}
		if best := m.best[lvl.Number]; best > 0 {
			line += fmt.Sprintf("  best %d", best)
		}
		list.WriteString(style.Render(line))
		list.WriteString("\n")
	}

	body := list.String()
	if lvl := m.catalog.Get(m.cursor + 1); lvl != nil {
		pw, ph := render.GridSize(lvl.Grid)
		if m.width >= lipgloss.Width(body)+pw+6 && m.height >= ph+10 {
			preview := paint(render.Preview(lvl.Grid))
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", previewStyle.Render(preview))
		}
		body += "\n" + menuDimStyle.Render(lvl.Description) + "\n"
	}
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(menuDimStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen level number, or 0 if none was chosen.
func (m MenuModel) Selected() int {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
