package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
	"github.com/vovakirdan/maze-escape/internal/storage"
)

// Deps are the services one terminal player needs.
type Deps struct {
	Catalog *levels.Catalog
	Stats   *stats.Store   // Player statistics, also the session recorder
	Runs    *storage.Store // Run history for menu and scoreboard; may be nil
	Config  core.RuntimeConfig
	Logger  *log.Logger
}

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// AppModel manages the full flow for one player: menu -> game -> menu, with
// the scoreboard reachable from the menu. One session lives for the whole
// visit, so picking a level from the menu switches the session's level.
type AppModel struct {
	deps     Deps
	sess     *session.Session
	current  screen
	menu     MenuModel
	game     Model
	scores   ScoreboardModel
	quitting bool
}

// NewAppModel creates the top-level model. startLevel > 0 skips the menu.
func NewAppModel(deps Deps, startLevel int) AppModel {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	var recorder session.Recorder
	if deps.Stats != nil {
		recorder = deps.Stats
	}
	sess := session.New(deps.Catalog, recorder,
		session.WithSeed(deps.Config.ResolveSeed()),
		session.WithLogger(deps.Logger),
	)

	m := AppModel{deps: deps, sess: sess}
	if startLevel > 0 {
		sess.SelectLevel(startLevel)
		m.enterGame()
	} else {
		m.enterMenu()
	}
	return m
}

func (m *AppModel) playerStats() stats.Stats {
	if m.deps.Stats == nil {
		return stats.Default()
	}
	return m.deps.Stats.Snapshot()
}

func (m *AppModel) enterMenu() {
	cfg := m.deps.Config
	m.menu = NewMenuModel(m.deps.Catalog, m.playerStats(), m.deps.Runs, m.sess.Snapshot().Level, cfg.ScreenW, cfg.ScreenH)
	m.current = screenMenu
}

func (m *AppModel) enterGame() tea.Cmd {
	m.game = NewModel(m.sess, m.deps.Stats, m.deps.Config).WithLogger(m.deps.Logger)
	m.current = screenGame
	return m.game.Init()
}

func (m *AppModel) enterScores() {
	cfg := m.deps.Config
	m.scores = NewScoreboardModel(m.deps.Catalog, m.deps.Runs, cfg.ScreenW, cfg.ScreenH)
	m.current = screenScores
}

// Init initializes the current screen.
func (m AppModel) Init() tea.Cmd {
	if m.current == screenGame {
		return m.game.Init()
	}
	return nil
}

// Update routes messages to the active screen and handles transitions.
// Sub-models signal completion with tea.Quit; that command is swallowed here
// unless the player asked to quit.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.deps.Config.ScreenW = wsm.Width
		m.deps.Config.ScreenH = wsm.Height
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsScoreboard():
		m.enterScores()
		return m, nil
	case m.menu.Selected() > 0:
		if m.menu.Selected() != m.sess.Snapshot().Level || m.sess.Snapshot().Status.Resolved() {
			m.sess.SelectLevel(m.menu.Selected())
		}
		return m, m.enterGame()
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = gm
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		m.enterMenu()
		return m, nil
	}
	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scores = sm
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.enterMenu()
		return m, nil
	}
	return m, cmd
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.current {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Session returns the player's session.
func (m AppModel) Session() *session.Session {
	return m.sess
}

// Run starts the local terminal program.
func Run(deps Deps, startLevel int) error {
	p := tea.NewProgram(
		NewAppModel(deps, startLevel),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
