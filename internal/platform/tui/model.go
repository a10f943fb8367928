package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/render"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

// Model is the Bubble Tea model for the game screen. It owns no game rules:
// keys become session commands and the session snapshot is drawn each frame.
type Model struct {
	sess       *session.Session
	stats      *stats.Store
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	logger     *log.Logger
	shotDir    string
	lastShot   string
	quitting   bool
	backToMenu bool
}

// NewModel creates a game screen model for the session. st may be nil.
func NewModel(sess *session.Session, st *stats.Store, cfg core.RuntimeConfig) Model {
	if cfg.TimerEvery <= 0 {
		cfg.TimerEvery = time.Second
	}
	if cfg.SnakeEvery <= 0 {
		cfg.SnakeEvery = 2 * time.Second
	}
	return Model{
		sess:      sess,
		stats:     st,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		logger:    log.Default(),
		shotDir:   defaultScreenshotDir(),
	}
}

// WithLogger returns a copy of the model that logs to l.
func (m Model) WithLogger(l *log.Logger) Model {
	m.logger = l
	return m
}

// Init starts the tick loops if the session is already running.
func (m Model) Init() tea.Cmd {
	return m.schedule(m.sess.Snapshot())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case timerTickMsg:
		snap := m.sess.Snapshot()
		if msg.epoch != snap.Epoch || !snap.Ticking() {
			return m, nil
		}
		snap = m.sess.Tick()
		if snap.Epoch != msg.epoch {
			// The tick resolved the run.
			return m, nil
		}
		return m, timerTickCmd(m.config.TimerEvery, snap.Epoch)

	case snakeTickMsg:
		snap := m.sess.Snapshot()
		if msg.epoch != snap.Epoch || !snap.Ticking() {
			return m, nil
		}
		snap = m.sess.SnakeTick()
		return m, snakeTickCmd(m.config.SnakeEvery, snap.Epoch)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	before := m.sess.Snapshot()
	var after session.Snapshot

	if dir, ok := action.Direction(); ok {
		after = m.sess.Move(dir)
	} else {
		switch action {
		case core.ActionPause:
			after = m.sess.TogglePause()
		case core.ActionConfirm:
			switch before.Status {
			case session.StatusIdle, session.StatusLost:
				after = m.sess.Start()
			case session.StatusWon:
				after = m.sess.AdvanceLevel()
			default:
				return m, nil
			}
		case core.ActionRestart:
			after = m.sess.Reset()
		case core.ActionStop:
			after = m.sess.Stop()
		case core.ActionBack:
			if before.Status == session.StatusActive {
				m.sess.Pause()
			}
			m.backToMenu = true
			return m, nil
		default:
			return m, nil
		}
	}

	if after.Epoch == before.Epoch {
		return m, nil
	}
	return m, m.schedule(after)
}

// schedule arms fresh tick loops for a newly started or resumed run segment.
func (m Model) schedule(snap session.Snapshot) tea.Cmd {
	if !snap.Ticking() {
		return nil
	}
	cmds := []tea.Cmd{timerTickCmd(m.config.TimerEvery, snap.Epoch)}
	if snap.Def != nil && snap.Def.RoamingSnakes {
		cmds = append(cmds, snakeTickCmd(m.config.SnakeEvery, snap.Epoch))
	}
	return tea.Batch(cmds...)
}

func (m Model) currentStats() stats.Stats {
	if m.stats == nil {
		return stats.Default()
	}
	return m.stats.Snapshot()
}

func defaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "maze-screenshots")
	}
	return filepath.Join(home, ".maze", "screenshots")
}

// saveScreenshot writes the current board as text and as PNG.
func (m *Model) saveScreenshot() {
	snap := m.sess.Snapshot()
	render.Board(m.screen, snap, m.currentStats())

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "dir", m.shotDir, "error", err)
		return
	}

	base := filepath.Join(m.shotDir, fmt.Sprintf("level%d_%s", snap.Level, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(base+".txt", []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}

	f, err := os.Create(base + ".png")
	if err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	defer f.Close()
	if err := render.WritePNG(f, snap, render.DefaultCellPx, 0); err != nil {
		m.logger.Warn("cannot encode screenshot", "error", err)
		return
	}
	m.lastShot = base
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	render.Board(m.screen, m.sess.Snapshot(), m.currentStats())
	return paint(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the level menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Session returns the session driven by this model.
func (m Model) Session() *session.Session {
	return m.sess
}
