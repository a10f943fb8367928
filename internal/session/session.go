// Package session implements the game session state machine: starting,
// pausing, moving, timing out, winning and advancing through levels. Every
// command is serialized by a mutex and returns a Snapshot for views.
package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/maze"
	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

// Recorder receives resolved runs. *stats.Store implements it.
type Recorder interface {
	RecordWin(w stats.Win) stats.Stats
	RecordLoss() stats.Stats
}

type nopRecorder struct{}

func (nopRecorder) RecordWin(stats.Win) stats.Stats { return stats.Stats{} }
func (nopRecorder) RecordLoss() stats.Stats         { return stats.Stats{} }

// Session is one player's run through the level catalog.
type Session struct {
	mu sync.Mutex

	catalog  *levels.Catalog
	recorder Recorder
	clock    func() time.Time
	rng      *rand.Rand
	logger   *log.Logger

	level       *levels.Level
	status      Status
	player      core.Position
	collected   []core.Position
	score       int
	elapsed     int
	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	snakes      []core.Position
	lossReason  string
	epoch       uint64

	observers  map[int]func(Snapshot)
	observerID int
}

// Option configures a Session.
type Option func(*Session)

// WithLevel selects the starting level (1-based). Out-of-range values are ignored.
func WithLevel(n int) Option {
	return func(s *Session) {
		if lvl := s.catalog.Get(n); lvl != nil {
			s.level = lvl
		}
	}
}

// WithRand sets the random source used by roaming snakes.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithSeed seeds the snake random source.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock replaces time.Now, for tests and replays.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates an idle session on level 1 (or the WithLevel choice).
// recorder may be nil when results should not be persisted.
func New(catalog *levels.Catalog, recorder Recorder, opts ...Option) *Session {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	s := &Session{
		catalog:   catalog,
		recorder:  recorder,
		clock:     time.Now,
		logger:    log.Default(),
		level:     catalog.Get(1),
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.loadLevel(s.level)
	return s
}

// Observe registers fn to receive the snapshot after every state change.
// Observers run outside the session lock. The returned func unregisters fn.
func (s *Session) Observe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observerID++
	id := s.observerID
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Catalog returns the level catalog the session plays through.
func (s *Session) Catalog() *levels.Catalog {
	return s.catalog
}

// Start begins a fresh run of the current level from any state.
func (s *Session) Start() Snapshot {
	return s.apply(func() bool {
		s.start()
		return true
	})
}

// Pause freezes the run. Only valid while active.
func (s *Session) Pause() Snapshot {
	return s.apply(s.pause)
}

// Resume continues a paused run; the time spent paused is not counted.
func (s *Session) Resume() Snapshot {
	return s.apply(s.resume)
}

// TogglePause pauses an active run or resumes a paused one.
func (s *Session) TogglePause() Snapshot {
	return s.apply(func() bool {
		if s.status == StatusPaused {
			return s.resume()
		}
		return s.pause()
	})
}

// Stop ends the run without resolving it. Position and score are kept.
func (s *Session) Stop() Snapshot {
	return s.apply(s.stop)
}

// Reset restarts the current level. The session is active afterwards.
func (s *Session) Reset() Snapshot {
	return s.apply(func() bool {
		s.stop()
		s.start()
		return true
	})
}

// Move steps the player one cell. Ignored unless the run is active.
func (s *Session) Move(d core.Direction) Snapshot {
	return s.apply(func() bool { return s.move(d) })
}

// AdvanceLevel starts the next level after a win, wrapping from the last
// level back to the first. Ignored unless the run was won.
func (s *Session) AdvanceLevel() Snapshot {
	return s.apply(func() bool {
		if s.status != StatusWon {
			return false
		}
		s.loadLevel(s.catalog.Get(s.catalog.Next(s.level.Number)))
		s.start()
		return true
	})
}

// SelectLevel switches to level n and leaves the session idle at its start.
// Out-of-range numbers are ignored.
func (s *Session) SelectLevel(n int) Snapshot {
	return s.apply(func() bool {
		lvl := s.catalog.Get(n)
		if lvl == nil {
			return false
		}
		s.loadLevel(lvl)
		s.epoch++
		return true
	})
}

// Tick refreshes the elapsed time and enforces the time limit.
// Views call it once per second while the run is active.
func (s *Session) Tick() Snapshot {
	return s.apply(s.tick)
}

// SnakeTick moves roaming snakes one step. Views call it every two seconds.
func (s *Session) SnakeTick() Snapshot {
	return s.apply(func() bool {
		if s.status != StatusActive || !s.level.RoamingSnakes || len(s.snakes) == 0 {
			return false
		}
		s.snakes = StepSnakes(s.level.Grid, s.snakes, s.rng)
		return true
	})
}

// apply runs fn under the lock and notifies observers when it changed state.
func (s *Session) apply(fn func() bool) Snapshot {
	s.mu.Lock()
	changed := fn()
	snap := s.snapshotLocked()
	var notify []func(Snapshot)
	if changed {
		notify = make([]func(Snapshot), 0, len(s.observers))
		for _, o := range s.observers {
			notify = append(notify, o)
		}
	}
	s.mu.Unlock()

	for _, o := range notify {
		o(snap)
	}
	return snap
}

func (s *Session) loadLevel(lvl *levels.Level) {
	s.level = lvl
	s.status = StatusIdle
	s.player = lvl.Start()
	s.clearRun()
	s.snakes = lvl.Snakes()
}

func (s *Session) clearRun() {
	s.collected = nil
	s.score = 0
	s.elapsed = 0
	s.startedAt = time.Time{}
	s.pausedAt = time.Time{}
	s.pausedTotal = 0
	s.lossReason = ""
}

func (s *Session) start() {
	s.player = s.level.Start()
	s.clearRun()
	s.snakes = s.level.Snakes()
	s.status = StatusActive
	s.startedAt = s.clock()
	s.epoch++
	s.logger.Debug("run started", "level", s.level.Number)
}

func (s *Session) pause() bool {
	if s.status != StatusActive {
		return false
	}
	s.pausedAt = s.clock()
	s.elapsed = s.elapsedNow()
	s.status = StatusPaused
	s.epoch++
	return true
}

func (s *Session) resume() bool {
	if s.status != StatusPaused {
		return false
	}
	s.pausedTotal += s.clock().Sub(s.pausedAt)
	s.pausedAt = time.Time{}
	s.status = StatusActive
	s.epoch++
	return true
}

func (s *Session) stop() bool {
	if s.status != StatusActive && s.status != StatusPaused {
		return false
	}
	s.status = StatusIdle
	s.epoch++
	return true
}

func (s *Session) move(d core.Direction) bool {
	if s.status != StatusActive || !d.Valid() {
		return false
	}
	target := s.player.Add(d)
	g := s.level.Grid
	if !maze.IsValidMove(g, target) {
		return false
	}
	s.player = target

	switch obstacle := maze.ObstacleAt(g, target); {
	case obstacle == maze.ObstacleSaw:
		s.lose(ReasonSaw)
		return true
	case s.roamingSnakeAt(target):
		s.lose(ReasonRoamingSnake)
		return true
	case obstacle == maze.ObstacleSnake:
		s.lose(ReasonStaticSnake)
		return true
	}

	if r := maze.RewardAt(g, target); !r.None() && !s.isCollected(target) {
		s.collected = append(s.collected, target)
		s.score += r.Value
	}

	if maze.IsGoalReached(g, target) {
		s.win()
	}
	return true
}

func (s *Session) tick() bool {
	if s.status != StatusActive {
		return false
	}
	e := s.elapsedNow()
	if limit := s.level.TimeLimit; limit > 0 && e >= limit {
		s.elapsed = limit
		s.resolveLoss(ReasonTimeout)
		return true
	}
	if e == s.elapsed {
		return false
	}
	s.elapsed = e
	return true
}

func (s *Session) lose(reason string) {
	s.elapsed = s.elapsedNow()
	s.resolveLoss(reason)
}

func (s *Session) resolveLoss(reason string) {
	s.status = StatusLost
	s.lossReason = reason
	s.epoch++
	s.logger.Debug("run lost", "level", s.level.Number, "reason", reason)
	s.recorder.RecordLoss()
}

func (s *Session) win() {
	finalTime := s.elapsedNow()
	coins, gems := s.countRewards()
	lvl := s.level

	s.elapsed = finalTime
	s.score = scoring.Calculate(finalTime, lvl.Number, coins, gems, lvl.CoinValue, lvl.GemValue)
	s.status = StatusWon
	s.epoch++
	s.logger.Debug("run won", "level", lvl.Number, "time", finalTime, "score", s.score)

	s.recorder.RecordWin(stats.Win{
		Level:    lvl.Number,
		TimeSecs: finalTime,
		Score:    s.score,
		Coins:    coins,
		Gems:     gems,
	})
}

// countRewards classifies collected positions against the grid.
func (s *Session) countRewards() (coins, gems int) {
	for _, p := range s.collected {
		switch maze.RewardAt(s.level.Grid, p).Kind {
		case maze.RewardCoin:
			coins++
		case maze.RewardGem:
			gems++
		}
	}
	return coins, gems
}

// elapsedNow returns whole seconds of unpaused play since start.
func (s *Session) elapsedNow() int {
	if s.startedAt.IsZero() {
		return 0
	}
	end := s.clock()
	if s.status == StatusPaused {
		end = s.pausedAt
	}
	d := end.Sub(s.startedAt) - s.pausedTotal
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

func (s *Session) isCollected(p core.Position) bool {
	for _, c := range s.collected {
		if c == p {
			return true
		}
	}
	return false
}

// roamingSnakeAt reads the snake positions as they are at this instant.
func (s *Session) roamingSnakeAt(p core.Position) bool {
	for _, sn := range s.snakes {
		if sn == p {
			return true
		}
	}
	return false
}

func (s *Session) snapshotLocked() Snapshot {
	coins, gems := s.countRewards()
	return Snapshot{
		Level:      s.level.Number,
		LevelName:  s.level.Name,
		Player:     s.player,
		Status:     s.status,
		Elapsed:    s.elapsed,
		TimeLimit:  s.level.TimeLimit,
		Score:      s.score,
		Coins:      coins,
		Gems:       gems,
		Collected:  append([]core.Position(nil), s.collected...),
		Snakes:     append([]core.Position(nil), s.snakes...),
		LossReason: s.lossReason,
		Epoch:      s.epoch,
		Def:        s.level,
	}
}
