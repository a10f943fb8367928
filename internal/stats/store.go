package stats

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/storage"
)

// RunLog receives every winning run. SQLiteKV implements it.
type RunLog interface {
	SaveRun(r storage.Run) (int64, error)
}

const opTimeout = 3 * time.Second

// Store owns the statistics record for one player. Open loads it, every
// RecordWin/RecordLoss persists it immediately, and Close flushes it and
// releases the backend. Backend failures are logged and never surface: the
// in-memory record stays authoritative.
type Store struct {
	mu      sync.Mutex
	kv      KV
	ownsKV  bool
	key     string
	player  string
	runs    RunLog
	logger  *log.Logger
	current Stats
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the record key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for swallowed backend errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRunLog appends wins to the given log. When unset and the backend
// implements RunLog, the backend is used.
func WithRunLog(r RunLog) Option {
	return func(s *Store) { s.runs = r }
}

// Open creates a store over kv and loads the record (defaults when absent
// or corrupt). The store owns kv and closes it on Close.
func Open(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		ownsKV: true,
		key:    DefaultKey,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runs == nil {
		if rl, ok := kv.(RunLog); ok {
			s.runs = rl
		}
	}
	s.Load()
	return s
}

// ForPlayer returns a store sharing this store's backend and run log with a
// per-player key. Closing it flushes the player's record but leaves the
// backend open.
func (s *Store) ForPlayer(player string) *Store {
	p := &Store{
		kv:     s.kv,
		key:    s.key + ":" + player,
		player: player,
		runs:   s.runs,
		logger: s.logger,
	}
	p.Load()
	return p
}

// Key returns the record key.
func (s *Store) Key() string {
	return s.key
}

// Load re-reads the record from the backend, merging stored fields over the
// defaults. A missing or corrupt record yields the defaults.
func (s *Store) Load() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.read()
	return s.current
}

// Snapshot returns the in-memory record without touching the backend.
func (s *Store) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// RecordWin applies a win, persists the record and appends the run log.
func (s *Store) RecordWin(w Win) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.current.WithWin(w)
	s.write()

	if s.runs != nil {
		run := storage.Run{
			Player:   s.player,
			Level:    w.Level,
			Score:    w.Score,
			TimeSecs: w.TimeSecs,
			Coins:    w.Coins,
			Gems:     w.Gems,
		}
		if _, err := s.runs.SaveRun(run); err != nil {
			s.logger.Warn("cannot save run", "level", w.Level, "err", err)
		}
	}
	return s.current
}

// RecordLoss applies a loss and persists the record.
func (s *Store) RecordLoss() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.current.WithLoss()
	s.write()
	return s.current
}

// Reset replaces the record with the defaults.
func (s *Store) Reset() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Default()
	s.write()
	return s.current
}

// Close flushes the record and closes the backend if this store owns it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.write()
	if s.ownsKV {
		return s.kv.Close()
	}
	return nil
}

func (s *Store) read() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return Default()
	}
	if err != nil {
		s.logger.Warn("cannot load stats, using defaults", "key", s.key, "err", err)
		return Default()
	}
	return decode(data, s.logger)
}

func (s *Store) write() {
	data, err := json.Marshal(s.current)
	if err != nil {
		s.logger.Warn("cannot encode stats", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		s.logger.Warn("cannot save stats", "key", s.key, "err", err)
	}
}

// decode merges a stored record over the defaults.
func decode(data []byte, logger *log.Logger) Stats {
	st := Default()
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("corrupt stats record, using defaults", "err", err)
		return Default()
	}
	return st
}
