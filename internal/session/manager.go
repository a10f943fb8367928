package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// Managed is a session registered with a Manager.
type Managed struct {
	ID        string
	CreatedAt time.Time
	*Session

	cancel context.CancelFunc
	done   chan struct{}
}

// Manager keeps the sessions of a multi-client server, each with its own
// Driver goroutine.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Managed
	timerEvery time.Duration
	snakeEvery time.Duration
}

// NewManager creates an empty manager. Intervals are passed to each Driver.
func NewManager(timerEvery, snakeEvery time.Duration) *Manager {
	return &Manager{
		sessions:   make(map[string]*Managed),
		timerEvery: timerEvery,
		snakeEvery: snakeEvery,
	}
}

// Add registers sess under a new UUID and starts its driver.
func (m *Manager) Add(sess *Session) *Managed {
	ctx, cancel := context.WithCancel(context.Background())
	ms := &Managed{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Session:   sess,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[ms.ID] = ms
	m.mu.Unlock()

	go func() {
		defer close(ms.done)
		NewDriver(sess, m.timerEvery, m.snakeEvery).Run(ctx)
	}()
	return ms
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Managed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ms, nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Managed {
	m.mu.RLock()
	out := make([]*Managed, 0, len(m.sessions))
	for _, ms := range m.sessions {
		out = append(out, ms)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete stops the session's driver and forgets it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	ms.cancel()
	<-ms.done
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops every driver and clears the manager.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Managed)
	m.mu.Unlock()

	for _, ms := range all {
		ms.cancel()
		<-ms.done
	}
}
