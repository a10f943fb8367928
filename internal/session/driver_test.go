package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/maze-escape/internal/levels"
)

func TestDriverTicksActiveSession(t *testing.T) {
	sess, clock, rec := newSession(t, levels.MustBuiltin(), WithLevel(5))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewDriver(sess, 5*time.Millisecond, 5*time.Millisecond).Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	spawn := sess.Start().Snakes
	require.NotEmpty(t, spawn)

	clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool {
		return sess.Snapshot().Elapsed == 3
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		snaps := sess.Snapshot().Snakes
		for i := range snaps {
			if snaps[i] != spawn[i] {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond, "snakes should roam")

	clock.Advance(80 * time.Second)
	require.Eventually(t, func() bool {
		return sess.Snapshot().Status == StatusLost
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, ReasonTimeout, sess.Snapshot().LossReason)
	assert.Equal(t, 75, sess.Snapshot().Elapsed)

	rec.mu.Lock()
	assert.Equal(t, 1, rec.losses)
	rec.mu.Unlock()
}

func TestDriverIdleWhilePaused(t *testing.T) {
	sess, clock, _ := newSession(t, levels.MustBuiltin(), WithLevel(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewDriver(sess, 5*time.Millisecond, 5*time.Millisecond).Run(ctx)

	sess.Start()
	sess.Pause()
	clock.Advance(time.Hour)
	time.Sleep(50 * time.Millisecond)

	snap := sess.Snapshot()
	assert.Equal(t, StatusPaused, snap.Status)
	assert.Zero(t, snap.Elapsed)

	sess.Resume()
	clock.Advance(7 * time.Second)
	require.Eventually(t, func() bool {
		return sess.Snapshot().Elapsed == 7
	}, 2*time.Second, 5*time.Millisecond)
}

func TestManager(t *testing.T) {
	m := NewManager(time.Second, 2*time.Second)
	defer m.Close()

	cat := levels.MustBuiltin()
	a := m.Add(New(cat, nil, WithLogger(quietLogger())))
	b := m.Add(New(cat, nil, WithLevel(3), WithLogger(quietLogger())))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Count())

	got, err := m.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Snapshot().Level)

	list := m.List()
	require.Len(t, list, 2)

	require.NoError(t, m.Delete(a.ID))
	_, err = m.Get(a.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(a.ID), ErrSessionNotFound)

	m.Close()
	assert.Zero(t, m.Count())
}

func TestDriverDropsTicksFromRetiredEpoch(t *testing.T) {
	sess, _, _ := newSession(t, levels.MustBuiltin(), WithLevel(5))
	d := NewDriver(sess, time.Hour, time.Hour)

	old := sess.Start().Epoch
	assert.True(t, d.current(old))

	fresh := sess.Reset().Epoch
	require.NotEqual(t, old, fresh)
	assert.False(t, d.current(old), "tick scheduled before the reset")

	select {
	case <-d.wake:
	default:
		t.Fatal("stale tick should request a reconcile")
	}
	assert.True(t, d.current(fresh))
}
