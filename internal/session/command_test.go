package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCommands(t *testing.T) {
	sess := New(tinyCatalog(t, 2), nil, WithSeed(1))

	snap, err := sess.Apply(Command{Command: CmdStart})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, snap.Status)

	snap, err = sess.Apply(Command{Command: CmdTogglePause})
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, snap.Status)

	snap, err = sess.Apply(Command{Command: CmdResume})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, snap.Status)

	snap, err = sess.Apply(Command{Command: CmdStop})
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, snap.Status)
}

func TestApplyMoveDirection(t *testing.T) {
	sess := New(tinyCatalog(t, 2), nil, WithSeed(1))
	sess.Start()
	before := sess.Snapshot()

	snap, err := sess.Apply(Command{Command: CmdMove, Direction: "sideways"})
	require.NoError(t, err)
	assert.Equal(t, before.Player, snap.Player)
	assert.Equal(t, before.Epoch, snap.Epoch)
	assert.Equal(t, StatusActive, snap.Status)

	_, err = sess.Apply(Command{Command: CmdMove, Direction: "up"})
	require.NoError(t, err)
}

func TestApplyUnknownCommand(t *testing.T) {
	sess := New(tinyCatalog(t, 2), nil)
	_, err := sess.Apply(Command{Command: "jump"})
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestApplySelectLevel(t *testing.T) {
	cat := tinyCatalog(t, 2)
	sess := New(cat, nil)

	snap, err := sess.Apply(Command{Command: CmdSelectLevel, Level: cat.Count()})
	require.NoError(t, err)
	assert.Equal(t, cat.Count(), snap.Level)
	assert.Equal(t, StatusIdle, snap.Status)

	// Out of range is a no-op.
	snap, err = sess.Apply(Command{Command: CmdSelectLevel, Level: 99})
	require.NoError(t, err)
	assert.Equal(t, cat.Count(), snap.Level)
}
