package mcp

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	manager := session.NewManager(time.Second, 2*time.Second)
	t.Cleanup(manager.Close)
	st := stats.Open(stats.NewMemoryKV(), stats.WithLogger(logger))
	return NewServer(levels.NewLive(levels.MustBuiltin()), st, manager, logger)
}

func call(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func createSession(t *testing.T, s *Server, level int) string {
	t.Helper()
	result, err := s.handleCreateSession(context.Background(), call("create_session", map[string]interface{}{"level": float64(level)}))
	require.NoError(t, err)
	require.False(t, result.IsError, text(t, result))

	ids := s.manager.List()
	require.NotEmpty(t, ids)
	id := ids[len(ids)-1].ID
	assert.Contains(t, text(t, result), id)
	return id
}

func TestListLevels(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleListLevels(context.Background(), call("list_levels", nil))
	require.NoError(t, err)

	out := text(t, result)
	assert.Contains(t, out, "Levels (5)")
	assert.Contains(t, out, "roaming snakes")
}

func TestCreateSessionUnknownLevel(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleCreateSession(context.Background(), call("create_session", map[string]interface{}{"level": float64(12)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMoveRequiresStart(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s, 1)

	result, err := s.handleMove(context.Background(), call("move", map[string]interface{}{"session_id": id, "direction": "right"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, result), "Move ignored")

	result, err = s.handleCommand(context.Background(), call("command", map[string]interface{}{"session_id": id, "command": "start"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, result), "Status: active")
}

func TestMoveUnknownDirectionIsIgnored(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s, 1)

	_, err := s.handleCommand(context.Background(), call("command", map[string]interface{}{"session_id": id, "command": "start"}))
	require.NoError(t, err)

	result, err := s.handleMove(context.Background(), call("move", map[string]interface{}{"session_id": id, "direction": "diagonal"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, text(t, result), "unknown direction")
	assert.Contains(t, text(t, result), "Status: active")
}

func TestCommandUnknownSessionAndCommand(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSessionState(context.Background(), call("session_state", map[string]interface{}{"session_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	id := createSession(t, s, 1)
	result, err = s.handleCommand(context.Background(), call("command", map[string]interface{}{"session_id": id, "command": "teleport"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSelectLevelCommand(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s, 1)

	result, err := s.handleCommand(context.Background(), call("command", map[string]interface{}{"session_id": id, "command": "select_level", "level": float64(3)}))
	require.NoError(t, err)
	assert.Contains(t, text(t, result), "Level 3:")
}

func TestSessionStateShowsBoard(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s, 1)

	result, err := s.handleSessionState(context.Background(), call("session_state", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)

	out := text(t, result)
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "█")
	assert.True(t, strings.HasPrefix(out, "Level 1:"))
}

func TestStatsTool(t *testing.T) {
	s := newTestServer(t)
	s.stats.RecordWin(stats.Win{Level: 2, TimeSecs: 30, Score: 1500, Coins: 1})

	result, err := s.handleStats(context.Background(), call("stats", nil))
	require.NoError(t, err)

	out := text(t, result)
	assert.Contains(t, out, "Best time: 00:30")
	assert.Contains(t, out, "Level 2 wins: 1")
	assert.Contains(t, out, "win rate 100%")
}
