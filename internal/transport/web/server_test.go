package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *stats.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	st := stats.Open(stats.NewMemoryKV(), stats.WithLogger(logger))
	srv := NewServer(Config{Seed: 7}, levels.NewLive(levels.MustBuiltin()), st, logger)
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler, level int) SessionInfo {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/sessions", `{"level":`+itoa(level)+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var info SessionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	return info
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestListLevels(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv.Handler(), http.MethodGet, "/api/levels", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count  int         `json:"count"`
		Levels []LevelInfo `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Count)
	assert.Empty(t, resp.Levels[0].Grid, "list omits grids")
	assert.True(t, resp.Levels[4].RoamingSnakes)
}

func TestGetLevel(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv.Handler(), http.MethodGet, "/api/levels/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info LevelInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 2, info.Number)
	assert.Len(t, info.Grid, info.Height)

	assert.Equal(t, http.StatusNotFound, do(t, srv.Handler(), http.MethodGet, "/api/levels/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv.Handler(), http.MethodGet, "/api/levels/two", "").Code)
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	info := createSession(t, h, 1)
	assert.Equal(t, session.StatusIdle, info.State.Status)
	assert.Equal(t, 1, info.State.Level)

	w := do(t, h, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), info.ID)

	w = do(t, h, http.MethodPost, "/api/sessions/"+info.ID+"/commands", `{"command":"start"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, session.StatusActive, snap.Status)

	w = do(t, h, http.MethodDelete, "/api/sessions/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sessions/"+info.ID, "").Code)
}

func TestCreateSessionRejectsUnknownLevel(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv.Handler(), http.MethodPost, "/api/sessions", `{"level":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommandErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	info := createSession(t, h, 1)

	w := do(t, h, http.MethodPost, "/api/sessions/"+info.ID+"/commands", `{"command":"fly"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "toggle_pause")

	w = do(t, h, http.MethodPost, "/api/sessions/"+info.ID+"/commands", `{"command":"move","direction":"north"}`)
	assert.Equal(t, http.StatusOK, w.Code, "unknown direction is ignored")

	w = do(t, h, http.MethodPost, "/api/sessions/nope/commands", `{"command":"start"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidMoveIsNoop(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	info := createSession(t, h, 1)

	// Moves before start are ignored, not rejected.
	w := do(t, h, http.MethodPost, "/api/sessions/"+info.ID+"/commands", `{"command":"move","direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, info.State.Player, snap.Player)
	assert.Equal(t, session.StatusIdle, snap.Status)
}

func TestBoardPNG(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	info := createSession(t, h, 1)

	w := do(t, h, http.MethodGet, "/api/sessions/"+info.ID+"/board.png?cell=8", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)

	lvl := levels.MustBuiltin().Get(1)
	assert.Equal(t, lvl.Grid.Width()*8, img.Bounds().Dx())
	assert.Equal(t, lvl.Grid.Height()*8, img.Bounds().Dy())

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/sessions/"+info.ID+"/board.png?cell=0", "").Code)
}

func TestStats(t *testing.T) {
	srv, st := newTestServer(t)
	st.RecordLoss()

	w := do(t, srv.Handler(), http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got stats.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Losses)
	assert.Equal(t, 1, got.TotalGames)
}

func TestWebSocketStream(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	info := createSession(t, srv.Handler(), 1)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/" + info.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	first := read()
	assert.Equal(t, EventStateUpdate, first.Event)
	assert.Equal(t, info.ID, first.SessionID)
	require.NotNil(t, first.State)
	assert.Equal(t, session.StatusIdle, first.State.Status)

	// Inbound commands use the REST command shape.
	require.NoError(t, conn.WriteJSON(session.Command{Command: session.CmdStart}))
	for {
		msg := read()
		if msg.State != nil && msg.State.Status == session.StatusActive {
			break
		}
	}

	require.NoError(t, conn.WriteJSON(session.Command{Command: "fly"}))
	for {
		msg := read()
		if msg.Event == EventError {
			assert.Contains(t, msg.Error, "unknown command")
			break
		}
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
