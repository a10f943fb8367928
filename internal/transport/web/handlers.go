package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/render"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

// LevelInfo describes a level in API responses.
type LevelInfo struct {
	Number        int      `json:"number"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	TimeLimit     int      `json:"time_limit"`
	CoinValue     int      `json:"coin_value"`
	GemValue      int      `json:"gem_value"`
	RoamingSnakes bool     `json:"roaming_snakes"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Grid          []string `json:"grid,omitempty"`
}

func levelInfo(l *levels.Level, withGrid bool) LevelInfo {
	info := LevelInfo{
		Number:        l.Number,
		Name:          l.Name,
		Description:   l.Description,
		TimeLimit:     l.TimeLimit,
		CoinValue:     l.CoinValue,
		GemValue:      l.GemValue,
		RoamingSnakes: l.RoamingSnakes,
		Width:         l.Grid.Width(),
		Height:        l.Grid.Height(),
	}
	if withGrid {
		info.Grid = l.Grid.Rows()
	}
	return info
}

// SessionInfo describes a managed session in API responses.
type SessionInfo struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"created_at"`
	State     session.Snapshot `json:"state"`
}

func sessionInfo(ms *session.Managed) SessionInfo {
	return SessionInfo{
		ID:        ms.ID,
		CreatedAt: ms.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		State:     ms.Snapshot(),
	}
}

type createSessionRequest struct {
	Level int `json:"level"`
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) listLevels(c *gin.Context) {
	all := s.levels.Get().All()
	out := make([]LevelInfo, len(all))
	for i := range all {
		out[i] = levelInfo(&all[i], false)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "levels": out})
}

func (s *Server) getLevel(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	lvl, err := s.levels.Get().Lookup(n)
	if err != nil {
		abort(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, levelInfo(lvl, true))
}

func (s *Server) getStats(c *gin.Context) {
	st := stats.Default()
	if s.stats != nil {
		st = s.stats.Snapshot()
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}

	catalog := s.levels.Get()
	if req.Level == 0 {
		req.Level = 1
	}
	if _, err := catalog.Lookup(req.Level); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	var recorder session.Recorder
	if s.stats != nil {
		recorder = s.stats
	}
	opts := []session.Option{session.WithLevel(req.Level), session.WithLogger(s.logger)}
	if s.config.Seed != 0 {
		opts = append(opts, session.WithSeed(s.config.Seed+int64(s.manager.Count())))
	}

	ms := s.manager.Add(session.New(catalog, recorder, opts...))
	id := ms.ID
	ms.Observe(func(snap session.Snapshot) {
		s.hub.BroadcastToSession(id, snap)
	})
	s.logger.Info("session created", "id", id, "level", req.Level)

	c.JSON(http.StatusCreated, sessionInfo(ms))
}

func (s *Server) listSessions(c *gin.Context) {
	all := s.manager.List()
	out := make([]SessionInfo, len(all))
	for i, ms := range all {
		out[i] = sessionInfo(ms)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "sessions": out})
}

// lookup resolves :id or writes a 404.
func (s *Server) lookup(c *gin.Context) (*session.Managed, bool) {
	ms, err := s.manager.Get(c.Param("id"))
	if err != nil {
		abort(c, http.StatusNotFound, err)
		return nil, false
	}
	return ms, true
}

func (s *Server) getSession(c *gin.Context) {
	if ms, ok := s.lookup(c); ok {
		c.JSON(http.StatusOK, sessionInfo(ms))
	}
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := s.manager.Delete(id); err != nil {
		abort(c, http.StatusNotFound, err)
		return
	}
	s.hub.CloseSession(id)
	s.logger.Info("session deleted", "id", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) postCommand(c *gin.Context) {
	ms, ok := s.lookup(c)
	if !ok {
		return
	}

	var cmd session.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	snap, err := ms.Apply(cmd)
	if errors.Is(err, session.ErrUnknownCommand) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "commands": session.Commands()})
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getBoard(c *gin.Context) {
	ms, ok := s.lookup(c)
	if !ok {
		return
	}

	cell := s.config.CellPx
	if v := c.Query("cell"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 || n > 128 {
			abort(c, http.StatusBadRequest, errors.New("cell must be an integer between 2 and 128"))
			return
		}
		cell = n
	}
	width := 0
	if v := c.Query("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 4096 {
			abort(c, http.StatusBadRequest, errors.New("width must be an integer between 1 and 4096"))
			return
		}
		width = n
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, ms.Snapshot(), cell, width); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) streamSession(c *gin.Context) {
	ms, ok := s.lookup(c)
	if !ok {
		return
	}
	s.hub.ServeWS(c.Writer, c.Request, ms.ID, ms.Snapshot())
}
