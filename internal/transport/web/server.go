// Package web serves maze sessions over HTTP: a JSON API on gin, live
// snapshots over gorilla/websocket, and PNG boards.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/render"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

// Config holds configuration for the web server.
type Config struct {
	Addr       string        // Address to listen on
	CellPx     int           // Default pixel size of a board cell
	TimerEvery time.Duration // Session timer cadence
	SnakeEvery time.Duration // Roaming snake cadence
	Seed       int64         // Base seed for session RNGs; 0 seeds from the clock
}

// Server owns the session manager and the websocket hub.
type Server struct {
	config  Config
	levels  *levels.Live
	stats   *stats.Store
	manager *session.Manager
	hub     *Hub
	logger  *log.Logger
	engine  *gin.Engine

	stopHub context.CancelFunc
}

// NewServer builds the server and starts its hub. st may be nil, in which
// case results are not recorded. Close releases it.
func NewServer(cfg Config, live *levels.Live, st *stats.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.CellPx <= 0 {
		cfg.CellPx = render.DefaultCellPx
	}

	s := &Server{
		config:  cfg,
		levels:  live,
		stats:   st,
		manager: session.NewManager(cfg.TimerEvery, cfg.SnakeEvery),
		logger:  logger,
	}
	s.hub = NewHub(s.applyCommand, logger)

	ctx, cancel := context.WithCancel(context.Background())
	s.stopHub = cancel
	go s.hub.Run(ctx)

	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	{
		api.GET("/levels", s.listLevels)
		api.GET("/levels/:n", s.getLevel)
		api.GET("/stats", s.getStats)

		api.POST("/sessions", s.createSession)
		api.GET("/sessions", s.listSessions)
		api.GET("/sessions/:id", s.getSession)
		api.DELETE("/sessions/:id", s.deleteSession)
		api.POST("/sessions/:id/commands", s.postCommand)
		api.GET("/sessions/:id/board.png", s.getBoard)
	}
	r.GET("/ws/sessions/:id", s.streamSession)

	return r
}

// requestLogger logs each request through charmbracelet/log.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Manager exposes the session manager.
func (s *Server) Manager() *session.Manager {
	return s.manager
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: cannot serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close stops every session driver and the hub.
func (s *Server) Close() {
	s.manager.Close()
	s.stopHub()
}

func (s *Server) applyCommand(id string, cmd session.Command) error {
	ms, err := s.manager.Get(id)
	if err != nil {
		return err
	}
	_, err = ms.Apply(cmd)
	return err
}
