package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/transport/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP + WebSocket server",
	Long: `Serve the game over HTTP. Clients create sessions, send commands and
receive state updates over a WebSocket.

Endpoints:
  GET    /api/levels                  - Level list
  GET    /api/levels/:n               - One level with its board
  GET    /api/stats                   - Lifetime statistics
  POST   /api/sessions                - Create a session {"level": n}
  GET    /api/sessions                - List sessions
  GET    /api/sessions/:id            - Session state
  DELETE /api/sessions/:id            - End a session
  POST   /api/sessions/:id/commands   - Apply a command
  GET    /api/sessions/:id/board.png  - Board image (?cell=24&width=)
  GET    /ws/sessions/:id             - State stream and commands

Examples:
  maze web
  maze web --addr :9090 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP address (default from config: :8080)")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagWebAddr != "" {
		cfg.Web.Addr = flagWebAddr
	}

	logger, logCloser, err := newLogger(cfg, "maze-web", true)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signalContext()
	defer stop()

	svc, err := openServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	live := levels.NewLive(svc.catalog)
	watchLevels(ctx, cfg, live, logger)

	rc := cfg.Runtime()
	server := web.NewServer(web.Config{
		Addr:       cfg.Web.Addr,
		CellPx:     cfg.Web.CellPx,
		TimerEvery: rc.TimerEvery,
		SnakeEvery: rc.SnakeEvery,
		Seed:       rc.Seed,
	}, live, svc.stats, logger)
	defer server.Close()

	fmt.Printf("Starting maze web server on %s\n", cfg.Web.Addr)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
