package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so an assistant can
play: list levels, create sessions, move and read the board.

Logs go to stderr (or --log-file); stdout carries the protocol.

Example MCP client entry:
  {"command": "maze", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, logCloser, err := newLogger(cfg, "maze-mcp", true)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	svc, err := openServices(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	rc := cfg.Runtime()
	manager := session.NewManager(rc.TimerEvery, rc.SnakeEvery)
	defer manager.Close()

	server := mcp.NewServer(levels.NewLive(svc.catalog), svc.stats, manager, logger)
	return server.ServeStdio()
}
