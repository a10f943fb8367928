// Package mcp exposes maze sessions as Model Context Protocol tools over
// stdio, so an agent can play the game.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/render"
	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/session"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

const instructions = `Escape the Maze - MCP Interface

Guide the player (@) from the start to the goal (⌂) of each maze.
Walls (█) block movement. Saws (x) and snakes (s, S) end the run.
Coins ($) and gems (♦) add to the score. Some levels have a time limit,
and on the later levels snakes (S) roam every two seconds.

AVAILABLE TOOLS:
- list_levels: List the levels
- create_session: Create a session on a level
- session_state: Show the board and status of a session
- move: Move one cell (up/down/left/right); the run must be started
- command: start, pause, resume, toggle_pause, stop, reset, next_level, select_level
- stats: Show lifetime statistics`

// Server is the MCP tool server.
type Server struct {
	levels    *levels.Live
	stats     *stats.Store
	manager   *session.Manager
	logger    *log.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the tool server. st may be nil.
func NewServer(live *levels.Live, st *stats.Store, manager *session.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		levels:  live,
		stats:   st,
		manager: manager,
		logger:  logger,
	}
	s.mcpServer = server.NewMCPServer(
		"Escape the Maze",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying server for transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("mcp: cannot serve: %w", err)
	}
	return nil
}

func sessionIDProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by create_session",
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the maze levels with their time limits",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListLevels)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, idle on the given level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "integer",
					"description": "Level number (default 1)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "session_state",
		Description: "Show the board and status of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleSessionState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Run a session command",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp(),
				"command": map[string]interface{}{
					"type": "string",
					"enum": []string{
						session.CmdStart, session.CmdPause, session.CmdResume, session.CmdTogglePause,
						session.CmdStop, session.CmdReset, session.CmdNextLevel, session.CmdSelectLevel,
					},
					"description": "Command to run",
				},
				"level": map[string]interface{}{
					"type":        "integer",
					"description": "Level number for select_level",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, s.handleCommand)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "stats",
		Description: "Show lifetime statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleStats)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument, which decodes as float64.
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func (s *Server) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	all := s.levels.Get().All()
	fmt.Fprintf(&b, "Levels (%d):\n\n", len(all))
	for _, l := range all {
		limit := "none"
		if l.TimeLimit > 0 {
			limit = scoring.FormatTime(l.TimeLimit)
		}
		fmt.Fprintf(&b, "%d. %s (%dx%d, time limit %s", l.Number, l.Name, l.Grid.Width(), l.Grid.Height(), limit)
		if l.RoamingSnakes {
			b.WriteString(", roaming snakes")
		}
		fmt.Fprintf(&b, ")\n   %s\n", l.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := intArg(arguments(request), "level")
	if level == 0 {
		level = 1
	}
	catalog := s.levels.Get()
	if _, err := catalog.Lookup(level); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var recorder session.Recorder
	if s.stats != nil {
		recorder = s.stats
	}
	ms := s.manager.Add(session.New(catalog, recorder, session.WithLevel(level), session.WithLogger(s.logger)))
	s.logger.Info("session created", "id", ms.ID, "level", level)

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n\n%s", ms.ID, FormatSnapshot(ms.Snapshot()))), nil
}

func (s *Server) lookup(request mcp.CallToolRequest) (*session.Managed, *mcp.CallToolResult) {
	id, _ := arguments(request)["session_id"].(string)
	ms, err := s.manager.Get(id)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("%v: %q", err, id))
	}
	return ms, nil
}

func (s *Server) handleSessionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, errResult := s.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(FormatSnapshot(ms.Snapshot())), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, errResult := s.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	dir, _ := arguments(request)["direction"].(string)

	before := ms.Snapshot()
	snap, err := ms.Apply(session.Command{Command: session.CmdMove, Direction: dir})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	switch _, known := core.ParseDirection(dir); {
	case !known:
		fmt.Fprintf(&b, "Move ignored: unknown direction %q. Use up, down, left or right.\n\n", dir)
	case before.Status != session.StatusActive:
		fmt.Fprintf(&b, "Move ignored: the run is %s. Use command start first.\n\n", before.Status)
	case snap.Player == before.Player:
		b.WriteString("Move blocked by a wall.\n\n")
	}
	b.WriteString(FormatSnapshot(snap))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, errResult := s.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	args := arguments(request)
	name, _ := args["command"].(string)

	snap, err := ms.Apply(session.Command{Command: name, Level: intArg(args, "level")})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatSnapshot(snap)), nil
}

func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := stats.Default()
	if s.stats != nil {
		st = s.stats.Snapshot()
	}
	return mcp.NewToolResultText(FormatStats(st)), nil
}

// FormatSnapshot renders a snapshot as a status block and an ASCII board.
func FormatSnapshot(snap session.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d: %s\n", snap.Level, snap.LevelName)
	fmt.Fprintf(&b, "Status: %s\n", snap.Status)
	if snap.LossReason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", snap.LossReason)
	}
	fmt.Fprintf(&b, "Position: %s\n", snap.Player)
	if snap.TimeLimit > 0 {
		fmt.Fprintf(&b, "Time: %s / %s\n", scoring.FormatTime(snap.Elapsed), scoring.FormatTime(snap.TimeLimit))
	} else {
		fmt.Fprintf(&b, "Time: %s\n", scoring.FormatTime(snap.Elapsed))
	}
	fmt.Fprintf(&b, "Score: %d (coins %d, gems %d)\n", snap.Score, snap.Coins, snap.Gems)

	if snap.Def != nil {
		w, h := render.GridSize(snap.Def.Grid)
		scr := core.NewScreen(w, h)
		render.DrawGrid(scr, 0, 0, snap.Def.Grid, &snap)
		b.WriteString("\n")
		for y := range h {
			b.WriteString(strings.TrimRight(scr.Row(y), " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(render.Legend)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStats renders the statistics record.
func FormatStats(st stats.Stats) string {
	best := "--:--"
	if st.BestTime > 0 {
		best = scoring.FormatTime(st.BestTime)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Games: %d (won %d, lost %d, win rate %.0f%%)\n", st.TotalGames, st.Wins, st.Losses, st.WinRate())
	fmt.Fprintf(&b, "Best time: %s\n", best)
	fmt.Fprintf(&b, "Current streak: %d\n", st.CurrentStreak)
	fmt.Fprintf(&b, "Total score: %d\n", st.TotalScore)
	fmt.Fprintf(&b, "Coins: %d  Gems: %d\n", st.CoinsCollected, st.GemsCollected)
	for n := 1; n <= stats.PerLevelSlots; n++ {
		fmt.Fprintf(&b, "Level %d wins: %d\n", n, st.LevelWins(n))
	}
	return b.String()
}
