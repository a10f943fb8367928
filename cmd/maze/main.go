// maze is the "Escape the Maze" game: a terminal player, an SSH server, an
// HTTP/WebSocket API and an MCP tool server over one game engine.
//
// Usage:
//
//	maze play [level]        - Pick a level and play in the terminal
//	maze levels [n]          - List levels, or preview one
//	maze stats [--reset]     - Show lifetime statistics
//	maze scores [level]      - Show best runs
//	maze serve               - Start SSH server for remote play
//	maze web                 - Start HTTP + WebSocket server
//	maze mcp                 - Serve MCP tools on stdio
//
// Global flags:
//
//	--config <path>         - Config file (default: ~/.maze/config.yaml, ./configs/maze.yaml)
//	--db <path>             - SQLite database path
//	--seed <value>          - RNG seed for roaming snakes
//	--stats-backend <name>  - memory, file, sqlite or redis
//	--levels-dir <dir>      - Directory of custom level YAML files
//	--log-level <level>     - debug, info, warn, error
//	--log-file <path>       - Log file (the terminal game logs nowhere otherwise)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/maze-escape/internal/config"
)

var (
	// Global flags
	flagConfig       string
	flagDBPath       string
	flagSeed         int64
	flagStatsBackend string
	flagLevelsDir    string
	flagLogLevel     string
	flagLogFile      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "maze",
	Short: "Escape the Maze - a terminal maze game",
	Long: `Escape the Maze: guide your explorer from the start to the goal.
Avoid saws and snakes, grab coins and gems, and beat the clock.

Available commands:
  play     - Level picker, then the game
  levels   - List levels or preview one
  stats    - Lifetime statistics
  scores   - Best runs from the run log
  serve    - SSH server for remote play
  web      - HTTP + WebSocket API
  mcp      - MCP tool server on stdio

Examples:
  maze play
  maze play 3
  maze levels 5
  maze serve --ssh :2222
  maze web --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.StringVar(&flagDBPath, "db", "", "Path to SQLite database (default from config: ~/.maze/maze.db)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagStatsBackend, "stats-backend", "", "Stats backend: memory, file, sqlite, redis")
	pf.StringVar(&flagLevelsDir, "levels-dir", "", "Directory of custom level files")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.App, error) {
	cfg, err := config.LoadAll(flagConfig)
	if err != nil {
		return config.App{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.DB = flagDBPath
	}
	if flags.Changed("seed") {
		cfg.Game.Seed = flagSeed
	}
	if flags.Changed("stats-backend") {
		cfg.Storage.StatsBackend = flagStatsBackend
	}
	if flags.Changed("levels-dir") {
		cfg.Levels.Dir = flagLevelsDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	return cfg, nil
}
