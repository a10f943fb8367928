package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/maze.yaml
var defaultMazeYAML []byte

// DefaultApp returns the built-in configuration. It matches defaults/maze.yaml
// and backs it up if the embedded file cannot be parsed.
func DefaultApp() App {
	return App{
		Storage: StorageConfig{
			DB:           "~/.maze/maze.db",
			StatsBackend: "sqlite",
			StatsDir:     "~/.maze/stats",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "maze:",
			},
		},
		Levels: LevelsConfig{
			Watch: true,
		},
		Game: GameConfig{
			TimerEvery: time.Second,
			SnakeEvery: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		SSH: SSHConfig{
			Addr:        ":23234",
			HostKey:     "~/.maze/host_key",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Addr:   ":8080",
			CellPx: 24,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultMazeYAML
}
