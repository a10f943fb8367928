// Package config loads the application configuration: a YAML file found on a
// search path (or the embedded default), then environment overrides.
package config

import (
	"time"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

// App is the full application configuration.
type App struct {
	Storage StorageConfig `yaml:"storage"`
	Levels  LevelsConfig  `yaml:"levels"`
	Game    GameConfig    `yaml:"game"`
	Log     LogConfig     `yaml:"log"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
}

// StorageConfig selects where statistics and the run log live.
type StorageConfig struct {
	DB           string      `yaml:"db"`            // SQLite file: run log, and stats for the sqlite backend
	StatsBackend string      `yaml:"stats_backend"` // memory, file, sqlite or redis
	StatsDir     string      `yaml:"stats_dir"`     // Directory for the file backend
	Redis        RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis stats backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LevelsConfig points at a directory of custom level files.
type LevelsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"` // Reload on change (web and ssh servers)
}

// GameConfig holds timing and randomness.
type GameConfig struct {
	Seed       int64         `yaml:"seed"`
	TimerEvery time.Duration `yaml:"timer_every"`
	SnakeEvery time.Duration `yaml:"snake_every"`
}

// LogConfig configures charmbracelet/log output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// SSHConfig configures `maze serve`.
type SSHConfig struct {
	Addr        string        `yaml:"addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig configures `maze web`.
type WebConfig struct {
	Addr   string `yaml:"addr"`
	CellPx int    `yaml:"cell_px"`
}

// Runtime converts the game section into the runtime config handed to views.
func (a App) Runtime() core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.Seed = a.Game.Seed
	if a.Game.TimerEvery > 0 {
		rc.TimerEvery = a.Game.TimerEvery
	}
	if a.Game.SnakeEvery > 0 {
		rc.SnakeEvery = a.Game.SnakeEvery
	}
	return rc
}

// BackendConfig converts the storage section for stats.OpenBackend.
func (a App) BackendConfig() stats.BackendConfig {
	return stats.BackendConfig{
		Path:          a.Storage.DB,
		Dir:           a.Storage.StatsDir,
		RedisAddr:     a.Storage.Redis.Addr,
		RedisPassword: a.Storage.Redis.Password,
		RedisDB:       a.Storage.Redis.DB,
		RedisPrefix:   a.Storage.Redis.Prefix,
	}
}
