package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvDB           = "MAZE_DB"
	EnvStatsBackend = "MAZE_STATS_BACKEND"
	EnvRedisAddr    = "MAZE_REDIS_ADDR"
	EnvLevelsDir    = "MAZE_LEVELS_DIR"
	EnvSeed         = "MAZE_SEED"
	EnvLogLevel     = "MAZE_LOG_LEVEL"
	EnvSSHAddr      = "MAZE_SSH_ADDR"
	EnvWebAddr      = "MAZE_WEB_ADDR"
)

// Load reads the configuration.
// Search order: customPath -> ~/.maze/config.yaml -> ./configs/maze.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only changes what it names.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped when missing or invalid.
func Load(customPath string) (App, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return App{}, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return App{}, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath("config.yaml"), filepath.Join("configs", "maze.yaml")} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	cfg, err := parse(defaultMazeYAML)
	if err != nil {
		return DefaultApp(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte) (App, error) {
	cfg := DefaultApp()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return App{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path under ~/.maze, or "" without a home directory.
func userConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".maze", name)
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env")
// into the process environment. Missing files are ignored; variables that
// are already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: cannot load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables looked up with lookup
// (os.LookupEnv in production).
func ApplyEnv(cfg *App, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvDB, &cfg.Storage.DB)
	str(EnvStatsBackend, &cfg.Storage.StatsBackend)
	str(EnvRedisAddr, &cfg.Storage.Redis.Addr)
	str(EnvLevelsDir, &cfg.Levels.Dir)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvSSHAddr, &cfg.SSH.Addr)
	str(EnvWebAddr, &cfg.Web.Addr)

	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.Game.Seed = seed
	}
	return nil
}

// LoadAll is Load followed by LoadDotEnv and ApplyEnv against the process
// environment.
func LoadAll(customPath string) (App, error) {
	cfg, err := Load(customPath)
	if err != nil {
		return App{}, err
	}
	if err := LoadDotEnv(); err != nil {
		return App{}, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return App{}, err
	}
	return cfg, nil
}
