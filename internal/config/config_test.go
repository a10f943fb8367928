package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchDefaultApp(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != DefaultApp() {
		t.Errorf("embedded default = %+v\nexpected %+v", cfg, DefaultApp())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maze.yaml")
	data := []byte("storage:\n  stats_backend: file\ngame:\n  snake_every: 500ms\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.StatsBackend != "file" {
		t.Errorf("stats backend = %q, expected file", cfg.Storage.StatsBackend)
	}
	if cfg.Game.SnakeEvery != 500*time.Millisecond {
		t.Errorf("snake_every = %v, expected 500ms", cfg.Game.SnakeEvery)
	}
	// Unnamed fields keep their defaults.
	if cfg.Game.TimerEvery != time.Second || cfg.Web.Addr != ":8080" {
		t.Errorf("partial file should keep defaults, got %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file should be an error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("game: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("invalid YAML should be an error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDB:           "/tmp/x.db",
		EnvStatsBackend: "redis",
		EnvRedisAddr:    "cache:6379",
		EnvLevelsDir:    "/srv/levels",
		EnvSeed:         "42",
		EnvLogLevel:     "debug",
		EnvSSHAddr:      ":2222",
		EnvWebAddr:      ":9090",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultApp()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	checks := []struct {
		name, got, want string
	}{
		{"db", cfg.Storage.DB, "/tmp/x.db"},
		{"backend", cfg.Storage.StatsBackend, "redis"},
		{"redis", cfg.Storage.Redis.Addr, "cache:6379"},
		{"levels", cfg.Levels.Dir, "/srv/levels"},
		{"log", cfg.Log.Level, "debug"},
		{"ssh", cfg.SSH.Addr, ":2222"},
		{"web", cfg.Web.Addr, ":9090"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, expected %q", c.name, c.got, c.want)
		}
	}
	if cfg.Game.Seed != 42 {
		t.Errorf("seed = %d, expected 42", cfg.Game.Seed)
	}
	if rc := cfg.Runtime(); rc.Seed != 42 || rc.SnakeEvery != 2*time.Second {
		t.Errorf("Runtime() = %+v", rc)
	}
}

func TestApplyEnvBadSeed(t *testing.T) {
	cfg := DefaultApp()
	err := ApplyEnv(&cfg, func(k string) (string, bool) {
		if k == EnvSeed {
			return "soon", true
		}
		return "", false
	})
	if err == nil {
		t.Error("non-numeric seed should be an error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MAZE_TEST_DOTENV=hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MAZE_TEST_DOTENV", "")
	os.Unsetenv("MAZE_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("MAZE_TEST_DOTENV"); got != "hello" {
		t.Errorf("MAZE_TEST_DOTENV = %q, expected hello", got)
	}
}

func TestOpenLogFile(t *testing.T) {
	logger, closer, err := OpenLogFile("", "maze", "debug")
	if err != nil || logger == nil || closer == nil {
		t.Fatalf("OpenLogFile(\"\") = %v, %v, %v", logger, closer, err)
	}
	closer.Close()

	path := filepath.Join(t.TempDir(), "maze.log")
	logger, closer, err = OpenLogFile(path, "maze", "info")
	if err != nil {
		t.Fatalf("OpenLogFile: %v", err)
	}
	logger.Info("hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		t.Errorf("log file should contain output, err=%v", err)
	}
}
