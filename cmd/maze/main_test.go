package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/maze-escape/internal/config"
	"github.com/vovakirdan/maze-escape/internal/stats"
)

func TestLoadConfigAppliesChangedFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	db := filepath.Join(t.TempDir(), "maze.db")
	require.NoError(t, statsCmd.ParseFlags([]string{"--db", db, "--seed", "7", "--stats-backend", "memory"}))
	t.Cleanup(func() {
		flagDBPath, flagSeed, flagStatsBackend = "", 0, ""
	})

	cfg, err := loadConfig(statsCmd)
	require.NoError(t, err)

	assert.Equal(t, db, cfg.Storage.DB)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, "memory", cfg.Storage.StatsBackend)
	// Untouched flags keep the config value.
	assert.Equal(t, config.DefaultApp().Log.Level, cfg.Log.Level)
}

func TestOpenServicesSharesSQLiteRunLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultApp()
	cfg.Storage.DB = filepath.Join(dir, "maze.db")
	cfg.Storage.StatsBackend = "sqlite"
	cfg.Levels.Dir = ""

	svc, err := openServices(context.Background(), cfg, config.NewLogger(io.Discard, "test", "error"))
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, 5, svc.catalog.Count())
	require.NotNil(t, svc.runs)
	assert.Empty(t, svc.closers, "run log belongs to the stats backend")
}

func TestOpenServicesOpensSeparateRunLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultApp()
	cfg.Storage.DB = filepath.Join(dir, "maze.db")
	cfg.Storage.StatsBackend = "memory"

	svc, err := openServices(context.Background(), cfg, config.NewLogger(io.Discard, "test", "error"))
	require.NoError(t, err)
	defer svc.Close()

	require.NotNil(t, svc.runs)
	assert.Len(t, svc.closers, 1)
}

func TestOpenServicesFallsBackWhenStatsBackendIsDown(t *testing.T) {
	cfg := config.DefaultApp()
	cfg.Storage.DB = filepath.Join(t.TempDir(), "maze.db")
	cfg.Storage.StatsBackend = "redis"
	cfg.Storage.Redis.Addr = "127.0.0.1:1"

	svc, err := openServices(context.Background(), cfg, config.NewLogger(io.Discard, "test", "error"))
	require.NoError(t, err)
	defer svc.Close()

	st := svc.stats.RecordLoss()
	assert.Equal(t, 1, st.Losses)
	require.NotNil(t, svc.runs)
}

func TestOpenServicesSurvivesUnwritableDatabase(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := config.DefaultApp()
	cfg.Storage.DB = filepath.Join(blocker, "maze.db")
	cfg.Storage.StatsBackend = "sqlite"

	svc, err := openServices(context.Background(), cfg, config.NewLogger(io.Discard, "test", "error"))
	require.NoError(t, err)
	defer svc.Close()

	assert.Nil(t, svc.runs)
	assert.Equal(t, 5, svc.catalog.Count())
}

func TestResetRecordsClearsRunLog(t *testing.T) {
	cfg := config.DefaultApp()
	cfg.Storage.DB = filepath.Join(t.TempDir(), "maze.db")
	cfg.Storage.StatsBackend = "sqlite"

	svc, err := openServices(context.Background(), cfg, config.NewLogger(io.Discard, "test", "error"))
	require.NoError(t, err)
	defer svc.Close()

	svc.stats.RecordWin(stats.Win{Level: 1, TimeSecs: 20, Score: 1160})
	alice := svc.stats.ForPlayer("alice")
	defer alice.Close()
	alice.RecordWin(stats.Win{Level: 2, TimeSecs: 30, Score: 1340})

	// A player reset keeps the shared log.
	require.NoError(t, resetRecords(alice, svc.runs, "alice"))
	assert.Zero(t, alice.Snapshot().Wins)
	runs, err := svc.runs.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	require.NoError(t, resetRecords(svc.stats, svc.runs, ""))
	assert.Zero(t, svc.stats.Snapshot().Wins)
	runs, err = svc.runs.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
