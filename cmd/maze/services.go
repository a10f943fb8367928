package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/config"
	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/stats"
	"github.com/vovakirdan/maze-escape/internal/storage"
)

// services are the shared dependencies every command opens from config.
type services struct {
	catalog *levels.Catalog
	stats   *stats.Store
	runs    *storage.Store // nil when the database cannot be opened
	closers []func() error
}

// openServices loads levels, opens the stats backend and the run log.
// The run log shares the stats database when the sqlite backend is used.
func openServices(ctx context.Context, cfg config.App, logger *log.Logger) (*services, error) {
	dir := cfg.Levels.Dir
	if dir != "" {
		expanded, err := storage.ExpandPath(dir)
		if err != nil {
			return nil, err
		}
		dir = expanded
	}
	catalog, err := levels.Load(dir, logger)
	if err != nil {
		return nil, err
	}

	kv, err := stats.OpenBackend(ctx, cfg.Storage.StatsBackend, cfg.BackendConfig())
	if err != nil {
		// Statistics then last for this process only.
		logger.Warn("cannot open stats backend, keeping stats in memory",
			"backend", cfg.Storage.StatsBackend, "error", err)
		kv = stats.NewMemoryKV()
	}

	svc := &services{catalog: catalog}
	opts := []stats.Option{stats.WithLogger(logger)}

	if skv, ok := kv.(*stats.SQLiteKV); ok {
		svc.runs = skv.Store()
	} else {
		runs, err := storage.Open(cfg.Storage.DB)
		if err != nil {
			// The game still works without history.
			logger.Warn("could not open run log", "db", cfg.Storage.DB, "error", err)
		} else {
			svc.runs = runs
			svc.closers = append(svc.closers, runs.Close)
			opts = append(opts, stats.WithRunLog(runs))
		}
	}

	svc.stats = stats.Open(kv, opts...)
	return svc, nil
}

// Close flushes the stats record and closes the backends.
func (s *services) Close() error {
	errs := []error{s.stats.Close()}
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// newLogger opens the configured log file. Without one, servers log to
// stderr and the terminal game discards logs so they cannot corrupt the
// screen.
func newLogger(cfg config.App, prefix string, console bool) (*log.Logger, io.Closer, error) {
	if cfg.Log.File == "" && console {
		return config.NewLogger(os.Stderr, prefix, cfg.Log.Level), stderrCloser{}, nil
	}
	return config.OpenLogFile(cfg.Log.File, prefix, cfg.Log.Level)
}

type stderrCloser struct{}

func (stderrCloser) Close() error { return nil }

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// watchLevels hot-reloads the level directory into live until ctx is done.
func watchLevels(ctx context.Context, cfg config.App, live *levels.Live, logger *log.Logger) {
	if cfg.Levels.Dir == "" || !cfg.Levels.Watch {
		return
	}
	dir, err := storage.ExpandPath(cfg.Levels.Dir)
	if err != nil {
		logger.Warn("cannot watch levels", "error", err)
		return
	}
	go func() {
		if err := levels.Watch(ctx, dir, logger, live.Set); err != nil {
			logger.Warn("level watcher stopped", "error", err)
		}
	}()
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
