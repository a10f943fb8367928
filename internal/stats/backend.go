package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/maze-escape/internal/storage"
)

// ErrUnknownBackend is returned by OpenBackend for an unregistered name.
var ErrUnknownBackend = errors.New("stats: unknown backend")

// BackendConfig carries every setting a backend factory may need.
type BackendConfig struct {
	Path          string // sqlite database file
	Dir           string // file backend directory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// BackendFactory opens a KV from config.
type BackendFactory func(ctx context.Context, cfg BackendConfig) (KV, error)

var (
	backends = make(map[string]BackendFactory)
	mu       sync.RWMutex
)

// RegisterBackend adds a named backend factory.
// Panics if the name is already registered.
func RegisterBackend(name string, f BackendFactory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("stats: backend %q already registered", name))
	}
	backends[name] = f
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenBackend opens the named backend.
func OpenBackend(ctx context.Context, name string, cfg BackendConfig) (KV, error) {
	mu.RLock()
	f, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownBackend, name, Backends())
	}
	return f(ctx, cfg)
}

func init() {
	RegisterBackend("memory", func(context.Context, BackendConfig) (KV, error) {
		return NewMemoryKV(), nil
	})
	RegisterBackend("file", func(_ context.Context, cfg BackendConfig) (KV, error) {
		dir, err := storage.ExpandPath(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return NewFileKV(dir)
	})
	RegisterBackend("sqlite", func(_ context.Context, cfg BackendConfig) (KV, error) {
		store, err := storage.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(store), nil
	})
	RegisterBackend("redis", func(ctx context.Context, cfg BackendConfig) (KV, error) {
		client, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisKV(client, cfg.RedisPrefix), nil
	})
}
