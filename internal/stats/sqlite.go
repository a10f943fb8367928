package stats

import (
	"context"
	"errors"

	"github.com/vovakirdan/maze-escape/internal/storage"
)

// SQLiteKV adapts the SQLite store's kv table. It also exposes the run log.
type SQLiteKV struct {
	store *storage.Store
}

// NewSQLiteKV wraps an open store. Closing the KV closes the store.
func NewSQLiteKV(store *storage.Store) *SQLiteKV {
	return &SQLiteKV{store: store}
}

func (s *SQLiteKV) Get(_ context.Context, key string) ([]byte, error) {
	v, err := s.store.Get(key)
	if errors.Is(err, storage.ErrNoValue) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *SQLiteKV) Put(_ context.Context, key string, value []byte) error {
	return s.store.Put(key, string(value))
}

// SaveRun appends to the run log.
func (s *SQLiteKV) SaveRun(r storage.Run) (int64, error) {
	return s.store.SaveRun(r)
}

// Store returns the underlying database for run log queries.
func (s *SQLiteKV) Store() *storage.Store {
	return s.store
}

func (s *SQLiteKV) Close() error {
	return s.store.Close()
}
