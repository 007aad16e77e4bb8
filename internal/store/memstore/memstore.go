// Package memstore is an in-process store.KV for tests and throwaway sessions.
package memstore

import (
	"context"
	"sync"

	"github.com/idilsaglam/wt/internal/store"
)

type Store struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int

	readErr  error
	writeErr error
}

func New() *Store { return &Store{values: make(map[string][]byte)} }

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

func (s *Store) Close() error { return nil }

// FailReads makes every Get return err until called again with nil.
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// FailWrites makes every Set return err until called again with nil.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

// Writes reports how many Set calls succeeded.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var _ store.KV = (*Store)(nil)
