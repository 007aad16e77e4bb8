// Package store defines the device-local key-value facility the todo list
// persists into. Backends live in subpackages.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// KV stores opaque values under string keys. Set replaces the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Watcher is implemented by backends that can report changes made by
// other processes.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}
