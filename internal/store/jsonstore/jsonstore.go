package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/wt/internal/store"
)

// File-backed storage. One human-readable file per key inside a data
// directory. Writes go through a temp file and a rename, so readers never
// see a half-written value.

// Store keeps values under Dir.
type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// FileName maps a storage key to a file name, e.g. "@todos" -> "todos.json".
// The mapping is one-to-one: bytes outside [A-Za-z0-9.-] become "_xx" (hex),
// one leading "@" is dropped, and keys without it are prefixed with "+".
func FileName(key string) string {
	if key == "@" {
		return "_.json"
	}
	var b strings.Builder
	if rest, ok := strings.CutPrefix(key, "@"); ok {
		key = rest
	} else {
		b.WriteByte('+')
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String() + ".json"
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, FileName(key))
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	p := s.path(key)
	tmp, err := os.CreateTemp(s.Dir, "."+filepath.Base(p)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

var (
	_ store.KV      = (*Store)(nil)
	_ store.Watcher = (*Store)(nil)
)
