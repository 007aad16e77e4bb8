// Package todo keeps the in-memory todo collection and mirrors every
// mutation into a store.KV under one fixed key.
package todo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/wt/internal/model"
	"github.com/idilsaglam/wt/internal/store"
)

// Store is the todo collection of one session. Memory is authoritative;
// storage receives the full collection after every mutation.
type Store struct {
	kv     store.KV
	key    string
	newKey func() string
	log    *zap.Logger

	mu    sync.RWMutex
	items model.Collection
	last  *Commit

	w         *writer
	closeOnce sync.Once
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithKeyFunc replaces the item key generator. Keys must be non-empty.
func WithKeyFunc(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newKey = f
		}
	}
}

// WithStorageKey stores the collection under k instead of StorageKey.
func WithStorageKey(k string) Option {
	return func(s *Store) {
		if k != "" {
			s.key = k
		}
	}
}

// newKey returns a time-ordered UUIDv7, so key order follows insertion order.
func newKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Open loads the collection from kv and starts the writer.
//
// Missing data yields an empty store. Corrupt data also yields a usable,
// empty store, together with a *CorruptStateError; the corrupt blob is copied
// to "<key>.corrupt" first, or "<key>.corrupt-N" when earlier backups exist. A failed read returns a *PersistenceError and no
// store, so nothing overwrites data that could not be read.
func Open(ctx context.Context, kv store.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		key:    StorageKey,
		newKey: newKey,
		log:    zap.NewNop(),
		items:  model.Collection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("key", s.key))
	s.w = newWriter(kv, s.key, s.log)

	var loadErr error
	items, raw, err := s.read(ctx)
	switch {
	case err == nil:
		s.items = items
		s.w.setSeen(raw)
		s.log.Info("loaded todos", zap.Int("items", len(items)))
	case errors.Is(err, ErrCorruptState):
		loadErr = err
		s.log.Warn("stored todos are corrupt, starting empty", zap.Error(err))
		backup := s.backupKey(ctx)
		if berr := s.kv.Set(ctx, backup, raw); berr != nil {
			s.log.Error("backup of corrupt todos failed", zap.String("backup", backup), zap.Error(berr))
			loadErr = errors.Join(err, &PersistenceError{Op: "backup", Key: backup, Err: berr})
		} else {
			var ce *CorruptStateError
			if errors.As(err, &ce) {
				ce.Backup = backup
			}
		}
	default:
		s.log.Error("load todos failed", zap.Error(err))
		return nil, err
	}

	go s.w.run()
	return s, loadErr
}

// backupKey returns the first unused corrupt-backup key, so an earlier
// backup is never overwritten.
func (s *Store) backupKey(ctx context.Context) string {
	key := s.key + ".corrupt"
	for n := 2; ; n++ {
		if _, err := s.kv.Get(ctx, key); err != nil {
			return key
		}
		key = fmt.Sprintf("%s.corrupt-%d", s.key, n)
	}
}

func (s *Store) read(ctx context.Context) (model.Collection, []byte, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return model.Collection{}, nil, nil
	}
	if err != nil {
		return nil, nil, &PersistenceError{Op: "read", Key: s.key, Err: err}
	}
	items, err := Decode(raw)
	if err != nil {
		var ce *CorruptStateError
		if errors.As(err, &ce) {
			ce.Key = s.key
		}
		return nil, raw, err
	}
	return items, raw, nil
}

// Add trims text and, unless it is empty, stores it under a fresh key in
// category c. Empty input is ignored: the key is "" and the commit is
// already resolved with a nil error.
func (s *Store) Add(text string, c model.Category) (string, *Commit) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", resolvedCommit(nil)
	}
	if !c.Valid() {
		return "", resolvedCommit(fmt.Errorf("add: invalid category %d", int(c)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.uniqueKeyLocked()
	s.items[key] = model.Item{Text: text, Category: c}
	s.log.Debug("added todo", zap.String("item", key), zap.Stringer("category", c))
	return key, s.persistLocked()
}

func (s *Store) uniqueKeyLocked() string {
	key := s.newKey()
	for i := 0; i < 16; i++ {
		if _, taken := s.items[key]; !taken && key != "" {
			return key
		}
		key = s.newKey()
	}
	base := key
	for n := 1; ; n++ {
		key = fmt.Sprintf("%s-%d", base, n)
		if _, taken := s.items[key]; !taken {
			return key
		}
	}
}

// Delete removes key and persists the collection. A missing key leaves
// memory untouched but the unchanged collection is still written.
func (s *Store) Delete(key string) *Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		delete(s.items, key)
		s.log.Debug("deleted todo", zap.String("item", key))
	}
	return s.persistLocked()
}

func (s *Store) persistLocked() *Commit {
	blob, err := Encode(s.items)
	if err != nil {
		return resolvedCommit(&PersistenceError{Op: "encode", Key: s.key, Err: err})
	}
	c := s.w.submit(blob)
	s.last = c
	return c
}

// List yields the items of category c in key order. Each iteration filters
// the collection as it is when the iteration starts.
func (s *Store) List(c model.Category) iter.Seq2[string, model.Item] {
	return func(yield func(string, model.Item) bool) {
		for _, e := range s.Entries(c) {
			if !yield(e.Key, e.Item) {
				return
			}
		}
	}
}

// Entries returns the items of category c in key order.
func (s *Store) Entries(c model.Category) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Entry
	for _, k := range s.items.Keys() {
		if it := s.items[k]; it.Category == c {
			out = append(out, model.Entry{Key: k, Item: it})
		}
	}
	return out
}

func (s *Store) Get(key string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[key]
	return it, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns a copy of the whole collection.
func (s *Store) Snapshot() model.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Clone()
}

// Flush waits until every write scheduled so far has finished and returns
// the result of the last one.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	c := s.last
	s.mu.RUnlock()
	if c == nil {
		return nil
	}
	return c.Wait(ctx)
}

// Reload replaces memory with what storage holds when another process has
// changed it. It does nothing while writes are pending or when storage still
// holds the blob this store last read or wrote. After a failed write memory
// holds the only copy of the newest changes, so Reload keeps it and returns
// ErrUnsaved until a later write succeeds. Corrupt data is reported and
// ignored.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	if s.w.pending() {
		return false, nil
	}
	if s.w.unsaved() {
		s.log.Warn("storage changed while local changes are unsaved, keeping memory")
		return false, &PersistenceError{Op: "reload", Key: s.key, Err: ErrUnsaved}
	}
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, &PersistenceError{Op: "read", Key: s.key, Err: err}
	}
	if s.w.sameAsSeen(raw) {
		return false, nil
	}

	items := model.Collection{}
	if raw != nil {
		items, err = Decode(raw)
		if err != nil {
			var ce *CorruptStateError
			if errors.As(err, &ce) {
				ce.Key = s.key
			}
			s.log.Warn("ignoring corrupt todos on reload", zap.Error(err))
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w.pending() || s.w.unsaved() {
		return false, nil
	}
	s.items = items
	s.w.setSeen(raw)
	s.log.Info("reloaded todos", zap.Int("items", len(items)))
	return true, nil
}

// Close waits for pending writes and stops the writer. The KV is left open.
func (s *Store) Close() error {
	s.closeOnce.Do(s.w.close)
	s.mu.RLock()
	c := s.last
	s.mu.RUnlock()
	if c == nil {
		return nil
	}
	return c.Err()
}
