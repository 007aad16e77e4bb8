package todo

import (
	"bytes"
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/idilsaglam/wt/internal/store"
)

// writer owns every Set against the storage key. Blobs are handed over in
// mutation order; when several are queued only the newest is written and
// all their commits resolve with that result.
type writer struct {
	kv  store.KV
	key string
	log *zap.Logger

	mu       sync.Mutex
	blob     []byte
	waiting  []*Commit
	inflight bool
	seen     []byte // last blob read from or written to storage
	dirty    bool   // the last write failed; memory holds unsaved changes
	closed   bool

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
}

func newWriter(kv store.KV, key string, log *zap.Logger) *writer {
	return &writer{
		kv:      kv,
		key:     key,
		log:     log,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (w *writer) submit(blob []byte) *Commit {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return resolvedCommit(&PersistenceError{Op: "write", Key: w.key, Err: ErrClosed})
	}
	c := newCommit()
	w.blob = blob
	w.waiting = append(w.waiting, c)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return c
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

func (w *writer) flush() {
	w.mu.Lock()
	blob, waiting := w.blob, w.waiting
	w.blob, w.waiting = nil, nil
	w.inflight = len(waiting) > 0
	w.mu.Unlock()
	if len(waiting) == 0 {
		return
	}

	err := w.kv.Set(context.Background(), w.key, blob)
	if err != nil {
		err = &PersistenceError{Op: "write", Key: w.key, Err: err}
		w.log.Error("persist todos failed", zap.String("key", w.key), zap.Int("commits", len(waiting)), zap.Error(err))
	} else {
		w.log.Debug("persisted todos", zap.String("key", w.key), zap.Int("bytes", len(blob)), zap.Int("commits", len(waiting)))
	}

	w.mu.Lock()
	if err == nil {
		w.seen = blob
	}
	w.dirty = err != nil
	w.inflight = false
	w.mu.Unlock()

	for _, c := range waiting {
		c.resolve(err)
	}
}

// pending reports whether any write is queued or running.
func (w *writer) pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight || len(w.waiting) > 0
}

// unsaved reports whether memory holds changes storage does not, because
// the last write failed.
func (w *writer) unsaved() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

func (w *writer) setSeen(b []byte) {
	w.mu.Lock()
	w.seen = b
	w.mu.Unlock()
}

func (w *writer) sameAsSeen(b []byte) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bytes.Equal(w.seen, b)
}

// close stops accepting blobs and waits for the final flush.
func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return
	}
	w.closed = true
	w.mu.Unlock()
	close(w.stop)
	<-w.stopped
}
