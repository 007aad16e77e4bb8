package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptState matches any *CorruptStateError.
	ErrCorruptState = errors.New("corrupt state")
	// ErrPersistence matches any *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
	// ErrClosed is wrapped by writes scheduled after Close.
	ErrClosed = errors.New("store closed")
	// ErrUnsaved is wrapped by Reload while a failed write is not yet retried.
	ErrUnsaved = errors.New("local changes not saved")
)

// CorruptStateError reports a stored blob that cannot be decoded. The store
// recovers to an empty collection when it sees one at load time.
type CorruptStateError struct {
	Key    string
	Backup string // key holding a copy of the blob, set once Open has saved it
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	msg := "corrupt todos"
	if e.Key != "" {
		msg += " at " + e.Key
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptStateError) Unwrap() error        { return e.Err }
func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

// PersistenceError reports a failed storage read or write. In-memory state
// stays authoritative for the session when a write fails.
type PersistenceError struct {
	Op  string // read, write, backup, encode, reload
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error        { return e.Err }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
