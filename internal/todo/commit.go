package todo

import "context"

// Commit tracks one scheduled write of the collection. It resolves once the
// write that carries its state (or a later one) has finished.
type Commit struct {
	done chan struct{}
	err  error
}

func newCommit() *Commit { return &Commit{done: make(chan struct{})} }

func resolvedCommit(err error) *Commit {
	c := newCommit()
	c.resolve(err)
	return c
}

func (c *Commit) resolve(err error) {
	c.err = err
	close(c.done)
}

// Done is closed when the write has finished.
func (c *Commit) Done() <-chan struct{} { return c.done }

// Err returns the write result, or nil while the write is still pending.
func (c *Commit) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx is done.
func (c *Commit) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
