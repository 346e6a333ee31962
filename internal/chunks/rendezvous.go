package chunks

import (
	"context"
	"sync"
)

// Rendezvous is a single-resolution synchronization point.
// The first Resolve wins; later calls are ignored.
type Rendezvous struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewRendezvous creates an unresolved rendezvous.
func NewRendezvous() *Rendezvous {
	return &Rendezvous{done: make(chan struct{})}
}

// Resolve marks the rendezvous finished with an optional error.
// Reports whether this call performed the resolution.
func (r *Rendezvous) Resolve(err error) bool {
	resolved := false
	r.once.Do(func() {
		r.err = err
		close(r.done)
		resolved = true
	})
	return resolved
}

// Done returns a channel closed on resolution.
func (r *Rendezvous) Done() <-chan struct{} {
	return r.done
}

// Resolved reports whether Resolve has been called.
func (r *Rendezvous) Resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the rendezvous is resolved or ctx is done.
// It returns the resolution error, or ctx.Err() if the context ends first.
func (r *Rendezvous) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
