package chunks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/reporter/internal/logging"
)

// ErrHookRefired is logged when the bootstrap hook is invoked more than once.
var ErrHookRefired = errors.New("bootstrap hook invoked more than once")

// Loader is the external lazy-chunk loader. LoadLazyChunks blocks until
// every lazily-loadable chunk has been fetched and instantiated.
type Loader interface {
	LoadLazyChunks(ctx context.Context) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) error

// LoadLazyChunks implements Loader.
func (f LoaderFunc) LoadLazyChunks(ctx context.Context) error {
	return f(ctx)
}

// Poster is the host scheduler as seen by the coordinator.
type Poster interface {
	Post(name string, fn func(ctx context.Context)) bool
}

// LoadError wraps a failure reported by the lazy-chunk loader.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("lazy chunk loading failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Coordinator ties the bootstrap hook to the lazy-chunk loader and exposes
// the resulting rendezvous.
type Coordinator struct {
	scheduler Poster
	loader    Loader
	rv        *Rendezvous
	hooked    atomic.Bool
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for coordinator progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a coordinator with a fresh, unresolved rendezvous.
func NewCoordinator(scheduler Poster, loader Loader, opts ...Option) *Coordinator {
	c := &Coordinator{
		scheduler: scheduler,
		loader:    loader,
		rv:        NewRendezvous(),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hook is the function installed on the process-wide hook slot. The host
// calls it from inside its bootstrap; it only defers the real work.
func (c *Coordinator) Hook() {
	if !c.hooked.CompareAndSwap(false, true) {
		c.logger.Warn("ignoring bootstrap hook", "error", ErrHookRefired)
		return
	}

	c.logger.Debug("bootstrap hook fired, deferring chunk discovery")
	if !c.scheduler.Post("reporter: load lazy chunks", c.startLoading) {
		// The host loop is gone; nothing will ever resolve the rendezvous.
		c.logger.Warn("host scheduler closed before chunk discovery could start")
	}
}

// startLoading runs on the host scheduler after the bootstrap task returns.
func (c *Coordinator) startLoading(ctx context.Context) {
	c.logger.Debug("starting lazy chunk discovery")

	go func() {
		err := c.loader.LoadLazyChunks(ctx)
		if err != nil {
			err = &LoadError{Err: err}
		}
		c.rv.Resolve(err)
		c.logger.Debug("lazy chunk discovery finished", "error", err)
	}()
}

// Wait suspends until lazy chunk loading has completed.
func (c *Coordinator) Wait(ctx context.Context) error {
	return c.rv.Wait(ctx)
}

// Rendezvous exposes the underlying rendezvous.
func (c *Coordinator) Rendezvous() *Rendezvous {
	return c.rv
}

// Hooked reports whether the bootstrap hook has fired.
func (c *Coordinator) Hooked() bool {
	return c.hooked.Load()
}
