package hostsim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/reporter/internal/hook"
	"github.com/roach88/reporter/internal/intercept"
	"github.com/roach88/reporter/internal/logging"
)

// ErrLoopClosed is returned when the host scheduler no longer accepts tasks.
var ErrLoopClosed = errors.New("host scheduler closed")

// Poster is the host's cooperative scheduler.
type Poster interface {
	Post(name string, fn func(ctx context.Context)) bool
}

// ChunkError reports a chunk that failed to load.
type ChunkError struct {
	Chunk   string
	Message string
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %s: %s", e.Chunk, e.Message)
}

// loadedModule is a registered module with its rewritten source.
type loadedModule struct {
	id      string
	source  string
	exports []namedValue
}

type namedValue struct {
	name  string
	value any
}

// object returns the module's export object: export name to value.
func (m *loadedModule) object() map[string]any {
	obj := make(map[string]any, len(m.exports))
	for _, e := range m.exports {
		obj[e.name] = e.value
	}
	return obj
}

// Host is a simulated host application.
//
// Thread-safety: module registration happens on the scheduler loop; reads
// through the resolver may come from any goroutine.
type Host struct {
	bundle      *Bundle
	loop        Poster
	interceptor *intercept.Interceptor
	slots       *hook.Slots
	logger      *slog.Logger

	mu      sync.RWMutex
	modules []*loadedModule
	chunks  map[string]bool
	booted  bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger for host progress.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// New creates a host that has not booted yet.
func New(bundle *Bundle, loop Poster, interceptor *intercept.Interceptor, slots *hook.Slots, opts ...Option) *Host {
	h := &Host{
		bundle:      bundle,
		loop:        loop,
		interceptor: interceptor,
		slots:       slots,
		chunks:      make(map[string]bool),
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Boot schedules the host bootstrap: every eager module is registered, then
// the entry module is evaluated, firing any hook call its rewritten source
// contains. Boot returns once the task is queued.
func (h *Host) Boot() error {
	if !h.loop.Post("host: bootstrap", h.bootstrap) {
		return ErrLoopClosed
	}
	return nil
}

func (h *Host) bootstrap(context.Context) {
	h.logger.Debug("host bootstrap starting", "entry", h.bundle.Entry)

	var entry *loadedModule
	for _, m := range h.bundle.Modules {
		if m.Chunk != "" {
			continue
		}
		lm := h.register(m)
		if m.ID == h.bundle.Entry {
			entry = lm
		}
	}

	h.mu.Lock()
	h.booted = true
	h.mu.Unlock()

	if entry == nil {
		h.logger.Warn("entry module missing from bootstrap", "entry", h.bundle.Entry)
		return
	}
	for _, name := range hook.Calls(entry.source) {
		if err := h.slots.Fire(name); err != nil {
			h.logger.Warn("hook call failed", "hook", name, "error", err)
		}
	}
	h.logger.Debug("host bootstrap finished", "modules", h.ModuleCount())
}

// register rewrites a module through the interceptor and adds it to the
// registry.
func (h *Host) register(m Module) *loadedModule {
	lm := &loadedModule{
		id:     m.ID,
		source: h.interceptor.Rewrite(m.ID, m.Source),
	}
	for _, e := range m.Exports {
		lm.exports = append(lm.exports, namedValue{name: e.Name, value: e.Value()})
	}

	h.mu.Lock()
	h.modules = append(h.modules, lm)
	h.mu.Unlock()
	return lm
}

// LoadLazyChunks loads every lazy chunk that is not loaded yet, in bundle
// order. It implements the lazy-chunk loader.
func (h *Host) LoadLazyChunks(ctx context.Context) error {
	for _, id := range h.bundle.LazyChunks() {
		if err := h.LoadChunk(ctx, id); err != nil {
			return err
		}
	}
	h.logger.Debug("lazy chunks loaded", "modules", h.ModuleCount())
	return nil
}

// LoadChunk loads one chunk on the host loop and waits for it.
// Loading an already loaded chunk is a no-op.
func (h *Host) LoadChunk(ctx context.Context, id string) error {
	if h.ChunkLoaded(id) {
		return nil
	}
	if c, ok := h.bundle.Chunks[id]; ok && c.Fail != "" {
		return &ChunkError{Chunk: id, Message: c.Fail}
	}

	done := make(chan struct{})
	posted := h.loop.Post("host: load chunk "+id, func(context.Context) {
		defer close(done)
		h.loadChunk(id)
	})
	if !posted {
		return ErrLoopClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) loadChunk(id string) {
	h.mu.Lock()
	if h.chunks[id] {
		h.mu.Unlock()
		return
	}
	h.chunks[id] = true
	h.mu.Unlock()

	n := 0
	for _, m := range h.bundle.Modules {
		if m.Chunk == id {
			h.register(m)
			n++
		}
	}
	h.logger.Debug("chunk loaded", "chunk", id, "modules", n)
}

// ChunkLoaded reports whether a chunk has been loaded.
func (h *Host) ChunkLoaded(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.chunks[id]
}

// Booted reports whether the bootstrap task has run.
func (h *Host) Booted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.booted
}

// ModuleCount returns the number of registered modules.
func (h *Host) ModuleCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.modules)
}

// Source returns the registered (rewritten) source of a module.
func (h *Host) Source(id string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, m := range h.modules {
		if m.id == id {
			return m.source, true
		}
	}
	return "", false
}

// snapshot returns the registered modules in registration order.
func (h *Host) snapshot() []*loadedModule {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*loadedModule(nil), h.modules...)
}

// Resolver returns a resolver over the host's registered modules.
func (h *Host) Resolver() *Resolver {
	return &Resolver{host: h}
}
