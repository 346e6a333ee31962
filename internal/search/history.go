package search

import (
	"context"
	"sync"
)

// History is the append-only, ordered log of lookups made through the lazy
// entry points.
//
// Thread-safety: History is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	records []Record
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record appends a lookup.
func (h *History) Record(t SearchType, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, Record{Type: t, Args: args})
}

// Snapshot returns a copy of the records in call order.
func (h *History) Snapshot() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of recorded lookups.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Lookups are the instrumented lazy entry points used by extension
// components. Each call records itself in the history and returns a lazy
// proxy that resolves on first use.
type Lookups struct {
	history  *History
	resolver Resolver
}

// NewLookups creates entry points recording into h and resolving with r.
func NewLookups(h *History, r Resolver) *Lookups {
	return &Lookups{history: h, resolver: r}
}

// lazy wraps a resolver call; resolver errors read as "not found".
func lazy(desc string, call func() (any, error)) *Lazy {
	return NewLazy(desc, func() any {
		v, err := call()
		if err != nil {
			return nil
		}
		return v
	})
}

// FindComponent looks a component up by filter.
func (l *Lookups) FindComponent(filter Filter) *Lazy {
	l.history.Record(TypeFindComponent, filter)
	return lazy(filter.String(), func() (any, error) { return l.resolver.Find(filter) })
}

// FindExportedComponent looks a component up by the props of its module.
func (l *Lookups) FindExportedComponent(props ...string) *Lazy {
	args := stringsToArgs(props)
	l.history.Record(TypeFindExportedComponent, args...)
	return lazy(describe("findExportedComponent", props), func() (any, error) {
		return l.resolver.FindByProps(args...)
	})
}

// FindByPropsLazy looks exports up by props.
func (l *Lookups) FindByPropsLazy(props ...string) *Lazy {
	args := stringsToArgs(props)
	l.history.Record(TypeFindByProps, args...)
	return lazy(describe("findByProps", props), func() (any, error) {
		return l.resolver.FindByProps(args...)
	})
}

// FindByCodeLazy looks a function export up by code markers.
func (l *Lookups) FindByCodeLazy(code ...string) *Lazy {
	args := stringsToArgs(code)
	l.history.Record(TypeFindByCode, args...)
	return lazy(describe("findByCode", code), func() (any, error) {
		return l.resolver.FindByCode(args...)
	})
}

// FindComponentByCode looks a component up by code markers.
func (l *Lookups) FindComponentByCode(code ...string) *Lazy {
	args := stringsToArgs(code)
	l.history.Record(TypeFindComponentByCode, args...)
	return lazy(describe("findComponentByCode", code), func() (any, error) {
		return l.resolver.FindComponentByCode(args...)
	})
}

// FindStoreLazy looks a store up by name.
func (l *Lookups) FindStoreLazy(name string) *Lazy {
	l.history.Record(TypeFindStore, name)
	return lazy(describe("findStore", []string{name}), func() (any, error) {
		return l.resolver.FindStore(name)
	})
}

// WaitFor subscribes to a module by props (string arguments) or by a single
// filter.
func (l *Lookups) WaitFor(args ...any) *Lazy {
	return l.wait(TypeWaitFor, args)
}

// WaitForComponent is WaitFor for components.
func (l *Lookups) WaitForComponent(args ...any) *Lazy {
	return l.wait(TypeWaitForComponent, args)
}

func (l *Lookups) wait(t SearchType, args []any) *Lazy {
	rec := Record{Type: t, Args: args}
	l.history.Record(t, args...)
	method, _ := Normalize(rec)
	return lazy(FormatDiagnostic(rec, method), func() (any, error) {
		if method == MethodFindByProps {
			return l.resolver.FindByProps(args...)
		}
		return l.resolver.Find(args...)
	})
}

// WaitForStore subscribes to a store by name.
func (l *Lookups) WaitForStore(name string) *Lazy {
	l.history.Record(TypeWaitForStore, name)
	return lazy(describe("waitForStore", []string{name}), func() (any, error) {
		return l.resolver.FindStore(name)
	})
}

// ProxyLazy records a lazy proxy factory.
func (l *Lookups) ProxyLazy(factory Factory) *Lazy {
	l.history.Record(TypeProxyLazy, factory)
	return NewLazy(factory.Desc, factory.Fn)
}

// LazyComponent records a lazy component factory.
func (l *Lookups) LazyComponent(factory Factory) *Lazy {
	l.history.Record(TypeLazyComponent, factory)
	return NewLazy(factory.Desc, factory.Fn)
}

// MapMangledModule records a mangled-module mapping.
func (l *Lookups) MapMangledModule(code string, mappers map[string]Filter) *Lazy {
	l.history.Record(TypeMapMangledModule, code, mappers)
	return lazy(describe("mapMangledModule", []string{code}), func() (any, error) {
		return l.resolver.MapMangledModule(code, mappers)
	})
}

// ExtractAndLoadChunks records a chunk extraction and returns a loader for
// it. The loader suspends until the chunks are in.
func (l *Lookups) ExtractAndLoadChunks(code []string, matcher any) func(ctx context.Context) (any, error) {
	l.history.Record(TypeExtractAndLoadChunks, code, matcher)
	return func(ctx context.Context) (any, error) {
		return l.resolver.ExtractAndLoadChunks(ctx, code, matcher)
	}
}

func stringsToArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
