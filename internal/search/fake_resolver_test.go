package search

import (
	"context"
	"sync"
)

// call captures one resolver invocation.
type call struct {
	Method string
	Args   []any
}

// fakeResolver records calls and answers from per-method result functions.
type fakeResolver struct {
	mu      sync.Mutex
	calls   []call
	results map[string]func(args []any) (any, error)
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{results: make(map[string]func(args []any) (any, error))}
}

// on sets the answer for a method.
func (f *fakeResolver) on(method string, fn func(args []any) (any, error)) *fakeResolver {
	f.results[method] = fn
	return f
}

// returns sets a fixed answer for a method.
func (f *fakeResolver) returns(method string, v any, err error) *fakeResolver {
	return f.on(method, func([]any) (any, error) { return v, err })
}

func (f *fakeResolver) answer(method string, args []any) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Args: args})
	fn := f.results[method]
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(args)
}

func (f *fakeResolver) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeResolver) Find(args ...any) (any, error) { return f.answer("find", args) }
func (f *fakeResolver) FindByProps(args ...any) (any, error) { return f.answer("findByProps", args) }
func (f *fakeResolver) FindByCode(args ...any) (any, error) { return f.answer("findByCode", args) }
func (f *fakeResolver) FindStore(args ...any) (any, error) { return f.answer("findStore", args) }
func (f *fakeResolver) FindComponentByCode(args ...any) (any, error) {
	return f.answer("findComponentByCode", args)
}
func (f *fakeResolver) MapMangledModule(args ...any) (any, error) {
	return f.answer("mapMangledModule", args)
}
func (f *fakeResolver) ExtractAndLoadChunks(_ context.Context, code, matcher any) (any, error) {
	return f.answer("extractAndLoadChunks", []any{code, matcher})
}
