package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/roach88/reporter/internal/hook"
	"github.com/roach88/reporter/internal/intercept"
	"github.com/roach88/reporter/internal/scheduler"
	"github.com/roach88/reporter/internal/search"
)

const entrySource = `"use strict";function mount(){if(!el)throw new Error("Could not find app-mount")}`

// testHost is a minimal host: a scheduler loop, a patch interceptor, hook
// slots, and an entry module that is rewritten and evaluated on boot.
type testHost struct {
	loop    *scheduler.Loop
	patches *intercept.Interceptor
	slots   *hook.Slots
	history *search.History
	entry   string

	mu     sync.Mutex
	events []string
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()

	h := &testHost{
		loop:    scheduler.NewLoop(),
		patches: intercept.New(),
		slots:   hook.NewSlots(),
		history: search.NewHistory(),
		entry:   entrySource,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func (h *testHost) event(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *testHost) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

// boot evaluates the entry module on the host loop, firing any hook call
// the rewrite inserted.
func (h *testHost) boot() {
	h.loop.Post("host: bootstrap", func(context.Context) {
		src := h.patches.Rewrite("entry", h.entry)
		for _, name := range hook.Calls(src) {
			_ = h.slots.Fire(name)
		}
		h.event("bootstrap finished")
	})
}

// stubResolver answers each method with a fixed value.
type stubResolver struct {
	mu      sync.Mutex
	answers map[string]any
	calls   []string
}

func newStubResolver(answers map[string]any) *stubResolver {
	return &stubResolver{answers: answers}
}

func (r *stubResolver) answer(method string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, method)
	if err, ok := r.answers[method].(error); ok {
		return nil, err
	}
	return r.answers[method], nil
}

func (r *stubResolver) called() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *stubResolver) Find(...any) (any, error) { return r.answer("find") }
func (r *stubResolver) FindByProps(...any) (any, error) { return r.answer("findByProps") }
func (r *stubResolver) FindByCode(...any) (any, error) { return r.answer("findByCode") }
func (r *stubResolver) FindStore(...any) (any, error) { return r.answer("findStore") }
func (r *stubResolver) FindComponentByCode(...any) (any, error) {
	return r.answer("findComponentByCode")
}
func (r *stubResolver) MapMangledModule(...any) (any, error) { return r.answer("mapMangledModule") }
func (r *stubResolver) ExtractAndLoadChunks(context.Context, any, any) (any, error) {
	return r.answer("extractAndLoadChunks")
}
