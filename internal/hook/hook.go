// Package hook holds the process-wide named callback slots that the host
// application invokes during its own bootstrap.
//
// A slot is one-shot: it is installed once and fires at most once. A second
// Fire on the same slot is reported, not executed.
package hook

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
)

var (
	// ErrSlotTaken is returned when installing over an existing slot.
	ErrSlotTaken = errors.New("hook slot already installed")

	// ErrNoHook is returned when firing a slot that was never installed.
	ErrNoHook = errors.New("no hook installed")

	// ErrAlreadyFired is returned when a slot is fired a second time.
	ErrAlreadyFired = errors.New("hook already fired")
)

type slot struct {
	fn       func()
	consumed atomic.Bool
}

// Slots is a table of named one-shot callbacks.
//
// Thread-safety: Slots is safe for concurrent use.
type Slots struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewSlots creates an empty slot table.
func NewSlots() *Slots {
	return &Slots{slots: make(map[string]*slot)}
}

// Install registers fn under name.
func (s *Slots) Install(name string, fn func()) error {
	if fn == nil {
		return fmt.Errorf("install %q: nil callback", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[name]; ok {
		return fmt.Errorf("install %q: %w", name, ErrSlotTaken)
	}
	s.slots[name] = &slot{fn: fn}
	return nil
}

// Fire invokes the callback installed under name, exactly once.
// The callback runs on the caller's goroutine.
func (s *Slots) Fire(name string) error {
	s.mu.Lock()
	sl, ok := s.slots[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("fire %q: %w", name, ErrNoHook)
	}
	if !sl.consumed.CompareAndSwap(false, true) {
		return fmt.Errorf("fire %q: %w", name, ErrAlreadyFired)
	}

	sl.fn()
	return nil
}

// Fired reports whether the named slot has been consumed.
func (s *Slots) Fired(name string) bool {
	s.mu.Lock()
	sl, ok := s.slots[name]
	s.mu.Unlock()
	return ok && sl.consumed.Load()
}

// Installed reports whether a slot exists under name.
func (s *Slots) Installed(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[name]
	return ok
}

var callPattern = regexp.MustCompile(`__hooks\.(\w+)\(\);`)

// Call returns the source statement that fires the named slot when the host
// evaluates it.
func Call(name string) string {
	return "__hooks." + name + "();"
}

// Calls returns the slot names invoked by src, in source order.
func Calls(src string) []string {
	var names []string
	for _, m := range callPattern.FindAllStringSubmatch(src, -1) {
		names = append(names, m[1])
	}
	return names
}
