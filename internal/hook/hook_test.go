package hook

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots_FireOnce(t *testing.T) {
	s := NewSlots()
	var calls int
	require.NoError(t, s.Install("initReporter", func() { calls++ }))

	assert.True(t, s.Installed("initReporter"))
	assert.False(t, s.Fired("initReporter"))

	require.NoError(t, s.Fire("initReporter"))
	assert.Equal(t, 1, calls)
	assert.True(t, s.Fired("initReporter"))

	err := s.Fire("initReporter")
	assert.ErrorIs(t, err, ErrAlreadyFired)
	assert.Equal(t, 1, calls, "second fire must not run the callback")
}

func TestSlots_InstallTwice(t *testing.T) {
	s := NewSlots()
	require.NoError(t, s.Install("a", func() {}))
	assert.ErrorIs(t, s.Install("a", func() {}), ErrSlotTaken)
}

func TestSlots_InstallNil(t *testing.T) {
	s := NewSlots()
	assert.Error(t, s.Install("a", nil))
	assert.False(t, s.Installed("a"))
}

func TestSlots_FireMissing(t *testing.T) {
	s := NewSlots()
	assert.ErrorIs(t, s.Fire("missing"), ErrNoHook)
	assert.False(t, s.Fired("missing"))
}

func TestSlots_ConcurrentFire(t *testing.T) {
	s := NewSlots()
	var calls atomic.Int32
	require.NoError(t, s.Install("once", func() { calls.Add(1) }))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Fire("once")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCalls(t *testing.T) {
	src := `"use strict";` + Call("initReporter") + `boot();` + Call("other")
	assert.Equal(t, []string{"initReporter", "other"}, Calls(src))
	assert.Empty(t, Calls(`"use strict";boot();`))
	assert.Equal(t, "__hooks.initReporter();", Call("initReporter"))
}
