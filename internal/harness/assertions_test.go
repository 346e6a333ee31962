package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedResult() *Result {
	r := NewResult()
	r.Completed = true
	r.Lines = []string{"INFO [Reporter] Starting test...", "INFO [Reporter] Finished test"}
	return r
}

func TestEvaluateExpectations_DefaultsToCleanCompletion(t *testing.T) {
	assert.Empty(t, EvaluateExpectations(completedResult(), Expect{}))
}

func TestEvaluateExpectations_Completion(t *testing.T) {
	r := NewResult()
	errs := EvaluateExpectations(r, Expect{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: completion")
	assert.Contains(t, errs[0], "Expected: completion marker emitted")
	assert.Contains(t, errs[0], "Actual: no completion marker")

	no := false
	assert.Empty(t, EvaluateExpectations(r, Expect{Completes: &no}))
}

func TestEvaluateExpectations_Fatal(t *testing.T) {
	r := NewResult()
	r.Fatal = "wait: lazy chunk loading failed: chunk vendor: network error"

	assert.Empty(t, EvaluateExpectations(r, Expect{Fatal: "network error"}))

	errs := EvaluateExpectations(r, Expect{Fatal: "timeout"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `fatal error containing "timeout"`)

	errs = EvaluateExpectations(completedResult(), Expect{Fatal: "timeout"})
	require.Len(t, errs, 2, "a fatal expectation implies no completion")
}

func TestEvaluateExpectations_UnexpectedFatal(t *testing.T) {
	r := NewResult()
	r.Fatal = "inject: hook slot taken"
	no := false

	errs := EvaluateExpectations(r, Expect{Completes: &no})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: no fatal error")
}

func TestEvaluateExpectations_ListsAreOrdered(t *testing.T) {
	r := completedResult()
	r.UnmatchedPatches = []string{"B", "A"}
	r.Failures = []string{`findStore("X")`}

	errs := EvaluateExpectations(r, Expect{
		UnmatchedPatches: []string{"A", "B"},
		Failures:         []string{`findStore("X")`},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: unmatched_patches")
	assert.Contains(t, errs[0], `Expected: ["A", "B"]`)
	assert.Contains(t, errs[0], `Actual: ["B", "A"]`)
}

func TestEvaluateExpectations_Lines(t *testing.T) {
	r := completedResult()

	assert.Empty(t, EvaluateExpectations(r, Expect{Lines: r.Lines}))

	errs := EvaluateExpectations(r, Expect{Lines: []string{"INFO [Reporter] Starting test..."}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: lines")
}

func TestAssertionError_IncludesLog(t *testing.T) {
	err := &AssertionError{
		Type:     ExpectFailures,
		Expected: "[]",
		Actual:   `["findByProps(\"a\")"]`,
		Lines:    []string{"INFO [Reporter] Starting test...", `WARN [Reporter] Webpack Find Fail: findByProps("a")`},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Diagnostic log:")
	assert.Contains(t, msg, "  [1] INFO [Reporter] Starting test...")
	assert.Contains(t, msg, `  [2] WARN [Reporter] Webpack Find Fail: findByProps("a")`)
}
