package harness

import (
	"fmt"
	"slices"
	"strings"
)

// Expectation kinds used in AssertionError.Type.
const (
	ExpectCompletion = "completion"
	ExpectFatal      = "fatal"
	ExpectUnmatched  = "unmatched_patches"
	ExpectFailures   = "failures"
	ExpectLines      = "lines"
)

// AssertionError is an expectation that did not hold.
// It includes the diagnostic log to help debug the failure.
type AssertionError struct {
	Type     string   // Expectation kind
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Lines    []string // Full diagnostic log for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nDiagnostic log:\n")
	for i, line := range e.Lines {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
	}
	return buf.String()
}

// EvaluateExpectations checks a result against a scenario's expectations and
// returns one message per failed expectation.
func EvaluateExpectations(result *Result, expect Expect) []string {
	var errs []string
	fail := func(kind, expected, actual string) {
		err := &AssertionError{Type: kind, Expected: expected, Actual: actual, Lines: result.Lines}
		errs = append(errs, err.Error())
	}

	if want := expect.ShouldComplete(); want != result.Completed {
		fail(ExpectCompletion, describeCompletion(want), describeCompletion(result.Completed))
	}

	switch {
	case expect.Fatal != "" && !strings.Contains(result.Fatal, expect.Fatal):
		fail(ExpectFatal, fmt.Sprintf("fatal error containing %q", expect.Fatal), describeFatal(result.Fatal))
	case expect.Fatal == "" && result.Fatal != "":
		fail(ExpectFatal, "no fatal error", describeFatal(result.Fatal))
	}

	if !equalLists(expect.UnmatchedPatches, result.UnmatchedPatches) {
		fail(ExpectUnmatched, describeList(expect.UnmatchedPatches), describeList(result.UnmatchedPatches))
	}
	if !equalLists(expect.Failures, result.Failures) {
		fail(ExpectFailures, describeList(expect.Failures), describeList(result.Failures))
	}
	if expect.Lines != nil && !equalLists(expect.Lines, result.Lines) {
		fail(ExpectLines, describeList(expect.Lines), describeList(result.Lines))
	}
	return errs
}

// equalLists compares in order; nil and empty are equal.
func equalLists(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}

func describeCompletion(completed bool) string {
	if completed {
		return "completion marker emitted"
	}
	return "no completion marker"
}

func describeFatal(fatal string) string {
	if fatal == "" {
		return "no fatal error"
	}
	return fmt.Sprintf("fatal error %q", fatal)
}

func describeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
