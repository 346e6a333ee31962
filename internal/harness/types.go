package harness

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates every expectation held.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	// Completed is true when the completion marker was emitted.
	Completed bool `json:"completed"`

	// Fatal is the fatal error of an aborted run, if any.
	Fatal string `json:"fatal,omitempty"`

	// Lines is the diagnostic log, rendered as "LEVEL [tag] message".
	Lines []string `json:"lines"`

	// UnmatchedPatches lists the owners of patches that matched no module.
	UnmatchedPatches []string `json:"unmatched_patches,omitempty"`

	// Failures lists the diagnostics of failed lookups, in replay order.
	Failures []string `json:"failures,omitempty"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Lines:  []string{},
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
