// Package report writes the operator-facing diagnostic lines of a reporter
// run. It holds no state; every method emits exactly one log record.
package report

import (
	"log/slog"

	"github.com/roach88/reporter/internal/intercept"
	"github.com/roach88/reporter/internal/logging"
	"github.com/roach88/reporter/internal/search"
)

// Tags used on diagnostic lines.
const (
	TagReporter    = "Reporter"
	TagInterceptor = "WebpackInterceptor"
)

// Diagnostic messages.
const (
	MsgStart    = "Starting test..."
	MsgFinished = "Finished test"
)

// Reporter emits diagnostic lines to a logger.
type Reporter struct {
	reporter    *slog.Logger
	interceptor *slog.Logger
}

// New creates a reporter writing to logger.
func New(logger *slog.Logger) *Reporter {
	return &Reporter{
		reporter:    logging.Tagged(logger, TagReporter),
		interceptor: logging.Tagged(logger, TagInterceptor),
	}
}

// Start emits the start marker.
func (r *Reporter) Start() {
	r.reporter.Info(MsgStart)
}

// UnmatchedPatch emits one warning naming the patch owner and its find.
func (r *Reporter) UnmatchedPatch(p intercept.PatchRecord) {
	r.interceptor.Warn("Patch by "+p.Owner+" found no module (Module id is -): "+p.Find,
		"owner", p.Owner,
	)
}

// SearchFailure emits one warning for a failed lookup.
func (r *Reporter) SearchFailure(o search.Outcome) {
	attrs := []any{
		"index", o.Index,
		"status", o.Status.String(),
	}
	if o.Err != nil {
		attrs = append(attrs, "error", o.Err)
	}
	r.reporter.Warn("Webpack Find Fail: "+o.Diagnostic(), attrs...)
}

// Finished emits the completion marker.
func (r *Reporter) Finished() {
	r.reporter.Info(MsgFinished)
}

// Fatal emits the single fatal line that replaces the completion marker.
func (r *Reporter) Fatal(err error) {
	r.reporter.Error("A fatal error occurred: "+err.Error(), "error", err)
}
