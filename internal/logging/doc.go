// Package logging configures the process logger and provides Recorder, an
// slog.Handler that keeps every record so the diagnostic stream can be
// inspected by tests, the scenario harness and golden snapshots.
//
// Diagnostic lines are ordinary slog records carrying a "tag" attribute
// (for example "Reporter" or "WebpackInterceptor"). Records without a tag are
// internal progress logs and are left out of Recorder.Lines.
package logging
