// Package pipeline runs one reporter pass against a host application.
//
// A run has two halves. Start emits the start marker and installs the
// bootstrap hook: a rewrite rule that makes the host call back into the
// reporter as the first statement of its entry module. Wait then suspends
// until the hook has fired and every lazy chunk is loaded, reports patches
// that never matched a module, replays the recorded lookup history and
// emits the completion marker.
//
// Anything unexpected that escapes the run is caught once, at the top, and
// reported as a single fatal line in place of the completion marker.
// Cancelling the context passed to Wait is the only way to abandon a run
// that never resolves; it emits neither line.
package pipeline
