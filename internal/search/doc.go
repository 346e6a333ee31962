// Package search replays the module lookups recorded by the extension layer
// and classifies each one.
//
// Every lookup the extension layer performs through its lazy entry points
// (findComponent, waitForStore, proxyLazyWebpack, ...) is appended to a
// History in call order. Once the host's module graph is fully loaded the
// Engine walks that history, in order and one record at a time:
//
//  1. Normalize maps the recorded search type onto a closed Method enum.
//     Unknown search types are rejected rather than called by name.
//  2. The method is dispatched to the Resolver (or, for the factory
//     variants, the captured factory is invoked).
//  3. The result is classified as Success, NotFound or Errored. A result that
//     exposes a liveness accessor (LazyTarget) must also resolve to a
//     non-nil target.
//
// Classification is decoupled from logging: Replay returns one Outcome per
// record and callers decide what to print. Failed outcomes render their
// operator-facing text with Outcome.Diagnostic.
package search
