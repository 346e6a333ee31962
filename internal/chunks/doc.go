// Package chunks coordinates the one-time lazy-chunk load that must finish
// before recorded searches can be replayed.
//
// The hand-off happens in two explicit stages:
//
//  1. The bootstrap hook (Coordinator.Hook) runs synchronously inside the
//     host's bootstrap task. It only posts a follow-up task to the host's
//     scheduler, so nothing starts until the host has finished wiring its
//     own module graph.
//  2. That follow-up task starts the lazy-chunk loader. When the loader
//     reports completion on its channel the Rendezvous is resolved.
//
// The pipeline suspends in Rendezvous.Wait. There is no timeout: if the host
// never fires the hook, or the loader never completes, Wait blocks until its
// context is cancelled.
package chunks
