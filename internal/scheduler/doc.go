// Package scheduler implements the host's cooperative task loop.
//
// The host application runs every unit of work (bootstrap, deferred
// callbacks, chunk loading steps) as a Task on a single goroutine, in FIFO
// order. Posting a task from inside a running task defers it until the
// current task returns, which is how "run on the next turn" is expressed.
//
// Single-Writer Loop:
// Loop.Run must be called from exactly one goroutine. Post is safe from any
// goroutine. A panicking task is logged and the loop continues with the next
// task.
package scheduler
