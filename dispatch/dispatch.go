// Package dispatch provides the execution contexts tasks run on: a
// background [Pool] where requests are built and submitted, and serial
// [Queue]s onto which results are delivered.
//
// # Delivery
//
// A [Queue] runs submitted functions one at a time, in submission order,
// on its own goroutine. [Main] is the process-wide default delivery queue:
//
//	fetch.Fetch(ctx, task, decode.Text(nil), handler) // delivered on dispatch.Main()
//
//	ui := dispatch.NewQueue()
//	defer ui.Close()
//	fetch.Fetch(ctx, task, decode.Text(nil), handler, fetch.On(ui))
//
// # Background work
//
// A [Pool] runs each submitted function on its own goroutine, bounded by
// an optional concurrency limit. [Background] is the unbounded default.
package dispatch

import "sync"

// Executor runs functions asynchronously. Execute must not run fn on the
// calling goroutine before returning.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts an ordinary function to the [Executor] interface.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

var (
	mainOnce  sync.Once
	mainQueue mainExecutor

	backgroundOnce sync.Once
	backgroundPool *Pool
)

// Main returns the process-wide delivery queue. It is created on first use
// and lives for the duration of the process; it cannot be closed.
func Main() Executor {
	mainOnce.Do(func() {
		mainQueue = mainExecutor{q: NewQueue()}
	})

	return mainQueue
}

// mainExecutor exposes only Execute of the process-wide queue.
type mainExecutor struct {
	q *Queue
}

func (m mainExecutor) Execute(fn func()) {
	m.q.Execute(fn)
}

// Background returns the process-wide unbounded pool used to build and
// submit requests. It is created on first use and lives for the duration
// of the process.
func Background() *Pool {
	backgroundOnce.Do(func() {
		backgroundPool = NewPool(0)
	})

	return backgroundPool
}
