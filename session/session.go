// Package session is the transport collaborator of the task executor. A
// [Session] turns a fully built [wire.Request] into a network exchange and
// reports the outcome through a completion handler.
//
// Tasks start lazily: nothing is sent until [Task.Resume] is called, and
// the handler then runs exactly once on a goroutine owned by the session.
//
// [HTTP] is the default implementation over an *http.Client:
//
//	s, err := session.New(
//		session.WithTimeout(10*time.Second),
//		session.WithThrottle(5, 10),
//	)
package session

import (
	"context"

	"github.com/adamwoolhether/fetch/session/download"
	"github.com/adamwoolhether/fetch/wire"
)

// DataHandler receives the body bytes (nil when absent), the response
// metadata (nil when absent) and the transport error, if any.
type DataHandler func(data []byte, resp *wire.Response, err error)

// DownloadHandler receives the location of the stored file ("" when
// absent), the response metadata and the transport error, if any.
type DownloadHandler func(location string, resp *wire.Response, err error)

// Task is a lazily started exchange.
type Task interface {
	// Resume starts the exchange. Calls after the first are no-ops.
	Resume()
}

// Session creates transport tasks. Implementations must be safe for
// concurrent use. The request is copied when the task is created.
type Session interface {
	DataTask(ctx context.Context, req *wire.Request, done DataHandler) Task
	DownloadTask(ctx context.Context, req *wire.Request, done DownloadHandler, opts ...download.Option) Task
	UploadTask(ctx context.Context, req *wire.Request, data []byte, done DataHandler) Task
	UploadFileTask(ctx context.Context, req *wire.Request, path string, done DataHandler) Task
}

// TaskFunc adapts a function to the [Task] interface. Resume runs the
// function on a new goroutine at most once.
func TaskFunc(fn func()) Task {
	return &lazyTask{fn: fn}
}
