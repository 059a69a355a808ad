package fetch_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/adamwoolhether/fetch"
	"github.com/adamwoolhether/fetch/dispatch"
	"github.com/adamwoolhether/fetch/session"
	"github.com/adamwoolhether/fetch/session/download"
	"github.com/adamwoolhether/fetch/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSession records the requests it receives and completes every task
// with the configured outcome.
type fakeSession struct {
	data     []byte
	location string
	resp     *wire.Response
	err      error

	mu      sync.Mutex
	calls   int
	last    wire.Request
	payload []byte
	path    string
	dlOpts  int
}

func (f *fakeSession) record(req *wire.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.last = req.Clone()
}

func (f *fakeSession) snapshot() (int, wire.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls, f.last
}

func (f *fakeSession) DataTask(_ context.Context, req *wire.Request, done session.DataHandler) session.Task {
	f.record(req)
	return session.TaskFunc(func() { done(f.data, f.resp, f.err) })
}

func (f *fakeSession) DownloadTask(_ context.Context, req *wire.Request, done session.DownloadHandler, opts ...download.Option) session.Task {
	f.record(req)
	f.mu.Lock()
	f.dlOpts = len(opts)
	f.mu.Unlock()

	return session.TaskFunc(func() { done(f.location, f.resp, f.err) })
}

func (f *fakeSession) UploadTask(_ context.Context, req *wire.Request, data []byte, done session.DataHandler) session.Task {
	f.record(req)
	f.mu.Lock()
	f.payload = data
	f.mu.Unlock()

	return session.TaskFunc(func() { done(f.data, f.resp, f.err) })
}

func (f *fakeSession) UploadFileTask(_ context.Context, req *wire.Request, path string, done session.DataHandler) session.Task {
	f.record(req)
	f.mu.Lock()
	f.path = path
	f.mu.Unlock()

	return session.TaskFunc(func() { done(f.data, f.resp, f.err) })
}

type delivery[T any] struct {
	res  fetch.Result[T]
	resp *wire.Response
}

// await returns a handler and a function blocking until the handler ran.
func await[T any](t *testing.T) (func(fetch.Result[T], *wire.Response), func() delivery[T]) {
	t.Helper()

	ch := make(chan delivery[T], 1)
	handler := func(res fetch.Result[T], resp *wire.Response) {
		ch <- delivery[T]{res: res, resp: resp}
	}
	wait := func() delivery[T] {
		t.Helper()

		select {
		case d := <-ch:
			return d
		case <-time.After(5 * time.Second):
			t.Fatal("handler was not called")
			return delivery[T]{}
		}
	}

	return handler, wait
}

func newClient(t *testing.T, s session.Session, opts ...fetch.Option) *fetch.Client {
	t.Helper()

	q := dispatch.NewQueue()
	t.Cleanup(q.Close)

	base := []fetch.Option{
		fetch.WithLogger(discardLogger()),
		fetch.WithDelivery(q),
	}
	if s != nil {
		base = append(base, fetch.WithSession(s))
	}

	c, err := fetch.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	return c
}
