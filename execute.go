package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetch/decode"
	"github.com/adamwoolhether/fetch/session"
	"github.com/adamwoolhether/fetch/wire"
)

// Operation kinds, used as span names, metric labels and log attributes.
const (
	kindFetch      = "fetch"
	kindDownload   = "download"
	kindUpload     = "upload"
	kindUploadFile = "upload_file"
)

// Fetch sends the task's request and decodes the response body with d.
// A completed exchange without a body or metadata fails with
// [ErrMissingResponse].
func Fetch[T any](ctx context.Context, t *Task, d decode.Decoder[T], handler func(Result[T], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindFetch, d.Adapt, func(ctx context.Context, s session.Session, req *wire.Request, _ call, finish func(Result[T], *wire.Response)) session.Task {
		return s.DataTask(ctx, req, func(data []byte, resp *wire.Response, err error) {
			finish(decoded(d, data, resp, err), resp)
		})
	}, handler, opts)
}

// FetchRaw sends the task's request and delivers the body bytes as they
// are. A nil body without an error is a success.
func (t *Task) FetchRaw(ctx context.Context, handler func(Result[[]byte], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindFetch, nil, func(ctx context.Context, s session.Session, req *wire.Request, _ call, finish func(Result[[]byte], *wire.Response)) session.Task {
		return s.DataTask(ctx, req, func(data []byte, resp *wire.Response, err error) {
			finish(optional(data, err), resp)
		})
	}, handler, opts)
}

// Download sends the task's request and stores the response body in a
// file, delivering its location. An empty location without an error is
// a success. Storage options are passed with [WithDownload].
func (t *Task) Download(ctx context.Context, handler func(Result[string], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindDownload, nil, func(ctx context.Context, s session.Session, req *wire.Request, c call, finish func(Result[string], *wire.Response)) session.Task {
		return s.DownloadTask(ctx, req, func(location string, resp *wire.Response, err error) {
			finish(optional(location, err), resp)
		}, c.download...)
	}, handler, opts)
}

// Upload sends data in place of the task's payload and decodes the
// response body with d.
func Upload[T any](ctx context.Context, t *Task, data []byte, d decode.Decoder[T], handler func(Result[T], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindUpload, d.Adapt, func(ctx context.Context, s session.Session, req *wire.Request, _ call, finish func(Result[T], *wire.Response)) session.Task {
		return s.UploadTask(ctx, req, data, func(body []byte, resp *wire.Response, err error) {
			finish(decoded(d, body, resp, err), resp)
		})
	}, handler, opts)
}

// UploadRaw sends data in place of the task's payload and delivers the
// response body bytes as they are.
func (t *Task) UploadRaw(ctx context.Context, data []byte, handler func(Result[[]byte], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindUpload, nil, func(ctx context.Context, s session.Session, req *wire.Request, _ call, finish func(Result[[]byte], *wire.Response)) session.Task {
		return s.UploadTask(ctx, req, data, func(body []byte, resp *wire.Response, err error) {
			finish(optional(body, err), resp)
		})
	}, handler, opts)
}

// UploadFile sends the file at path in place of the task's payload and
// decodes the response body with d.
func UploadFile[T any](ctx context.Context, t *Task, path string, d decode.Decoder[T], handler func(Result[T], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindUploadFile, d.Adapt, func(ctx context.Context, s session.Session, req *wire.Request, _ call, finish func(Result[T], *wire.Response)) session.Task {
		return s.UploadFileTask(ctx, req, path, func(body []byte, resp *wire.Response, err error) {
			finish(decoded(d, body, resp, err), resp)
		})
	}, handler, opts)
}

// UploadFileRaw sends the file at path in place of the task's payload and
// delivers the response body bytes as they are.
func (t *Task) UploadFileRaw(ctx context.Context, path string, handler func(Result[[]byte], *wire.Response), opts ...CallOption) {
	execute(ctx, t, kindUploadFile, nil, func(ctx context.Context, s session.Session, req *wire.Request, _ call, finish func(Result[[]byte], *wire.Response)) session.Task {
		return s.UploadFileTask(ctx, req, path, func(body []byte, resp *wire.Response, err error) {
			finish(optional(body, err), resp)
		})
	}, handler, opts)
}

// starter creates the session task for one operation kind. finish must be
// called exactly once with the projected result.
type starter[T any] func(ctx context.Context, s session.Session, req *wire.Request, c call, finish func(Result[T], *wire.Response)) session.Task

func execute[T any](ctx context.Context, t *Task, kind string, adapt func(wire.Request) wire.Request, start starter[T], handler func(Result[T], *wire.Response), opts []CallOption) {
	c := t.owner()
	snap := t.snapshot()

	cl := call{delivery: c.delivery}
	for _, opt := range opts {
		opt(&cl)
	}

	if handler == nil {
		handler = func(Result[T], *wire.Response) {}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	id := uuid.NewString()
	submitted := time.Now()

	c.background.Execute(func() {
		ctx, span := c.tracer.Start(ctx, "fetch."+kind,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("fetch.task_id", id),
				attribute.String("http.request.method", snap.request.Method),
			),
		)
		done := c.metrics.Start(kind)

		var once sync.Once
		finish := func(res Result[T], resp *wire.Response) {
			once.Do(func() {
				c.complete(ctx, span, id, kind, submitted, done, res.OK(), resp, res.Err())
				cl.delivery.Execute(func() {
					handler(res, resp)
				})
			})
		}

		req, err := snap.build(adapt)
		if err != nil {
			finish(Failure[T](newError(ErrEncode, err)), nil)
			return
		}

		span.SetAttributes(attribute.String("url.full", req.URL))
		c.logger.DebugContext(ctx, "task submitted", slog.String("task_id", id), slog.String("kind", kind), slog.String("method", req.Method))

		start(ctx, c.session, &req, cl, finish).Resume()
	})
}

// optional projects a session outcome whose absence is not a failure.
func optional[V any](v V, err error) Result[V] {
	if err != nil {
		return Failure[V](newError(ErrTransport, err))
	}

	return Success(v)
}

// decoded projects a session outcome through d. Both the body and the
// metadata must be present.
func decoded[T any](d decode.Decoder[T], data []byte, resp *wire.Response, err error) Result[T] {
	if err != nil {
		return Failure[T](newError(ErrTransport, err))
	}
	if data == nil || resp == nil {
		return Failure[T](newError(ErrMissingResponse, nil))
	}

	v, err := d.Decode(resp, data)
	if err != nil {
		return Failure[T](newError(ErrDecode, err))
	}

	return Success(v)
}

func kindOf(err error) string {
	for _, kind := range []error{ErrEncode, ErrDecode, ErrTransport, ErrMissingResponse} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}

	return "failure"
}

// complete ends the span and records the outcome of a task.
func (c *Client) complete(ctx context.Context, span trace.Span, id, kind string, submitted time.Time, done func(bool), ok bool, resp *wire.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	if !ok {
		span.SetStatus(codes.Error, kindOf(err))
	}
	span.End()
	done(ok)

	c.logger.DebugContext(ctx, "task completed", slog.String("task_id", id), slog.String("kind", kind), slog.Bool("ok", ok), slog.Duration("elapsed", time.Since(submitted)))
}
