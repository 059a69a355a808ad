package fetch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetch/dispatch"
	"github.com/adamwoolhether/fetch/internal/metrics"
	"github.com/adamwoolhether/fetch/session"
	"github.com/adamwoolhether/fetch/wire"
)

const instrumentationName = "github.com/adamwoolhether/fetch"

// Client creates tasks bound to a session and executes them. It is safe
// for concurrent use.
type Client struct {
	session    session.Session
	delivery   dispatch.Executor
	background dispatch.Executor
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *metrics.Metrics
}

// New builds a Client. Without options it uses an HTTP session over a
// fresh *http.Client, builds tasks on [dispatch.Background] and delivers
// results on [dispatch.Main].
func New(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	c := &Client{
		session:    opts.session,
		delivery:   opts.delivery,
		background: opts.background,
		logger:     opts.logger,
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.delivery == nil {
		c.delivery = dispatch.Main()
	}
	if c.background == nil {
		c.background = dispatch.Background()
	}

	switch {
	case c.session != nil && len(opts.sessionOpts) > 0:
		return nil, errors.New("session options cannot be combined with a custom session")
	case c.session == nil:
		sessionOpts := append([]session.Option{session.WithLogger(c.logger)}, opts.sessionOpts...)
		s, err := session.New(sessionOpts...)
		if err != nil {
			return nil, fmt.Errorf("building session: %w", err)
		}
		c.session = s
	}

	tp := opts.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c.tracer = tp.Tracer(instrumentationName)

	if opts.registerer != nil {
		m, err := metrics.New(opts.registerer)
		if err != nil {
			return nil, fmt.Errorf("configuring metrics: %w", err)
		}
		c.metrics = m
	}

	return c, nil
}

// Request returns a task targeting target with method GET, adjusted by opts.
func (c *Client) Request(target string, opts ...RequestOption) *Task {
	return c.RequestFrom(wire.NewRequest(MethodGet, target), opts...)
}

// RequestFrom returns a task using a copy of req as its template.
func (c *Client) RequestFrom(req wire.Request, opts ...RequestOption) *Task {
	t := &Task{
		Request: req.Clone(),
		client:  c,
	}
	if t.Request.Method == "" {
		t.Request.Method = MethodGet
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

var defaultClient atomic.Pointer[Client]

// Default returns the process-wide client, creating it on first use.
func Default() *Client {
	for {
		if c := defaultClient.Load(); c != nil {
			return c
		}

		c, err := New()
		if err != nil {
			panic(fmt.Sprintf("fetch: building default client: %v", err))
		}
		if defaultClient.CompareAndSwap(nil, c) {
			return c
		}
	}
}

// SetDefault replaces the process-wide client. Passing nil restores a
// lazily created default.
func SetDefault(c *Client) {
	defaultClient.Store(c)
}

// Request returns a task on the [Default] client.
func Request(target string, opts ...RequestOption) *Task {
	return Default().Request(target, opts...)
}

// RequestFrom returns a task on the [Default] client using a copy of req.
func RequestFrom(req wire.Request, opts ...RequestOption) *Task {
	return Default().RequestFrom(req, opts...)
}
