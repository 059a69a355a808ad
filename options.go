package fetch

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetch/dispatch"
	"github.com/adamwoolhether/fetch/session"
	"github.com/adamwoolhether/fetch/session/download"
)

// Option is a functional option for configuring a [Client] via [New].
type Option func(*options) error

type options struct {
	session        session.Session
	sessionOpts    []session.Option
	delivery       dispatch.Executor
	background     dispatch.Executor
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	registerer     prometheus.Registerer
}

// WithSession replaces the default HTTP session.
func WithSession(s session.Session) Option {
	return func(o *options) error {
		if s == nil {
			return errors.New("session must not be nil")
		}
		o.session = s
		return nil
	}
}

// WithSessionOptions configures the default HTTP session. It cannot be
// combined with [WithSession].
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *options) error {
		o.sessionOpts = append(o.sessionOpts, opts...)
		return nil
	}
}

// WithDelivery sets the executor results are delivered on when a call
// does not choose one with [On]. The default is [dispatch.Main].
func WithDelivery(e dispatch.Executor) Option {
	return func(o *options) error {
		if e == nil {
			return errors.New("delivery executor must not be nil")
		}
		o.delivery = e
		return nil
	}
}

// WithWorkers bounds how many tasks are built and submitted at once.
// The default is the unbounded [dispatch.Background] pool.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.New("workers must be greater than zero")
		}
		o.background = dispatch.NewPool(n)
		return nil
	}
}

// WithBackground sets the executor tasks are built and submitted on.
func WithBackground(e dispatch.Executor) Option {
	return func(o *options) error {
		if e == nil {
			return errors.New("background executor must not be nil")
		}
		o.background = e
		return nil
	}
}

// WithLogger injects a custom [slog.Logger]. It is shared with the
// default session.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracerProvider sets the provider task spans are created from.
// The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithMetrics records task metrics in reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		return nil
	}
}

// CallOption configures a single operation.
type CallOption func(*call)

type call struct {
	delivery dispatch.Executor
	download []download.Option
}

// On delivers the result of this call on e.
func On(e dispatch.Executor) CallOption {
	return func(c *call) {
		if e != nil {
			c.delivery = e
		}
	}
}

// WithDownload passes storage options to a download operation.
func WithDownload(opts ...download.Option) CallOption {
	return func(c *call) {
		c.download = append(c.download, opts...)
	}
}
