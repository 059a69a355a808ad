// Package throttle provides an [http.RoundTripper] that rate-limits the
// requests a session sends, using the token bucket of
// [golang.org/x/time/rate].
//
// When the bucket is empty, a request waits for a token or for its
// context to end, whichever comes first.
package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config sets the sustained requests per second and the burst capacity.
type Config struct {
	RPS   int
	Burst int
}

// Validate reports whether both limits are positive.
func (c Config) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

type roundTripper struct {
	cfg     Config
	limiter *rate.Limiter
	next    http.RoundTripper
	logger  func() *slog.Logger
}

// New wraps next with a limiter configured by cfg. logger is resolved on
// every throttled request; when it returns nil nothing is logged.
func New(cfg Config, logger func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = func() *slog.Logger { return nil }
	}

	return &roundTripper{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		next:    next,
		logger:  logger,
	}, nil
}

func (t *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	reservation := t.limiter.Reserve()
	if !reservation.OK() {
		return nil, fmt.Errorf("%w: burst %d exceeded", ErrWaitingFailed, t.cfg.Burst)
	}

	delay := reservation.Delay()
	if delay == 0 {
		return t.next.RoundTrip(r)
	}

	logger := t.logger()
	if logger != nil {
		logger.Info("request throttled", "method", r.Method, "host", r.URL.Host, "delay", delay.Round(time.Millisecond).String(), "rate", t.cfg.RPS, "burst", t.cfg.Burst)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		reservation.Cancel()
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, ctx.Err())
	}

	return t.next.RoundTrip(r)
}
