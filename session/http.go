package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/adamwoolhether/fetch/session/download"
	"github.com/adamwoolhether/fetch/session/throttle"
	"github.com/adamwoolhether/fetch/wire"
)

var errNilRequest = errors.New("request must not be nil")

// HTTP is a [Session] backed by an *http.Client.
type HTTP struct {
	c           *http.Client
	logger      *slog.Logger
	downloadDir string
	propagator  propagation.TextMapPropagator
}

// New builds an HTTP session. Without options it uses a fresh
// [http.Client] over [http.DefaultTransport].
func New(optFns ...Option) (*HTTP, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying session option: %w", err)
		}
	}

	s := &HTTP{
		c:           &http.Client{},
		logger:      slog.Default(),
		downloadDir: opts.downloadDir,
		propagator:  opts.propagator,
	}

	if opts.client != nil {
		cpy := *opts.client
		s.c = &cpy
	}

	if opts.logger != nil {
		s.logger = opts.logger
	}

	if s.propagator == nil {
		s.propagator = otel.GetTextMapPropagator()
	}

	if opts.timeout != nil {
		s.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		s.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case s.c.Transport != nil:
		transport = s.c.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.New(*opts.throttle, func() *slog.Logger { return s.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	s.c.Transport = transport

	return s, nil
}

// DataTask sends req and hands the full response body to done.
func (s *HTTP) DataTask(ctx context.Context, req *wire.Request, done DataHandler) Task {
	r, ok := snapshot(req)

	return TaskFunc(func() {
		if !ok {
			done(nil, nil, errNilRequest)
			return
		}

		httpReq, err := r.HTTP(ctx)
		if err != nil {
			done(nil, nil, err)
			return
		}

		done(s.readAll(httpReq))
	})
}

// UploadTask sends req with data replacing its payload.
func (s *HTTP) UploadTask(ctx context.Context, req *wire.Request, data []byte, done DataHandler) Task {
	r, ok := snapshot(req)

	return TaskFunc(func() {
		if !ok {
			done(nil, nil, errNilRequest)
			return
		}

		httpReq, err := r.WithBody(ctx, data)
		if err != nil {
			done(nil, nil, err)
			return
		}

		done(s.readAll(httpReq))
	})
}

// UploadFileTask sends req with the contents of the file at path replacing
// its payload.
func (s *HTTP) UploadFileTask(ctx context.Context, req *wire.Request, path string, done DataHandler) Task {
	r, ok := snapshot(req)

	return TaskFunc(func() {
		if !ok {
			done(nil, nil, errNilRequest)
			return
		}

		httpReq, err := r.HTTP(ctx)
		if err != nil {
			done(nil, nil, err)
			return
		}

		if err := attachFile(httpReq, path); err != nil {
			done(nil, nil, err)
			return
		}

		done(s.readAll(httpReq))
	})
}

// DownloadTask sends req and stores the response body in the session's
// download directory. done receives the stored file's path.
func (s *HTTP) DownloadTask(ctx context.Context, req *wire.Request, done DownloadHandler, opts ...download.Option) Task {
	r, ok := snapshot(req)

	return TaskFunc(func() {
		if !ok {
			done("", nil, errNilRequest)
			return
		}

		httpReq, err := r.HTTP(ctx)
		if err != nil {
			done("", nil, err)
			return
		}

		resp, err := s.do(httpReq)
		if err != nil {
			done("", nil, fmt.Errorf("exec http do: %w", err))
			return
		}
		defer s.closeBody(resp)

		meta := wire.NewResponse(resp)

		location, err := download.Store(resp.Body, resp.ContentLength, s.downloadDir, s.logger, opts...)
		if err != nil {
			done("", meta, fmt.Errorf("download: %w", err))
			return
		}

		done(location, meta, nil)
	})
}

func (s *HTTP) readAll(req *http.Request) ([]byte, *wire.Response, error) {
	resp, err := s.do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("exec http do: %w", err)
	}
	defer s.closeBody(resp)

	meta := wire.NewResponse(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, meta, fmt.Errorf("reading body: %w", err)
	}

	return body, meta, nil
}

// do sends req carrying the trace context of its own context.
func (s *HTTP) do(req *http.Request) (*http.Response, error) {
	s.propagator.Inject(req.Context(), propagation.HeaderCarrier(req.Header))

	return s.c.Do(req)
}

func (s *HTTP) closeBody(resp *http.Response) {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		s.logger.Error("failed to discard unused body", "error", err)
	}
	if err := resp.Body.Close(); err != nil {
		s.logger.Error("failed to close response body", "error", err)
	}
}

func snapshot(req *wire.Request) (wire.Request, bool) {
	if req == nil {
		return wire.Request{}, false
	}

	return req.Clone(), true
}

func attachFile(req *http.Request, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening upload file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat upload file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return fmt.Errorf("upload file %q is a directory", path)
	}

	req.ContentLength = info.Size()
	req.Body = f
	req.GetBody = func() (io.ReadCloser, error) {
		return os.Open(path)
	}
	if info.Size() == 0 {
		req.Body = http.NoBody
		f.Close()
	}

	return nil
}
