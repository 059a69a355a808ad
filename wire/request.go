// Package wire holds the request and response values that flow between
// encoders, decoders, the task executor and the transport session.
package wire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Request is the wire-ready description of a single HTTP request as it is
// progressively assembled. The URL is kept as a string so that a target
// which does not parse can still travel through the pipeline; it is only
// rejected when the transport builds the *http.Request.
//
// Transformations never mutate a Request they receive: they Clone it first.
type Request struct {
	URL    string
	Method string
	Header http.Header

	// Body is the outgoing payload. A nil Body means no payload.
	Body []byte
}

// NewRequest returns a Request for target with an empty header set.
// An empty method is treated as GET.
func NewRequest(method, target string) Request {
	if method == "" {
		method = http.MethodGet
	}

	return Request{
		URL:    target,
		Method: method,
		Header: http.Header{},
	}
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	cpy := r
	cpy.Header = r.Header.Clone()
	if cpy.Header == nil {
		cpy.Header = http.Header{}
	}
	if r.Body != nil {
		cpy.Body = bytes.Clone(r.Body)
	}

	return cpy
}

// SetHeaderIfAbsent returns a copy of r with the header key set to value,
// unless r already carries key, even with an empty value.
func (r Request) SetHeaderIfAbsent(key, value string) Request {
	if _, ok := r.Header[http.CanonicalHeaderKey(key)]; ok {
		return r
	}

	cpy := r.Clone()
	cpy.Header.Set(key, value)

	return cpy
}

// HTTP builds the *http.Request for r, bound to ctx.
func (r Request) HTTP(ctx context.Context) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range r.Header {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	if r.Body != nil {
		setBody(req, r.Body)
	}

	return req, nil
}

// WithBody returns r's *http.Request form with body replacing any payload.
func (r Request) WithBody(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := r.HTTP(ctx)
	if err != nil {
		return nil, err
	}
	setBody(req, body)

	return req, nil
}

func setBody(req *http.Request, body []byte) {
	req.ContentLength = int64(len(body))
	if len(body) == 0 {
		req.Body = http.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		return
	}

	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}
