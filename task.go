package fetch

import (
	"net/http"

	"github.com/adamwoolhether/fetch/encode"
	"github.com/adamwoolhether/fetch/wire"
)

// Task is a declarative request. Its fields may be changed freely between
// operations: each operation copies the task when it is called.
//
// A Task not created by a [Client] runs on the [Default] client.
type Task struct {
	// Request is the template the final request is built from.
	Request wire.Request
	// Query is merged into the template's URL after any existing query.
	Query wire.Params
	// Body encodes the payload. Nil means the template's payload is sent
	// unchanged.
	Body encode.Encoder

	client *Client
}

// RequestOption adjusts a [Task] as it is created.
type RequestOption func(*Task)

// WithMethod sets the HTTP method.
func WithMethod(method string) RequestOption {
	return func(t *Task) {
		if method != "" {
			t.Request.Method = method
		}
	}
}

// WithQuery sets the query parameters merged into the target.
func WithQuery(params wire.Params) RequestOption {
	return func(t *Task) {
		t.Query = params.Clone()
	}
}

// WithHeaders sets each header in h, replacing template values with the
// same name.
func WithHeaders(h http.Header) RequestOption {
	return func(t *Task) {
		if t.Request.Header == nil {
			t.Request.Header = http.Header{}
		}
		for k, v := range h {
			t.Request.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
		}
	}
}

// WithHeader sets a single header.
func WithHeader(key, value string) RequestOption {
	return func(t *Task) {
		if t.Request.Header == nil {
			t.Request.Header = http.Header{}
		}
		t.Request.Header.Set(key, value)
	}
}

// WithBody sets the body encoder.
func WithBody(e encode.Encoder) RequestOption {
	return func(t *Task) {
		t.Body = e
	}
}

// snapshot is the immutable copy of a Task an operation works from.
type snapshot struct {
	request wire.Request
	query   wire.Params
	body    encode.Encoder
}

func (t *Task) snapshot() snapshot {
	return snapshot{
		request: t.Request.Clone(),
		query:   t.Query.Clone(),
		body:    t.Body,
	}
}

func (t *Task) owner() *Client {
	if t.client != nil {
		return t.client
	}

	return Default()
}

// build assembles the final request: query merge, then body encoding,
// then the decoder's adaptation.
func (s snapshot) build(adapt func(wire.Request) wire.Request) (wire.Request, error) {
	req := s.request.Clone()
	req.URL = wire.MergeQuery(req.URL, s.query)

	if s.body != nil {
		encoded, err := s.body.Encode(req)
		if err != nil {
			return wire.Request{}, err
		}
		req = encoded
	}

	if adapt != nil {
		req = adapt(req)
	}

	return req, nil
}
