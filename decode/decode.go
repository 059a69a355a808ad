// Package decode provides response decoders. A [Decoder] interprets the
// bytes of a response as a value of type T and may adapt the outgoing
// request beforehand, typically to ask the server for a matching
// representation through the Accept header.
//
// Decoders are stateless and may be shared between any number of tasks.
// Adapters never override an Accept header already present on the request.
package decode

import (
	"fmt"

	"github.com/adamwoolhether/fetch/codec"
	"github.com/adamwoolhether/fetch/internal/charset"
	"github.com/adamwoolhether/fetch/wire"
	"golang.org/x/text/encoding"
)

// Func interprets a response body.
type Func[T any] func(resp *wire.Response, data []byte) (T, error)

// Adapter transforms the outgoing request before it is submitted.
type Adapter func(r wire.Request) wire.Request

// Decoder pairs a request adapter with a response decode function.
// The zero Decoder decodes every body to the zero value of T.
type Decoder[T any] struct {
	decode Func[T]
	adapt  Adapter
}

// New returns a Decoder using fn to decode and adapt, when non-nil, to
// prepare the request.
func New[T any](fn Func[T], adapt Adapter) Decoder[T] {
	return Decoder[T]{decode: fn, adapt: adapt}
}

// Decode interprets data, the body of resp.
func (d Decoder[T]) Decode(resp *wire.Response, data []byte) (T, error) {
	if d.decode == nil {
		var zero T
		return zero, nil
	}

	return d.decode(resp, data)
}

// Adapt prepares r for submission.
func (d Decoder[T]) Adapt(r wire.Request) wire.Request {
	if d.adapt == nil {
		return r
	}

	return d.adapt(r)
}

// Accept returns an Adapter setting the Accept header to mediaType when
// the request carries none.
func Accept(mediaType string) Adapter {
	return func(r wire.Request) wire.Request {
		return r.SetHeaderIfAbsent(wire.HeaderAccept, mediaType)
	}
}

// Bytes returns the body unchanged.
func Bytes() Decoder[[]byte] {
	return New(func(_ *wire.Response, data []byte) ([]byte, error) {
		return data, nil
	}, nil)
}

// Text decodes the body with enc. A nil enc means UTF-8. Bytes that enc
// cannot decode are an error.
func Text(enc encoding.Encoding) Decoder[string] {
	return New(func(_ *wire.Response, data []byte) (string, error) {
		s, err := charset.Decode(enc, data)
		if err != nil {
			return "", fmt.Errorf("text body: %w", err)
		}
		return s, nil
	}, nil)
}

// JSON deserializes the body into a T with the configured codec.
func JSON[T any](opts ...Option) Decoder[T] {
	settings := apply(opts)

	return New(func(_ *wire.Response, data []byte) (T, error) {
		return unmarshal[T](settings.codec, data)
	}, Accept(wire.MediaTypeJSON))
}

// JSONMap deserializes the body into an untyped object. A top level that
// is valid JSON but not an object yields an empty map.
func JSONMap(opts ...Option) Decoder[map[string]any] {
	settings := apply(opts)

	return New(func(_ *wire.Response, data []byte) (map[string]any, error) {
		var generic any
		if err := settings.codec.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("json body: %w", err)
		}

		obj, ok := generic.(map[string]any)
		if !ok {
			return map[string]any{}, nil
		}
		return obj, nil
	}, Accept(wire.MediaTypeJSON))
}

func unmarshal[T any](c codec.Codec, data []byte) (T, error) {
	var v T
	if err := c.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("json body: %w", err)
	}

	return v, nil
}
