// Package encode provides the request body encoders a task applies to its
// outgoing request.
//
// Encoders are stateless and may be shared between any number of tasks.
// They never override a Content-Type header already present on the
// request they receive.
package encode

import (
	"bytes"
	"fmt"
	"net/url"
	"slices"

	"github.com/adamwoolhether/fetch/internal/charset"
	"github.com/adamwoolhether/fetch/wire"
	"github.com/google/go-querystring/query"
	"golang.org/x/text/encoding"
)

// Encoder sets an outgoing payload, and possibly related headers, on a
// request. Implementations return a new request and leave r untouched.
type Encoder interface {
	Encode(r wire.Request) (wire.Request, error)
}

// Func adapts an ordinary function to the [Encoder] interface.
type Func func(r wire.Request) (wire.Request, error)

// Encode calls f(r).
func (f Func) Encode(r wire.Request) (wire.Request, error) {
	return f(r)
}

// Bytes sends b verbatim.
func Bytes(b []byte) Encoder {
	payload := bytes.Clone(b)

	return Func(func(r wire.Request) (wire.Request, error) {
		r = r.Clone()
		r.Body = bytes.Clone(payload)
		return r, nil
	})
}

// Text sends s encoded in enc. A nil enc means UTF-8. Text that enc
// cannot represent is an error.
func Text(s string, enc encoding.Encoding) Encoder {
	return Func(func(r wire.Request) (wire.Request, error) {
		b, err := charset.Encode(enc, s)
		if err != nil {
			return wire.Request{}, fmt.Errorf("text body: %w", err)
		}

		r = r.Clone()
		r.Body = b
		return r, nil
	})
}

// JSON sends v serialized with the configured codec and sets
// Content-Type to application/json when absent.
func JSON(v any, opts ...Option) Encoder {
	settings := apply(opts)

	return Func(func(r wire.Request) (wire.Request, error) {
		b, err := settings.codec.Marshal(v)
		if err != nil {
			return wire.Request{}, fmt.Errorf("json body: %w", err)
		}

		return withPayload(r, b, wire.MediaTypeJSON), nil
	})
}

// JSONMap is [JSON] for an untyped object.
func JSONMap(m map[string]any, opts ...Option) Encoder {
	return JSON(m, opts...)
}

// Form sends params as an application/x-www-form-urlencoded body and sets
// the Content-Type when absent. Nil values are sent as bare names. When
// the configured charset cannot represent the encoded form the request is
// returned unchanged.
func Form(params wire.Params, opts ...Option) Encoder {
	settings := apply(opts)
	params = params.Clone()

	return Func(func(r wire.Request) (wire.Request, error) {
		b, err := charset.Encode(settings.charset, params.Encode())
		if err != nil {
			return r, nil
		}

		return withPayload(r, b, wire.MediaTypeForm), nil
	})
}

// FormOf serializes v with the configured codec and sends the result as a
// form. Only values that serialize to an object of strings and nulls can
// be sent; any other shape leaves the request unchanged. Names are sent in
// ascending order.
func FormOf(v any, opts ...Option) Encoder {
	settings := apply(opts)

	return Func(func(r wire.Request) (wire.Request, error) {
		b, err := settings.codec.Marshal(v)
		if err != nil {
			return wire.Request{}, fmt.Errorf("form body: %w", err)
		}

		var generic any
		if err := settings.codec.Unmarshal(b, &generic); err != nil {
			return wire.Request{}, fmt.Errorf("form body: %w", err)
		}

		values, ok := stringMap(generic)
		if !ok {
			return r, nil
		}

		return Form(wire.ParamsFromMap(values), opts...).Encode(r)
	})
}

// Values sends v, a struct tagged for github.com/google/go-querystring,
// as a form. Names are sent in ascending order, repeated values in the
// order go-querystring produced them.
func Values(v any, opts ...Option) Encoder {
	return Func(func(r wire.Request) (wire.Request, error) {
		vals, err := query.Values(v)
		if err != nil {
			return wire.Request{}, fmt.Errorf("form values: %w", err)
		}

		return Form(paramsFromValues(vals), opts...).Encode(r)
	})
}

func withPayload(r wire.Request, payload []byte, contentType string) wire.Request {
	r = r.Clone()
	r.Body = payload

	return r.SetHeaderIfAbsent(wire.HeaderContentType, contentType)
}

func stringMap(generic any) (map[string]*string, bool) {
	obj, ok := generic.(map[string]any)
	if !ok {
		return nil, false
	}

	values := make(map[string]*string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
			values[k] = nil
		case string:
			values[k] = &val
		default:
			return nil, false
		}
	}

	return values, true
}

func paramsFromValues(vals url.Values) wire.Params {
	names := make([]string, 0, len(vals))
	for k := range vals {
		names = append(names, k)
	}
	slices.Sort(names)

	var params wire.Params
	for _, name := range names {
		for _, v := range vals[name] {
			params = append(params, wire.Param{Name: name, Value: wire.Value(v)})
		}
	}

	return params
}
