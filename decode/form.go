package decode

import (
	"fmt"

	"github.com/adamwoolhether/fetch/wire"
	"golang.org/x/text/encoding"
)

// Form decodes an application/x-www-form-urlencoded body into a map.
// Bare names map to nil; a repeated name keeps its last value.
func Form(enc encoding.Encoding) Decoder[map[string]*string] {
	text := Text(enc)

	return New(func(resp *wire.Response, data []byte) (map[string]*string, error) {
		s, err := text.Decode(resp, data)
		if err != nil {
			return nil, err
		}

		params, err := wire.ParseParams(s)
		if err != nil {
			return nil, fmt.Errorf("form body: %w", err)
		}

		return params.Map(), nil
	}, Accept(wire.MediaTypeForm))
}

// FormInto decodes a form body and deserializes it into a T through its
// JSON representation, bare names becoming null. The request is adapted
// for a form response, not a JSON one.
func FormInto[T any](enc encoding.Encoding, opts ...Option) Decoder[T] {
	settings := apply(opts)
	form := Form(enc)
	target := JSON[T](opts...)

	return New(func(resp *wire.Response, data []byte) (T, error) {
		values, err := form.Decode(resp, data)
		if err != nil {
			var zero T
			return zero, err
		}

		b, err := settings.codec.Marshal(values)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("form body: %w", err)
		}

		return target.Decode(resp, b)
	}, form.adapt)
}
