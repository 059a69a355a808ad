package encode

import (
	"github.com/adamwoolhether/fetch/codec"
	"golang.org/x/text/encoding"
)

// Option configures the structured and form encoders.
type Option func(*options)

type options struct {
	codec   codec.Codec
	charset encoding.Encoding
}

// WithCodec replaces the default [codec.JSON] serializer.
func WithCodec(c codec.Codec) Option {
	return func(opts *options) {
		if c != nil {
			opts.codec = c
		}
	}
}

// WithCharset sets the character encoding of form bodies. UTF-8 is used
// when unset.
func WithCharset(enc encoding.Encoding) Option {
	return func(opts *options) {
		opts.charset = enc
	}
}

func apply(opts []Option) options {
	settings := options{codec: codec.JSON}
	for _, opt := range opts {
		opt(&settings)
	}

	return settings
}
