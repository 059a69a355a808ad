package decode

import "github.com/adamwoolhether/fetch/codec"

// Option configures the structured decoders.
type Option func(*options)

type options struct {
	codec codec.Codec
}

// WithCodec replaces the default [codec.JSON] deserializer.
func WithCodec(c codec.Codec) Option {
	return func(opts *options) {
		if c != nil {
			opts.codec = c
		}
	}
}

func apply(opts []Option) options {
	settings := options{codec: codec.JSON}
	for _, opt := range opts {
		opt(&settings)
	}

	return settings
}
