// Package charset converts between Go strings and bytes in a named
// character encoding. Conversions are strict: characters or bytes the
// encoding cannot represent are errors, never silently replaced.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrUnknown      = errors.New("unknown charset")
	ErrInvalidInput = errors.New("input is not valid UTF-8")
	ErrUndecodable  = errors.New("bytes not decodable in charset")
)

// Lookup returns the encoding registered under name. IANA names are tried
// first, then the WHATWG labels browsers accept.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Encode converts s to bytes in enc. A nil enc means UTF-8.
func Encode(enc encoding.Encoding, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidInput
	}
	if isUTF8(enc) {
		return []byte(s), nil
	}

	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding text: %w", err)
	}

	return b, nil
}

// Decode converts b, encoded in enc, to a string. A nil enc means UTF-8.
func Decode(enc encoding.Encoding, b []byte) (string, error) {
	if isUTF8(enc) {
		if !utf8.Valid(b) {
			return "", ErrUndecodable
		}
		return string(b), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	// x/text decoders substitute U+FFFD for bytes the charset leaves
	// undefined. A U+FFFD the input really encodes survives re-encoding.
	if bytes.ContainsRune(out, utf8.RuneError) {
		back, err := enc.NewEncoder().Bytes(out)
		if err != nil || !bytes.Equal(back, b) {
			return "", ErrUndecodable
		}
	}

	return string(out), nil
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == nil || enc == unicode.UTF8 || enc == encoding.Nop
}
