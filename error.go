package fetch

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with [errors.Is].
var (
	// ErrEncode reports that the body encoder failed. No request was sent.
	ErrEncode = errors.New("encoding request body")
	// ErrDecode reports that the response body could not be decoded.
	ErrDecode = errors.New("decoding response body")
	// ErrTransport wraps a failure reported by the session.
	ErrTransport = errors.New("transport failure")
	// ErrMissingResponse reports a completed exchange without a body or
	// response metadata where a decoded value was expected.
	ErrMissingResponse = errors.New("missing response")
)

// Error is the failure delivered in a [Result]. Kind is one of the error
// kinds above; Err is the underlying cause, if any.
type Error struct {
	Kind error
	Err  error
}

func newError(kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}

	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to [errors.Is] and [errors.As].
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
