package decode

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/adamwoolhether/fetch/wire"
)

// maxErrBodySize caps the amount of response body kept when building an
// error for an unexpected status code.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// UnexpectedStatusError is returned by decoders wrapped with
// [ExpectStatus] when the response status is not an expected one.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// ExpectStatus wraps d so that responses whose status code is not one of
// codes fail before d runs. With no codes, any 2xx status is accepted.
// The request adapter of d is kept.
func ExpectStatus[T any](d Decoder[T], codes ...int) Decoder[T] {
	return New(func(resp *wire.Response, data []byte) (T, error) {
		if !expected(resp, codes) {
			var zero T
			return zero, statusError(resp, data)
		}

		return d.Decode(resp, data)
	}, d.adapt)
}

func expected(resp *wire.Response, codes []int) bool {
	if len(codes) == 0 {
		return resp.IsSuccess()
	}

	return resp != nil && slices.Contains(codes, resp.StatusCode)
}

func statusError(resp *wire.Response, data []byte) error {
	var code int
	if resp != nil {
		code = resp.StatusCode
	}

	if len(data) > maxErrBodySize {
		data = data[:maxErrBodySize]
	}

	err := ErrUnexpectedStatusCode
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		err = errors.Join(ErrUnexpectedStatusCode, ErrAuthFailure)
	}

	return &UnexpectedStatusError{
		StatusCode: code,
		Body:       string(data),
		Err:        err,
	}
}
