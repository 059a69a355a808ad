package fetch

// Result is the outcome of an operation: either a value or a non-nil
// error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a successful Result holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure returns a failed Result. A nil err is replaced by
// [ErrMissingResponse] so that a failure always carries an error.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = newError(ErrMissingResponse, nil)
	}

	return Result[T]{err: err}
}

// Value returns the value, or the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Get returns the value and the error.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// OK reports whether r is a success.
func (r Result[T]) OK() bool {
	return r.err == nil
}
