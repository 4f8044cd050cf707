package service

import "errors"

// ErrUnauthorized is returned when an operation runs without an
// authenticated user in the context. The store is never touched in that
// case.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError reports an input that violates a model invariant. It is
// raised before any store write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError tags a persistence failure. The underlying message passes
// through unmodified; there is no retry.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Err: err}
}
