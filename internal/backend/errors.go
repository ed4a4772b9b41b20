package backend

import (
	"errors"
	"fmt"
)

// TransportError is a network, HTTP status or decoding failure talking to the backend
type TransportError struct {
	Method     string
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IgnorableError marks a failure of a background poll that is deliberately not surfaced
type IgnorableError struct {
	Err error
}

func (e *IgnorableError) Error() string {
	return "ignorable: " + e.Err.Error()
}

func (e *IgnorableError) Unwrap() error {
	return e.Err
}

// Ignorable wraps err so callers can tell the failure is safe to swallow
func Ignorable(err error) error {
	if err == nil {
		return nil
	}
	return &IgnorableError{Err: err}
}

// IsIgnorable reports whether err was classified as ignorable
func IsIgnorable(err error) bool {
	var ie *IgnorableError
	return errors.As(err, &ie)
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

var errEmptyFileName = errors.New("file name is required")
