package api

import (
	"errors"
	"fmt"
)

// BusinessError is a well-formed request the server rejected. The message
// is kept verbatim for display; Fields is set when the server returned a
// per-field validation map.
type BusinessError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("server rejected request (status %d): %s", e.Status, e.Message)
}

// TransportError is a network or decode failure. The request may never
// have reached the server; retry is a manual user action.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsBusiness unwraps err as a BusinessError.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// FieldErrors returns the server's field validation map from err, or nil.
func FieldErrors(err error) map[string][]string {
	if be, ok := AsBusiness(err); ok {
		return be.Fields
	}
	return nil
}
