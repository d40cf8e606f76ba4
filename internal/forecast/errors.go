package forecast

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable error identifier surfaced to clients.
type Kind string

const (
	KindInvalidCoordinates    Kind = "invalid_coordinates"
	KindUpstreamUnavailable   Kind = "upstream_unavailable"
	KindMalformedUpstreamData Kind = "malformed_upstream_data"
	KindInsufficientHistory   Kind = "insufficient_history"
	KindShapeMismatch         Kind = "shape_mismatch"
)

// Error is a domain failure with a stable kind and a client-safe message.
// Err, when set, holds the underlying cause and is never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a domain error with a formatted client-safe message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches an underlying cause to a domain error.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is (or wraps) a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
