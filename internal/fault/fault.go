// Package fault provides the typed error model for garrison operations.
// Every failure surfaced through a primary port carries a Kind so callers
// can distinguish business outcomes from internal errors.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind string

const (
	// KindNotFound indicates a garrison, building, unit, assignment,
	// character, or catalog entry does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindConflict indicates the operation lost a race or would duplicate
	// state: a busy building, a taken garrison name, a stale version.
	KindConflict Kind = "CONFLICT"

	// KindPreconditionFailed indicates the aggregate state disallows the
	// operation: unmet requirements, insufficient resources or workforce,
	// workforce out of bounds, exceeded improvement levels.
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"

	// KindInvalidArgument indicates a malformed payload value.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"

	// KindInternal indicates an infrastructure failure. These are never
	// business outcomes and are always propagated unchanged.
	KindInternal Kind = "INTERNAL"
)

// Error is a typed operation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New creates a typed error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Conflict creates a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// PreconditionFailed creates a KindPreconditionFailed error.
func PreconditionFailed(format string, args ...any) *Error {
	return New(KindPreconditionFailed, format, args...)
}

// InvalidArgument creates a KindInvalidArgument error.
func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

// KindOf returns the Kind carried by err, unwrapping as needed.
// Errors without a Kind report KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
