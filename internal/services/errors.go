package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures. The HTTP layer maps each kind to a status once.
type ErrorKind int

const (
	// KindStoreFailure - the store call failed for any reason not listed below
	KindStoreFailure ErrorKind = iota

	// KindValidation - payload or query does not satisfy the schema
	KindValidation

	// KindDuplicateKey - the unique key is already taken
	KindDuplicateKey

	// KindNotFound - no record with the given id
	KindNotFound

	// KindInvalidIdentifier - the id string is not a valid store identifier
	KindInvalidIdentifier
)

// String returns a human-readable kind name
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateKey:
		return "duplicate_key"
	case KindNotFound:
		return "not_found"
	case KindInvalidIdentifier:
		return "invalid_identifier"
	default:
		return "store_failure"
	}
}

// Error is returned by every ResourceService operation that fails.
// Detail is safe to show to callers; Cause is for logs.
type Error struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, ErrNotFound)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Detail == "" && t.Cause == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrDuplicateKey      = &Error{Kind: KindDuplicateKey}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier}
	ErrStoreFailure      = &Error{Kind: KindStoreFailure}
)

// KindOf returns the kind of err, defaulting to KindStoreFailure
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStoreFailure
}

func newError(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}
