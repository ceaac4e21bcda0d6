package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures the API can report.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindValidation
	KindInvalidID
	KindStore
)

// Machine-readable codes rendered in the error body.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidID     = "INVALID_ID"
	CodeDatabaseError = "DATABASE_ERROR"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    ErrorKind
	Message string // only meaningful for KindValidation
	Err     error  // only set for KindStore; never shown to clients
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "Resource not found"
	case KindValidation:
		return "Invalid input: " + e.Message
	case KindInvalidID:
		return "Invalid ID format"
	case KindStore:
		return "Database error"
	default:
		return fmt.Sprintf("unknown error kind %d", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the stable code string for the kind.
func (e *Error) Code() string {
	switch e.Kind {
	case KindNotFound:
		return CodeNotFound
	case KindValidation:
		return CodeValidation
	case KindInvalidID:
		return CodeInvalidID
	default:
		return CodeDatabaseError
	}
}

var (
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrInvalidID = &Error{Kind: KindInvalidID}
)

// ValidationError builds a validation failure carrying msg.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// StoreError wraps a backing store failure. A nil err yields nil.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) && de.Kind == KindStore {
		return err
	}
	return &Error{Kind: KindStore, Err: err}
}

// AsError resolves err into the taxonomy. Anything unknown is treated as a store failure.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Kind: KindStore, Err: err}
}

// IsKind reports whether err belongs to kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
