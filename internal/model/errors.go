package model

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store operation failures.
type ErrorCode string

const (
	// CodeNotFound indicates a referenced component, class, technology,
	// assignment, or log entry does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidArgument indicates a malformed application type, filter
	// value, or missing required field.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeInvalidState indicates an operation on a log entry that is not
	// pending, or approval of an entry whose action is not a removal.
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeConflict indicates the durable state changed between read and
	// write (a concurrent writer claimed the same log id).
	CodeConflict ErrorCode = "CONFLICT"

	// CodeIO indicates durable storage was unreadable or unwritable.
	CodeIO ErrorCode = "IO_FAILURE"
)

// Error is a structured store error.
//
// NotFound, InvalidArgument, and InvalidState are caller errors: they are
// raised before any mutation is attempted and leave all state unchanged.
type Error struct {
	Code    ErrorCode
	Message string

	// Entity and Key identify the affected row for NotFound errors.
	Entity string
	Key    string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entity != "" && e.Key != "" {
		return fmt.Sprintf("%s: %s (%s=%q)", e.Code, e.Message, e.Entity, e.Key)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// NewNotFound creates a NotFound error for a missing row.
func NewNotFound(entity, key string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: entity + " not found",
		Entity:  entity,
		Key:     key,
	}
}

// NewInvalidArgument creates an InvalidArgument error.
func NewInvalidArgument(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidState creates an InvalidState error.
func NewInvalidState(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NewConflict creates a Conflict error.
func NewConflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// WrapIO wraps a storage failure as an IOFailure error.
func WrapIO(message string, err error) *Error {
	return &Error{Code: CodeIO, Message: message, Err: err}
}

// codeIs reports whether err is a *Error with the given code.
// Uses errors.As to handle wrapped errors.
func codeIs(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return codeIs(err, CodeNotFound) }

// IsInvalidArgument reports whether err is an InvalidArgument error.
func IsInvalidArgument(err error) bool { return codeIs(err, CodeInvalidArgument) }

// IsInvalidState reports whether err is an InvalidState error.
func IsInvalidState(err error) bool { return codeIs(err, CodeInvalidState) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return codeIs(err, CodeConflict) }

// IsIO reports whether err is an IOFailure error.
func IsIO(err error) bool { return codeIs(err, CodeIO) }
