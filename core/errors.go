package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// InvalidInputError indicates a malformed or out-of-range argument.
type InvalidInputError struct {
	msg string
}

func NewInvalidInputError(msg string) error {
	return &InvalidInputError{msg}
}

func (err *InvalidInputError) Error() string {
	return err.msg
}

func IsInvalidInput(err error) bool {
	_, ok := errors.Cause(err).(*InvalidInputError)
	return ok
}

// NotFoundError indicates that a referenced record does not exist.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{msg}
}

func (err *NotFoundError) Error() string {
	return err.msg
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// InvalidStateError indicates a transition attempted from a non-eligible state.
type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) error {
	return &InvalidStateError{msg}
}

func (err *InvalidStateError) Error() string {
	return err.msg
}

func IsInvalidState(err error) bool {
	_, ok := errors.Cause(err).(*InvalidStateError)
	return ok
}

// PermissionError indicates that the caller's role lacks authority for the
// requested mutation.
type PermissionError struct {
	msg string
}

func NewPermissionError(msg string) error {
	return &PermissionError{msg}
}

func (err *PermissionError) Error() string {
	return err.msg
}

func IsPermissionDenied(err error) bool {
	_, ok := errors.Cause(err).(*PermissionError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
