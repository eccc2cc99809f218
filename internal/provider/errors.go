package provider

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a request that a builder refused to produce.
type ErrorKind string

const (
	// KindNoModelSpecified means the request named no model.
	KindNoModelSpecified ErrorKind = "no_model_specified"
)

// ErrNoModelSpecified matches any *Error of kind KindNoModelSpecified via errors.Is.
var ErrNoModelSpecified = &Error{Kind: KindNoModelSpecified}

// Error is a structured build failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

// NewError constructs an Error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches errors of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of a build error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
