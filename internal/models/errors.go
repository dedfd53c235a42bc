package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrEnvironment ErrorType = iota
	ErrParse
	ErrNotFound
	ErrBuild
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrEnvironment:
		return "Environment"
	case ErrParse:
		return "Parse"
	case ErrNotFound:
		return "NotFound"
	case ErrBuild:
		return "Build"
	default:
		return "Unknown"
	}
}

// IPError represents an error during package build or parse
type IPError struct {
	Type   ErrorType
	Detail string
	Err    error
}

// Error implements the error interface
func (e *IPError) Error() string {
	if e.Detail != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s: %v", e.Type, e.Detail, e.Err)
		}
		return fmt.Sprintf("[%s] %s", e.Type, e.Detail)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *IPError) Unwrap() error {
	return e.Err
}

// NewEnvironmentError wraps a filesystem or archive failure
func NewEnvironmentError(detail string, err error) *IPError {
	return &IPError{Type: ErrEnvironment, Detail: detail, Err: err}
}

// NewParseError reports a fatal structural defect
func NewParseError(detail string, err error) *IPError {
	return &IPError{Type: ErrParse, Detail: detail, Err: err}
}

// NewNotFoundError reports a lookup against a missing entity
func NewNotFoundError(detail string) *IPError {
	return &IPError{Type: ErrNotFound, Detail: detail}
}

// IsNotFound reports whether err is a NotFound IPError
func IsNotFound(err error) bool {
	return hasType(err, ErrNotFound)
}

// IsParse reports whether err is a Parse IPError
func IsParse(err error) bool {
	return hasType(err, ErrParse)
}

// IsEnvironment reports whether err is an Environment IPError
func IsEnvironment(err error) bool {
	return hasType(err, ErrEnvironment)
}

func hasType(err error, t ErrorType) bool {
	var ipErr *IPError
	if errors.As(err, &ipErr) {
		return ipErr.Type == t
	}
	return false
}
