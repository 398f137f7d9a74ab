// Package types provides core type definitions for the Event Chain SDK.
package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a category of chain error. Codes are stable and
// intended for programmatic matching via errors.Is or CodeOf.
type ErrorCode int

const (
	// ChainBusy indicates a mutation was attempted while a traversal
	// was in progress.
	ChainBusy ErrorCode = iota + 1

	// IndexOutOfRange indicates a position outside the valid insertion
	// range of the chain.
	IndexOutOfRange

	// InvalidArgument indicates a nil or otherwise unusable argument.
	InvalidArgument

	// InvalidConfiguration indicates a malformed or conflicting
	// configuration entry.
	InvalidConfiguration

	// FilterNotFound indicates an unknown filter type name.
	FilterNotFound

	// ChainNotFound indicates an unknown chain name.
	ChainNotFound
)

// String returns a human-readable representation of the error code.
func (c ErrorCode) String() string {
	switch c {
	case ChainBusy:
		return "ChainBusy"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidConfiguration:
		return "InvalidConfiguration"
	case FilterNotFound:
		return "FilterNotFound"
	case ChainNotFound:
		return "ChainNotFound"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// ChainError is an error carrying an ErrorCode and a descriptive message.
//
// Two ChainErrors match under errors.Is when their codes are equal,
// regardless of message, so callers can test for a category:
//
//	if errors.Is(err, types.NewChainError(types.ChainBusy, "")) { ... }
type ChainError struct {
	// Code categorizes the error.
	Code ErrorCode

	// Message describes the specific failure.
	Message string
}

// NewChainError creates a ChainError with the given code and message.
func NewChainError(code ErrorCode, message string) *ChainError {
	return &ChainError{Code: code, Message: message}
}

// Errorf creates a ChainError with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *ChainError {
	return &ChainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is a ChainError with the same code.
func (e *ChainError) Is(target error) bool {
	var other *ChainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// CodeOf extracts the ErrorCode from err. The second return value is
// false when err is not a ChainError.
func CodeOf(err error) (ErrorCode, bool) {
	var chainErr *ChainError
	if errors.As(err, &chainErr) {
		return chainErr.Code, true
	}
	return 0, false
}
