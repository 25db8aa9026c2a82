package search

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	// KindToolUnavailable means the required binary could not be found.
	KindToolUnavailable Kind = iota + 1
	// KindInvalidParameter means a request field failed validation.
	KindInvalidParameter
	// KindExecutionTimeout means the process outlived its deadline and was killed.
	KindExecutionTimeout
	// KindExecutionFailed means the process exited non-zero with diagnostics.
	KindExecutionFailed
)

// Sentinels for errors.Is checks against *Error.
var (
	ErrToolUnavailable  = errors.New("tool unavailable")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrExecutionTimeout = errors.New("execution timeout")
	ErrExecutionFailed  = errors.New("execution failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindToolUnavailable:
		return ErrToolUnavailable
	case KindInvalidParameter:
		return ErrInvalidParameter
	case KindExecutionTimeout:
		return ErrExecutionTimeout
	case KindExecutionFailed:
		return ErrExecutionFailed
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown"
}

// Error is the typed failure returned by every Engine operation.
type Error struct {
	Kind    Kind
	Field   string // offending request field, for KindInvalidParameter
	Message string
	Stderr  string // captured diagnostics, for KindExecutionFailed
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func invalidParam(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidParameter, Field: field, Message: fmt.Sprintf(format, args...)}
}

func toolUnavailable(tool string, cause error) *Error {
	return &Error{
		Kind:    KindToolUnavailable,
		Message: fmt.Sprintf("%s is not installed or not on PATH", tool),
		Cause:   cause,
	}
}

func executionTimeout(tool string, cause error) *Error {
	return &Error{Kind: KindExecutionTimeout, Message: tool + " exceeded its deadline and was killed", Cause: cause}
}

func executionFailed(tool, stderr string, cause error) *Error {
	return &Error{Kind: KindExecutionFailed, Message: tool + " failed", Stderr: stderr, Cause: cause}
}
