package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/fd-mcp/internal/search"
)

// Error codes for MCP tool responses.
const (
	ErrCodeToolUnavailable  = "TOOL_UNAVAILABLE"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeExecutionTimeout = "EXECUTION_TIMEOUT"
	ErrCodeExecutionFailed  = "EXECUTION_FAILED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapSearchError converts a search.Error or other error to a coded error.
func WrapSearchError(err error) error {
	if err == nil {
		return nil
	}

	var se *search.Error
	if !errors.As(err, &se) {
		coded := &CodedError{Code: ErrCodeExecutionFailed, Message: err.Error(), Cause: err}
		slog.Warn("search error", slog.String("code", coded.Code), slog.String("message", coded.Message))
		return coded
	}

	coded := &CodedError{Message: se.Message, Cause: se.Cause}
	switch se.Kind {
	case search.KindToolUnavailable:
		coded.Code = ErrCodeToolUnavailable
	case search.KindInvalidParameter:
		coded.Code = ErrCodeInvalidParameter
		if se.Field != "" {
			coded.Message = fmt.Sprintf("%s %s", se.Field, se.Message)
		}
	case search.KindExecutionTimeout:
		coded.Code = ErrCodeExecutionTimeout
	default:
		coded.Code = ErrCodeExecutionFailed
		if se.Stderr != "" {
			coded.Message = fmt.Sprintf("%s\n%s", se.Message, se.Stderr)
			coded.Cause = nil
		}
	}

	slog.Warn("search error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid parameter error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidParameter,
		Message: message,
	}
}
