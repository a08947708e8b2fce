package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a slopify error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrReadFailed     ErrorCode = "READ_FAILED"     // 500
	ErrWriteFailed    ErrorCode = "WRITE_FAILED"    // 500
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// SlopError represents a structured error with code, status, and details.
type SlopError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// cause is the underlying error, if any (usually an *fs.PathError).
	cause error
}

// Error implements the error interface.
func (e *SlopError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is(err, fs.ErrPermission) works.
func (e *SlopError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SlopError {
	return &SlopError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewFileNotFound creates a 404 error for a missing input path.
func NewFileNotFound(path string) *SlopError {
	return &SlopError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("no such file or directory: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewReadFailed creates an error for a source or document that could not be read.
func NewReadFailed(path string, err error) *SlopError {
	return &SlopError{
		Code:    ErrReadFailed,
		Status:  500,
		Message: fmt.Sprintf("failed to read %s: %v", path, err),
		Details: map[string]any{"path": path},
		cause:   err,
	}
}

// NewWriteFailed creates an error for a destination that could not be created or written.
// The message carries both the offending path and the OS error.
func NewWriteFailed(path string, err error) *SlopError {
	return &SlopError{
		Code:    ErrWriteFailed,
		Status:  500,
		Message: fmt.Sprintf("failed to write %s: %v", path, err),
		Details: map[string]any{"path": path},
		cause:   err,
	}
}

// NewCancelled creates an error for an operation stopped by its context.
func NewCancelled(op string) *SlopError {
	return &SlopError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SlopError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SlopError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) a SlopError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SlopError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
