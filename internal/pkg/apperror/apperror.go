package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a custom error type that carries the HTTP status code it maps to.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code and message.
// It lets formatted errors match the sentinels they were built from.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFoundf reports a missing entity, or one the caller is not allowed to see.
func NotFoundf(format string, args ...any) *AppError {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// BadRequestf reports a request the domain rules reject.
func BadRequestf(format string, args ...any) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// Validationf reports malformed input. It shares the 400 status with BadRequestf.
func Validationf(format string, args ...any) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// Conflictf reports a uniqueness violation.
func Conflictf(format string, args ...any) *AppError {
	return New(http.StatusConflict, fmt.Sprintf(format, args...))
}

// CodeOf returns the HTTP status carried by err, or 500 when err is not an AppError.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
