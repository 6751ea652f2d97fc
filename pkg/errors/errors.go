package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConfiguration marks a missing or unusable corpus archive, corpus
	// directory or setting. It is never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrCorruptIndex marks a stored index or checksum that cannot be decoded.
	// Callers recover by rebuilding.
	ErrCorruptIndex = errors.New("corrupt index store")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotReady     = errors.New("index not loaded")
	ErrInternal     = errors.New("internal error")
	ErrTimeout      = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// Configf builds a configuration error. Configuration errors surface as 500s
// when they reach an HTTP caller because the operator, not the client, has to
// fix them.
func Configf(format string, args ...any) *AppError {
	return Newf(ErrConfiguration, http.StatusInternalServerError, format, args...)
}

// Corruptf builds a corrupt-store error.
func Corruptf(format string, args ...any) *AppError {
	return Newf(ErrCorruptIndex, http.StatusInternalServerError, format, args...)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotReady), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Is and As re-export the standard helpers so callers importing this package
// under the name "errors" keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
