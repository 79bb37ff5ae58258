package errors

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind separates user mistakes from service failures.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func TooLarge(op string, err error, message string) *AppError {
	return &AppError{
		Code:    http.StatusRequestEntityTooLarge,
		Kind:    KindTooLarge,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Internal wraps a service failure. The client sees the cause's text, so an
// empty message falls back to err.Error().
func Internal(op string, err error, message string) *AppError {
	if message == "" && err != nil {
		message = err.Error()
	}
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// From returns err as an *AppError, treating anything unknown as internal.
func From(op string, err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr
	}
	return Internal(op, err, "")
}

func IsValidation(err error) bool {
	var appErr *AppError
	return pkgerrors.As(err, &appErr) && appErr.Kind == KindValidation
}

func IsTooLarge(err error) bool {
	var appErr *AppError
	return pkgerrors.As(err, &appErr) && appErr.Kind == KindTooLarge
}

// StatusCode maps any error to the HTTP status it should produce.
func StatusCode(err error) int {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
