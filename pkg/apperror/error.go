package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for clients independently of the HTTP status
type Kind string

const (
	KindValidation           Kind = "ValidationError"
	KindUnauthorized         Kind = "Unauthorized"
	KindAccessDenied         Kind = "AccessDenied"
	KindNotFound             Kind = "NotFound"
	KindInvalidState         Kind = "InvalidState"
	KindDuplicateApplication Kind = "DuplicateApplication"
	KindConflict             Kind = "Conflict"
	KindRateLimited          Kind = "RateLimited"
	KindServer               Kind = "ServerError"
)

type AppError struct {
	Code    int      `json:"code"`
	Kind    Kind     `json:"kind"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Wrap keeps err reachable through errors.Is while presenting message to clients
func Wrap(code int, kind Kind, message string, err error) *AppError {
	return New(code, kind, message, err)
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

// Validation reports malformed input, enumerating the per-field problems
func Validation(message string, fields []string) *AppError {
	e := New(http.StatusBadRequest, KindValidation, message, nil)
	e.Fields = fields
	return e
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, KindAccessDenied, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func InvalidState(message string) *AppError {
	return New(http.StatusBadRequest, KindInvalidState, message, nil)
}

func DuplicateApplication(message string) *AppError {
	return New(http.StatusBadRequest, KindDuplicateApplication, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

// TooManyAttempts rejects a caller that exceeded a request or credential budget
func TooManyAttempts(message string) *AppError {
	return New(http.StatusTooManyRequests, KindRateLimited, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindServer, "Internal Server Error", err)
}

// KindOf returns the kind of the first AppError in err's chain, or ServerError
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}
