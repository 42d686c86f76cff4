package shared

import (
	"errors"
	"net/http"
)

// AppError is the closed set of failures handlers are allowed to surface.
// The HTTP error handler maps everything else to a generic 500.
type AppError struct {
	StatusCode int         `json:"-"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(err error, message string) *AppError {
	if message == "" {
		message = "Bad Request"
	}
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Err: err}
}

func NewNotFoundError(err error, message string) *AppError {
	if message == "" {
		message = "Not Found"
	}
	return &AppError{StatusCode: http.StatusNotFound, Message: message, Err: err}
}

// NewUnauthorizedError always carries a generic message so the underlying
// cause never leaks to the client.
func NewUnauthorizedError(err error) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized access", Err: err}
}

func NewForbiddenError(err error) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: "Forbidden", Err: err}
}

func NewConflictError(err error, message string) *AppError {
	if message == "" {
		message = "Conflict"
	}
	return &AppError{StatusCode: http.StatusConflict, Message: message, Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: "An internal server error occurred", Err: err}
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
