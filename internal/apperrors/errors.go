package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrPricing indicates that a price could not be derived, e.g. a zero sell rate.
var ErrPricing = errors.New("pricing error")

// ErrPersistence indicates that a write could not be committed. No partial state survives it.
var ErrPersistence = errors.New("persistence error")

// ErrPrint indicates that the print dispatch failed. It never rolls back a recorded transaction.
var ErrPrint = errors.New("print error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. Repositories only raise 5xx codes for
// storage failures, so those also match ErrPersistence.
func NewAppError(code int, message string, err error) *AppError {
	if code >= http.StatusInternalServerError && !errors.Is(err, ErrPersistence) {
		err = errors.Join(ErrPersistence, err)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(message string) error {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) error {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewPersistenceError wraps a storage failure so it matches ErrPersistence while keeping the cause.
func NewPersistenceError(message string, cause error) error {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: errors.Join(ErrPersistence, cause)}
}

// StatusCode maps an error onto the HTTP status the handlers respond with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPricing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrPrint):
		return http.StatusBadGateway
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
