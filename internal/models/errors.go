package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStaleWrite         = "STALE_WRITE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorDetail is a single entry of the error envelope.
type ErrorDetail struct {
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
}

// ErrorResponse is the uniform error envelope returned by every endpoint.
type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Details holds additional user-facing messages, e.g. one per invalid field.
	Details []string
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

// Predefined error constructors
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NewValidationError(message string, details ...string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInvalidCredentialsError is returned for both an unknown email and a wrong password.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid Credentials",
	}
}

// NewStaleWriteError reports a lost optimistic-concurrency race on an aggregate.
func NewStaleWriteError(resource string) *AppError {
	return &AppError{
		Code:    CodeStaleWrite,
		Message: resource + " was modified concurrently, retry the request",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Server error",
		Err:     err,
	}
}

// AsAppError unwraps err into an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch AsAppError(err).Code {
	case CodeValidation, CodeConflict, CodeInvalidCredentials:
		return fiber.StatusBadRequest
	case CodeUnauthorized, CodeForbidden:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeStaleWrite:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the error envelope. Internal causes are never exposed.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	appErr := AsAppError(err)

	response := ErrorResponse{
		Errors: []ErrorDetail{{Msg: appErr.Message, Code: appErr.Code}},
	}
	for _, d := range appErr.Details {
		response.Errors = append(response.Errors, ErrorDetail{Msg: d, Code: appErr.Code})
	}

	return c.Status(status).JSON(response)
}
