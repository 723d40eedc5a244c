// Package errors provides unified error handling for the to-do list API.
// It implements structured error types with error codes, HTTP status mapping,
// and a JSON response envelope rendered at the controller boundary.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code this error maps to.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Domain Error Constructors ---

// UserNotFound creates a new AppError for a missing user.
func UserNotFound(id string) *AppError {
	return &AppError{
		Code: ErrCodeUserNotFound, Message: "User not found.",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"user_id": id},
	}
}

// TaskNotFound creates a new AppError for a missing task.
func TaskNotFound(id string) *AppError {
	return &AppError{
		Code: ErrCodeTaskNotFound, Message: "Task not found.",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"task_id": id},
	}
}

// UserAlreadyExists creates a new AppError for a duplicate login key.
func UserAlreadyExists(username string) *AppError {
	return &AppError{
		Code: ErrCodeUserAlreadyExists, Message: fmt.Sprintf("User %s already exists.", username),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"username": username},
	}
}

// Unauthorized creates a new AppError for a caller that is authenticated but
// not entitled to the resource, or for failed authentication. The attempted
// resource id is carried in details for diagnostics.
func Unauthorized(attemptedID string) *AppError {
	e := &AppError{
		Code: ErrCodeUnauthorized, Message: "Unauthorized user.",
		HTTPStatus: http.StatusUnauthorized,
	}
	if attemptedID != "" {
		e.Details = map[string]any{"attempted_id": attemptedID}
	}
	return e
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// InvalidEmail creates a new AppError for a malformed email address.
func InvalidEmail(email string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid email address: %s", email),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": "email"},
	}
}

// TokenCreation creates a new AppError for a failed token signing. The
// underlying cause is always carried in the message chain.
func TokenCreation(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTokenCreation, Message: "Error while generating token.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// TokenExpired creates a new AppError for an expired authentication token.
// Kept distinct from InvalidToken so clients can tell re-login from reject.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Token has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a new AppError for a malformed or unverifiable token.
func InvalidToken(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid authentication token.",
		HTTPStatus: http.StatusUnauthorized, Cause: cause,
	}
}

// Internal creates a new AppError for an internal server error. The cause is
// never rendered into the response body.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a database error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
