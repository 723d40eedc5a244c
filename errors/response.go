package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON structure returned to clients.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
// The cause chain is deliberately excluded.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
	}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a user- or task-not-found error.
func IsNotFound(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && (appErr.Code == ErrCodeUserNotFound || appErr.Code == ErrCodeTaskNotFound)
}

// IsUnauthorized reports whether err maps to an authentication or
// authorization failure.
func IsUnauthorized(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeInvalidToken:
		return true
	}
	return false
}
