package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable machine-readable code returned to API clients.
type ErrorCode string

const (
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound              ErrorCode = "NOT_FOUND"
	ErrCodeSetupAlreadyCompleted ErrorCode = "SETUP_ALREADY_COMPLETED"
	ErrCodeSetupWindowExpired    ErrorCode = "SETUP_WINDOW_EXPIRED"
	ErrCodeInstallationInvalid   ErrorCode = "INSTALLATION_INVALID"
	ErrCodeGitHubUnavailable     ErrorCode = "GITHUB_UNAVAILABLE"
	ErrCodeUnauthorized          ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// AppError is the closed error taxonomy for the API surface. Handlers branch
// on Code; Err carries the server-side cause and is never sent to clients.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to its client-visible status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeSetupAlreadyCompleted:
		return http.StatusConflict
	case ErrCodeSetupWindowExpired:
		return http.StatusGone
	case ErrCodeInstallationInvalid:
		return http.StatusForbidden
	case ErrCodeGitHubUnavailable:
		return http.StatusBadGateway
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewSetupAlreadyCompletedError() *AppError {
	return &AppError{Code: ErrCodeSetupAlreadyCompleted, Message: "Setup has already been completed"}
}

func NewSetupWindowExpiredError() *AppError {
	return &AppError{Code: ErrCodeSetupWindowExpired, Message: "Setup window has expired"}
}

func NewInstallationInvalidError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInstallationInvalid, Message: message, Err: cause}
}

func NewGitHubUnavailableError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeGitHubUnavailable, Message: message, Err: cause}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorCode reports whether err carries the given taxonomy code.
func IsErrorCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
