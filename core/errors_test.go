package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewValidationError("bad input"), http.StatusBadRequest},
		{NewNotFoundError("Installation"), http.StatusNotFound},
		{NewSetupAlreadyCompletedError(), http.StatusConflict},
		{NewSetupWindowExpiredError(), http.StatusGone},
		{NewInstallationInvalidError("revoked", nil), http.StatusForbidden},
		{NewGitHubUnavailableError("timeout", nil), http.StatusBadGateway},
		{NewUnauthorizedError("bad key"), http.StatusUnauthorized},
		{&AppError{Code: ErrCodeInternal, Message: "boom"}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.err.Code), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.HTTPStatus())
		})
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("unwraps_through_fmt_errorf", func(t *testing.T) {
		wrapped := fmt.Errorf("service failed: %w", NewSetupWindowExpiredError())

		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeSetupWindowExpired, appErr.Code)
	})

	t.Run("plain_errors_do_not_match", func(t *testing.T) {
		_, ok := AsAppError(errors.New("plain"))
		assert.False(t, ok)
	})
}

func TestIsErrorCode(t *testing.T) {
	err := NewGitHubUnavailableError("status 500", errors.New("upstream"))

	assert.True(t, IsErrorCode(err, ErrCodeGitHubUnavailable))
	assert.False(t, IsErrorCode(err, ErrCodeInstallationInvalid))
	assert.False(t, IsErrorCode(nil, ErrCodeGitHubUnavailable))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewGitHubUnavailableError("installation token request failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "GITHUB_UNAVAILABLE")
	assert.Contains(t, err.Error(), "connection refused")
}
