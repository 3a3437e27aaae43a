package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rsbackend/core"
	"rsbackend/models"
	"rsbackend/services"
	"rsbackend/services/setup"
)

func newSetupTestRouter(mockService *setup.MockSetupService) *mux.Router {
	router := mux.NewRouter()
	NewSetupHTTPHandler(mockService).SetupEndpoints(router)
	return router
}

func decodeErrorCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error.Code
}

func TestHandleGetSetupContext(t *testing.T) {
	t.Run("returns_setup_context", func(t *testing.T) {
		mockService := new(setup.MockSetupService)
		router := newSetupTestRouter(mockService)

		expiresAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
		mockService.On("GetSetupContext", mock.Anything, int64(555)).Return(&services.SetupContext{
			AccountLogin: "acme-org",
			Repositories: []models.Repository{
				{ID: 1, Owner: "acme-org", Name: "widgets", State: models.RepoStateOff},
			},
			SetupExpiresAt: expiresAt,
		}, nil)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", "/setup/context?installation_id=555", nil))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp setupContextResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "acme-org", resp.AccountLogin)
		require.Len(t, resp.Repositories, 1)
		assert.Equal(t, int64(1), resp.Repositories[0].ID)
		assert.Equal(t, "off", resp.Repositories[0].State)
		assert.Equal(t, "2026-03-14T12:30:00Z", resp.SetupExpiresAt)
	})

	t.Run("missing_installation_id_is_400", func(t *testing.T) {
		router := newSetupTestRouter(new(setup.MockSetupService))

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", "/setup/context", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "INVALID_INPUT", decodeErrorCode(t, recorder.Body))
	})

	t.Run("non_numeric_installation_id_is_400", func(t *testing.T) {
		router := newSetupTestRouter(new(setup.MockSetupService))

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", "/setup/context?installation_id=abc", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("non_positive_installation_id_is_400", func(t *testing.T) {
		for _, param := range []string{"-5", "0"} {
			mockService := new(setup.MockSetupService)
			router := newSetupTestRouter(mockService)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest("GET", "/setup/context?installation_id="+param, nil))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "INVALID_INPUT", decodeErrorCode(t, recorder.Body))
			mockService.AssertNotCalled(t, "GetSetupContext", mock.Anything, mock.Anything)
		}
	})

	t.Run("maps_taxonomy_errors_to_statuses", func(t *testing.T) {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"not_found", core.NewNotFoundError("Installation"), http.StatusNotFound, "NOT_FOUND"},
			{"already_completed", core.NewSetupAlreadyCompletedError(), http.StatusConflict, "SETUP_ALREADY_COMPLETED"},
			{"window_expired", core.NewSetupWindowExpiredError(), http.StatusGone, "SETUP_WINDOW_EXPIRED"},
			{"installation_invalid", core.NewInstallationInvalidError("revoked", nil), http.StatusForbidden, "INSTALLATION_INVALID"},
			{"github_unavailable", core.NewGitHubUnavailableError("status 500", nil), http.StatusBadGateway, "GITHUB_UNAVAILABLE"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockService := new(setup.MockSetupService)
				mockService.On("GetSetupContext", mock.Anything, int64(555)).
					Return(nil, tc.err)
				router := newSetupTestRouter(mockService)

				recorder := httptest.NewRecorder()
				router.ServeHTTP(recorder, httptest.NewRequest("GET", "/setup/context?installation_id=555", nil))

				assert.Equal(t, tc.status, recorder.Code)
				assert.Equal(t, tc.code, decodeErrorCode(t, recorder.Body))
			})
		}
	})

	t.Run("unknown_errors_become_500_without_detail", func(t *testing.T) {
		mockService := new(setup.MockSetupService)
		mockService.On("GetSetupContext", mock.Anything, int64(555)).
			Return(nil, assert.AnError)
		router := newSetupTestRouter(mockService)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", "/setup/context?installation_id=555", nil))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		body := recorder.Body.String()
		assert.Contains(t, body, "INTERNAL_ERROR")
		assert.NotContains(t, body, assert.AnError.Error())
	})
}

func TestHandleCompleteSetup(t *testing.T) {
	validBody := `{
		"installation_id": 555,
		"repositories": [{"repoId": 1, "state": "public"}],
		"settings": {
			"allowUnclassified": true,
			"allowClassification": true,
			"allowInference": false,
			"feedbackEnabled": true
		}
	}`

	postComplete := func(router *mux.Router, body string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/setup/complete", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("completes_setup", func(t *testing.T) {
		mockService := new(setup.MockSetupService)
		mockService.On("CompleteSetup", mock.Anything, int64(555),
			[]services.SetupRepositoryUpdate{{RepoID: 1, State: models.RepoStatePublic}},
			models.RepoSettings{
				AllowUnclassified:   true,
				AllowClassification: true,
				AllowInference:      false,
				FeedbackEnabled:     true,
			}).Return(nil)
		router := newSetupTestRouter(mockService)

		recorder := postComplete(router, validBody)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"success":true}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("rejects_malformed_json", func(t *testing.T) {
		router := newSetupTestRouter(new(setup.MockSetupService))

		recorder := postComplete(router, `{not json`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects_missing_fields", func(t *testing.T) {
		cases := []struct {
			name string
			body string
		}{
			{"missing_installation_id", `{"repositories":[],"settings":{"allowUnclassified":true,"allowClassification":true,"allowInference":true,"feedbackEnabled":true}}`},
			{"negative_installation_id", `{"installation_id":-5,"repositories":[],"settings":{"allowUnclassified":true,"allowClassification":true,"allowInference":true,"feedbackEnabled":true}}`},
			{"missing_repositories", `{"installation_id":555,"settings":{"allowUnclassified":true,"allowClassification":true,"allowInference":true,"feedbackEnabled":true}}`},
			{"missing_settings", `{"installation_id":555,"repositories":[]}`},
			{"repository_without_repo_id", `{"installation_id":555,"repositories":[{"state":"public"}],"settings":{"allowUnclassified":true,"allowClassification":true,"allowInference":true,"feedbackEnabled":true}}`},
			{"repository_with_bad_state", `{"installation_id":555,"repositories":[{"repoId":1,"state":"archived"}],"settings":{"allowUnclassified":true,"allowClassification":true,"allowInference":true,"feedbackEnabled":true}}`},
			{"settings_with_missing_flag", `{"installation_id":555,"repositories":[{"repoId":1,"state":"public"}],"settings":{"allowUnclassified":true,"allowClassification":true,"allowInference":true}}`},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockService := new(setup.MockSetupService)
				router := newSetupTestRouter(mockService)

				recorder := postComplete(router, tc.body)

				assert.Equal(t, http.StatusBadRequest, recorder.Code)
				assert.Equal(t, "INVALID_INPUT", decodeErrorCode(t, recorder.Body))
				mockService.AssertNotCalled(t, "CompleteSetup",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("second_completion_returns_conflict", func(t *testing.T) {
		mockService := new(setup.MockSetupService)
		mockService.On("CompleteSetup", mock.Anything, int64(555), mock.Anything, mock.Anything).
			Return(core.NewSetupAlreadyCompletedError())
		router := newSetupTestRouter(mockService)

		recorder := postComplete(router, validBody)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, "SETUP_ALREADY_COMPLETED", decodeErrorCode(t, recorder.Body))
	})
}
