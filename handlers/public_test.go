package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rsbackend/core"
	"rsbackend/models"
	"rsbackend/services/feedback"
	"rsbackend/services/meta"
	"rsbackend/services/repositories"
)

type publicHandlerMocks struct {
	meta         *meta.MockMetaService
	repositories *repositories.MockRepositoriesService
	feedback     *feedback.MockFeedbackService
}

func newPublicTestRouter() (*mux.Router, *publicHandlerMocks) {
	mocks := &publicHandlerMocks{
		meta:         new(meta.MockMetaService),
		repositories: new(repositories.MockRepositoriesService),
		feedback:     new(feedback.MockFeedbackService),
	}

	router := mux.NewRouter()
	NewPublicHTTPHandler(mocks.meta, mocks.repositories, mocks.feedback).SetupEndpoints(router)
	return router, mocks
}

func getPublic(router *mux.Router, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", path, nil))
	return recorder
}

func TestHandleListLanguages(t *testing.T) {
	router, mocks := newPublicTestRouter()

	mocks.meta.On("ListLanguages", mock.Anything).Return([]models.Language{
		{ID: 1, MatchingName: "go", DisplayName: "Go"},
		{ID: 2, MatchingName: "rust", DisplayName: "Rust"},
	}, nil)

	recorder := getPublic(router, "/public/meta/languages")

	require.Equal(t, http.StatusOK, recorder.Code)

	var languages []models.Language
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&languages))
	require.Len(t, languages, 2)
	assert.Equal(t, "Go", languages[0].DisplayName)
}

func TestHandleGetRepository(t *testing.T) {
	t.Run("returns_repository", func(t *testing.T) {
		router, mocks := newPublicTestRouter()

		mocks.repositories.On("GetRepositoryByID", mock.Anything, int64(42)).
			Return(mo.Some(&models.Repository{ID: 42, Owner: "acme-org", Name: "widgets"}), nil)

		recorder := getPublic(router, "/public/repositories/42")

		require.Equal(t, http.StatusOK, recorder.Code)

		var repo models.Repository
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&repo))
		assert.Equal(t, "widgets", repo.Name)
	})

	t.Run("unknown_repository_is_404", func(t *testing.T) {
		router, mocks := newPublicTestRouter()

		mocks.repositories.On("GetRepositoryByID", mock.Anything, int64(42)).
			Return(mo.None[*models.Repository](), nil)

		recorder := getPublic(router, "/public/repositories/42")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "NOT_FOUND", decodeErrorCode(t, recorder.Body))
	})
}

func TestHandleGetRepositoryStats(t *testing.T) {
	t.Run("returns_feedback_stats", func(t *testing.T) {
		router, mocks := newPublicTestRouter()

		difficulty := 3
		responsiveness := 4
		mocks.feedback.On("GetRepositoryFeedbackStats", mock.Anything, int64(42)).
			Return(&models.FeedbackAggregate{
				RepoID:                  42,
				AvgDifficultyBucket:     &difficulty,
				AvgResponsivenessBucket: &responsiveness,
				FeedbackCount:           7,
			}, nil)

		recorder := getPublic(router, "/public/repositories/42/stats")

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp repositoryStatsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 7, resp.Feedback.Count)
		require.NotNil(t, resp.Feedback.AvgDifficultyBucket)
		assert.Equal(t, 3, *resp.Feedback.AvgDifficultyBucket)
		require.NotNil(t, resp.Feedback.AvgResponsivenessBucket)
		assert.Equal(t, 4, *resp.Feedback.AvgResponsivenessBucket)
	})

	t.Run("repository_without_feedback_reports_zero", func(t *testing.T) {
		router, mocks := newPublicTestRouter()

		mocks.feedback.On("GetRepositoryFeedbackStats", mock.Anything, int64(42)).
			Return(&models.FeedbackAggregate{RepoID: 42}, nil)

		recorder := getPublic(router, "/public/repositories/42/stats")

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp repositoryStatsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 0, resp.Feedback.Count)
		assert.Nil(t, resp.Feedback.AvgDifficultyBucket)
		assert.Nil(t, resp.Feedback.AvgResponsivenessBucket)
	})

	t.Run("non_numeric_id_is_400", func(t *testing.T) {
		router, mocks := newPublicTestRouter()

		recorder := getPublic(router, "/public/repositories/abc/stats")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "INVALID_INPUT", decodeErrorCode(t, recorder.Body))
		mocks.feedback.AssertNotCalled(t, "GetRepositoryFeedbackStats", mock.Anything, mock.Anything)
	})

	t.Run("unknown_repository_is_404", func(t *testing.T) {
		router, mocks := newPublicTestRouter()

		mocks.feedback.On("GetRepositoryFeedbackStats", mock.Anything, int64(42)).
			Return(nil, core.NewNotFoundError("Repository"))

		recorder := getPublic(router, "/public/repositories/42/stats")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "NOT_FOUND", decodeErrorCode(t, recorder.Body))
	})
}
