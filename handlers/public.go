package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rsbackend/core"
	"rsbackend/services"
)

// PublicHTTPHandler exposes the unauthenticated discovery surface.
type PublicHTTPHandler struct {
	metaService         services.MetaService
	repositoriesService services.RepositoriesService
	feedbackService     services.FeedbackService
}

func NewPublicHTTPHandler(
	metaService services.MetaService,
	repositoriesService services.RepositoriesService,
	feedbackService services.FeedbackService,
) *PublicHTTPHandler {
	return &PublicHTTPHandler{
		metaService:         metaService,
		repositoriesService: repositoriesService,
		feedbackService:     feedbackService,
	}
}

type repositoryFeedbackStatsResponse struct {
	Count                   int  `json:"count"`
	AvgDifficultyBucket     *int `json:"avgDifficultyBucket"`
	AvgResponsivenessBucket *int `json:"avgResponsivenessBucket"`
}

type repositoryStatsResponse struct {
	Feedback repositoryFeedbackStatsResponse `json:"feedback"`
}

func (h *PublicHTTPHandler) HandleListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.metaService.ListLanguages(r.Context())
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, languages)
}

func (h *PublicHTTPHandler) HandleListFrameworks(w http.ResponseWriter, r *http.Request) {
	frameworks, err := h.metaService.ListFrameworksGrouped(r.Context())
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, frameworks)
}

func (h *PublicHTTPHandler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.metaService.ListDomains(r.Context())
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, domains)
}

func (h *PublicHTTPHandler) HandleGetRepository(w http.ResponseWriter, r *http.Request) {
	repoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErrorResponse(w, core.NewValidationError("repository id must be numeric"))
		return
	}

	maybeRepo, err := h.repositoriesService.GetRepositoryByID(r.Context(), repoID)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	if !maybeRepo.IsPresent() {
		writeErrorResponse(w, core.NewNotFoundError("Repository"))
		return
	}

	writeJSONResponse(w, http.StatusOK, maybeRepo.MustGet())
}

func (h *PublicHTTPHandler) HandleGetRepositoryStats(w http.ResponseWriter, r *http.Request) {
	repoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErrorResponse(w, core.NewValidationError("repository id must be numeric"))
		return
	}

	aggregate, err := h.feedbackService.GetRepositoryFeedbackStats(r.Context(), repoID)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, repositoryStatsResponse{
		Feedback: repositoryFeedbackStatsResponse{
			Count:                   aggregate.FeedbackCount,
			AvgDifficultyBucket:     aggregate.AvgDifficultyBucket,
			AvgResponsivenessBucket: aggregate.AvgResponsivenessBucket,
		},
	})
}

func (h *PublicHTTPHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering public endpoints")

	router.HandleFunc("/public/meta/languages", h.HandleListLanguages).Methods("GET")
	log.Printf("✅ GET /public/meta/languages endpoint registered")

	router.HandleFunc("/public/meta/frameworks", h.HandleListFrameworks).Methods("GET")
	log.Printf("✅ GET /public/meta/frameworks endpoint registered")

	router.HandleFunc("/public/meta/domains", h.HandleListDomains).Methods("GET")
	log.Printf("✅ GET /public/meta/domains endpoint registered")

	router.HandleFunc("/public/repositories/{id}", h.HandleGetRepository).Methods("GET")
	log.Printf("✅ GET /public/repositories/{id} endpoint registered")

	router.HandleFunc("/public/repositories/{id}/stats", h.HandleGetRepositoryStats).Methods("GET")
	log.Printf("✅ GET /public/repositories/{id}/stats endpoint registered")
}
