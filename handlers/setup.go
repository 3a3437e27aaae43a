package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rsbackend/core"
	"rsbackend/models"
	"rsbackend/services"
)

// SetupHTTPHandler exposes the public (unauthenticated) setup endpoints.
// Every request is re-validated against GitHub by the setup service before
// anything is returned or mutated.
type SetupHTTPHandler struct {
	setupService services.SetupService
}

func NewSetupHTTPHandler(setupService services.SetupService) *SetupHTTPHandler {
	return &SetupHTTPHandler{setupService: setupService}
}

type setupRepositoryResponse struct {
	ID    int64  `json:"id"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type setupContextResponse struct {
	AccountLogin   string                    `json:"accountLogin"`
	Repositories   []setupRepositoryResponse `json:"repositories"`
	SetupExpiresAt string                    `json:"setupExpiresAt"`
}

type completeSetupRepository struct {
	RepoID *int64  `json:"repoId"`
	State  *string `json:"state"`
}

type completeSetupSettings struct {
	AllowUnclassified   *bool `json:"allowUnclassified"`
	AllowClassification *bool `json:"allowClassification"`
	AllowInference      *bool `json:"allowInference"`
	FeedbackEnabled     *bool `json:"feedbackEnabled"`
}

type completeSetupRequest struct {
	InstallationID *int64                    `json:"installation_id"`
	Repositories   []completeSetupRepository `json:"repositories"`
	Settings       *completeSetupSettings    `json:"settings"`
}

func (h *SetupHTTPHandler) HandleGetSetupContext(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔧 Setup context request received from %s", r.RemoteAddr)

	installationIDParam := r.URL.Query().Get("installation_id")
	if installationIDParam == "" {
		writeErrorResponse(w, core.NewValidationError("installation_id is required"))
		return
	}

	installationID, err := strconv.ParseInt(installationIDParam, 10, 64)
	if err != nil {
		writeErrorResponse(w, core.NewValidationError("installation_id must be numeric"))
		return
	}
	if installationID <= 0 {
		writeErrorResponse(w, core.NewValidationError("installation_id must be positive"))
		return
	}

	setupContext, err := h.setupService.GetSetupContext(r.Context(), installationID)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	repositories := make([]setupRepositoryResponse, 0, len(setupContext.Repositories))
	for _, repo := range setupContext.Repositories {
		repositories = append(repositories, setupRepositoryResponse{
			ID:    repo.ID,
			Owner: repo.Owner,
			Name:  repo.Name,
			State: string(repo.State),
		})
	}

	writeJSONResponse(w, http.StatusOK, setupContextResponse{
		AccountLogin:   setupContext.AccountLogin,
		Repositories:   repositories,
		SetupExpiresAt: setupContext.SetupExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *SetupHTTPHandler) HandleCompleteSetup(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔧 Setup completion request received from %s", r.RemoteAddr)

	var req completeSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, core.NewValidationError("request body must be valid JSON"))
		return
	}

	if req.InstallationID == nil {
		writeErrorResponse(w, core.NewValidationError("installation_id must be numeric"))
		return
	}
	if *req.InstallationID <= 0 {
		writeErrorResponse(w, core.NewValidationError("installation_id must be positive"))
		return
	}
	if req.Repositories == nil {
		writeErrorResponse(w, core.NewValidationError("repositories must be an array"))
		return
	}
	if req.Settings == nil {
		writeErrorResponse(w, core.NewValidationError("settings object is required"))
		return
	}

	updates := make([]services.SetupRepositoryUpdate, 0, len(req.Repositories))
	for _, repo := range req.Repositories {
		if repo.RepoID == nil {
			writeErrorResponse(w, core.NewValidationError("Each repository must have a numeric repoId"))
			return
		}
		if repo.State == nil || !models.IsValidRepoState(*repo.State) {
			writeErrorResponse(w, core.NewValidationError(`Repository state must be "off", "public", or "paused"`))
			return
		}
		updates = append(updates, services.SetupRepositoryUpdate{
			RepoID: *repo.RepoID,
			State:  models.RepoState(*repo.State),
		})
	}

	if req.Settings.AllowUnclassified == nil ||
		req.Settings.AllowClassification == nil ||
		req.Settings.AllowInference == nil ||
		req.Settings.FeedbackEnabled == nil {
		writeErrorResponse(w, core.NewValidationError("All settings must be boolean values"))
		return
	}

	settings := models.RepoSettings{
		AllowUnclassified:   *req.Settings.AllowUnclassified,
		AllowClassification: *req.Settings.AllowClassification,
		AllowInference:      *req.Settings.AllowInference,
		FeedbackEnabled:     *req.Settings.FeedbackEnabled,
	}

	if err := h.setupService.CompleteSetup(r.Context(), *req.InstallationID, updates, settings); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SetupHTTPHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering setup endpoints")

	router.HandleFunc("/setup/context", h.HandleGetSetupContext).Methods("GET")
	log.Printf("✅ GET /setup/context endpoint registered")

	router.HandleFunc("/setup/complete", h.HandleCompleteSetup).Methods("POST")
	log.Printf("✅ POST /setup/complete endpoint registered")
}
