package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rsbackend/core"
	"rsbackend/middleware"
	"rsbackend/models"
	"rsbackend/services"
)

// BotHTTPHandler exposes the endpoints used by the webhook relay bot. All
// routes sit behind shared-secret bearer auth.
type BotHTTPHandler struct {
	installationsService services.InstallationsService
	repositoriesService  services.RepositoriesService
	feedbackService      services.FeedbackService
	auditLogService      services.AuditLogService
}

func NewBotHTTPHandler(
	installationsService services.InstallationsService,
	repositoriesService services.RepositoriesService,
	feedbackService services.FeedbackService,
	auditLogService services.AuditLogService,
) *BotHTTPHandler {
	return &BotHTTPHandler{
		installationsService: installationsService,
		repositoriesService:  repositoriesService,
		feedbackService:      feedbackService,
		auditLogService:      auditLogService,
	}
}

type syncRepositoryRequest struct {
	GitHubRepoID int64  `json:"githubRepoId"`
	Owner        string `json:"owner"`
	Name         string `json:"name"`
	State        string `json:"state"`
}

type syncInstallationRequest struct {
	Installation struct {
		GitHubInstallationID int64  `json:"githubInstallationId"`
		AccountType          string `json:"accountType"`
		AccountLogin         string `json:"accountLogin"`
		SetupCompleted       bool   `json:"setupCompleted"`
	} `json:"installation"`
	Repositories []syncRepositoryRequest `json:"repositories"`
}

type actorRequest struct {
	GitHubID *int64  `json:"githubId"`
	Username *string `json:"username"`
}

type updateSettingsRequest struct {
	Description         *string      `json:"reposignalDescription"`
	State               *string      `json:"state"`
	AllowUnclassified   *bool        `json:"allowUnclassified"`
	AllowClassification *bool        `json:"allowClassification"`
	AllowInference      *bool        `json:"allowInference"`
	FeedbackEnabled     *bool        `json:"feedbackEnabled"`
	Actor               actorRequest `json:"actor"`
}

type updateMetadataRequest struct {
	GitHubRepoID    int64        `json:"githubRepoId"`
	StarsCount      *int         `json:"starsCount"`
	ForksCount      *int         `json:"forksCount"`
	OpenIssuesCount *int         `json:"openIssuesCount"`
	Actor           actorRequest `json:"actor"`
}

type submitFeedbackRequest struct {
	GitHubRepoID         int64 `json:"githubRepoId"`
	GitHubPRID           int64 `json:"githubPrId"`
	DifficultyRating     *int  `json:"difficultyRating"`
	ResponsivenessRating *int  `json:"responsivenessRating"`
}

type writeLogRequest struct {
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Context    map[string]any `json:"context"`
}

func (h *BotHTTPHandler) HandleSyncInstallation(w http.ResponseWriter, r *http.Request) {
	log.Printf("🤖 Installation sync request received from %s", r.RemoteAddr)

	var req syncInstallationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, core.NewValidationError("request body must be valid JSON"))
		return
	}

	if req.Installation.GitHubInstallationID <= 0 {
		writeErrorResponse(w, core.NewValidationError("installation.githubInstallationId must be positive"))
		return
	}
	if !models.IsValidAccountType(req.Installation.AccountType) {
		writeErrorResponse(w, core.NewValidationError(`installation.accountType must be "user" or "org"`))
		return
	}
	if req.Installation.AccountLogin == "" {
		writeErrorResponse(w, core.NewValidationError("installation.accountLogin is required"))
		return
	}

	params := services.SyncInstallationParams{
		GitHubInstallationID: req.Installation.GitHubInstallationID,
		AccountType:          models.AccountType(req.Installation.AccountType),
		AccountLogin:         req.Installation.AccountLogin,
		SetupCompleted:       req.Installation.SetupCompleted,
	}
	for _, repo := range req.Repositories {
		if repo.State != "" && !models.IsValidRepoState(repo.State) {
			writeErrorResponse(w, core.NewValidationError(`Repository state must be "off", "public", or "paused"`))
			return
		}
		params.Repositories = append(params.Repositories, services.SyncRepository{
			GitHubRepoID: repo.GitHubRepoID,
			Owner:        repo.Owner,
			Name:         repo.Name,
			State:        models.RepoState(repo.State),
		})
	}

	installation, err := h.installationsService.SyncInstallation(r.Context(), params)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, installation)
}

func (h *BotHTTPHandler) HandleUpdateRepositorySettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("🤖 Repository settings update request received from %s", r.RemoteAddr)

	repoID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErrorResponse(w, core.NewValidationError("repository id must be numeric"))
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, core.NewValidationError("request body must be valid JSON"))
		return
	}

	patch := services.RepositorySettingsPatch{
		Description:         req.Description,
		AllowUnclassified:   req.AllowUnclassified,
		AllowClassification: req.AllowClassification,
		AllowInference:      req.AllowInference,
		FeedbackEnabled:     req.FeedbackEnabled,
	}
	if req.State != nil {
		if !models.IsValidRepoState(*req.State) {
			writeErrorResponse(w, core.NewValidationError(`Repository state must be "off", "public", or "paused"`))
			return
		}
		state := models.RepoState(*req.State)
		patch.State = &state
	}

	// The bot relays a maintainer's intent; the acting user comes from the
	// request body, not from the bot credential.
	actor := models.UserActor(req.Actor.GitHubID, req.Actor.Username)

	repo, err := h.repositoriesService.UpdateRepositorySettings(r.Context(), repoID, patch, actor)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, repo)
}

func (h *BotHTTPHandler) HandleUpdateRepositoryMetadata(w http.ResponseWriter, r *http.Request) {
	log.Printf("🤖 Repository metadata update request received from %s", r.RemoteAddr)

	var req updateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, core.NewValidationError("request body must be valid JSON"))
		return
	}

	if req.GitHubRepoID <= 0 {
		writeErrorResponse(w, core.NewValidationError("githubRepoId must be positive"))
		return
	}

	patch := services.RepositoryMetadataPatch{
		StarsCount:      req.StarsCount,
		ForksCount:      req.ForksCount,
		OpenIssuesCount: req.OpenIssuesCount,
	}
	actor := models.UserActor(req.Actor.GitHubID, req.Actor.Username)

	repo, err := h.repositoriesService.UpdateRepositoryMetadata(r.Context(), req.GitHubRepoID, patch, actor)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, repo)
}

func (h *BotHTTPHandler) HandleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	log.Printf("🤖 Feedback submission request received from %s", r.RemoteAddr)

	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, core.NewValidationError("request body must be valid JSON"))
		return
	}

	err := h.feedbackService.SubmitFeedback(r.Context(), services.FeedbackSubmission{
		GitHubRepoID:         req.GitHubRepoID,
		GitHubPRID:           req.GitHubPRID,
		DifficultyRating:     req.DifficultyRating,
		ResponsivenessRating: req.ResponsivenessRating,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *BotHTTPHandler) HandleWriteLog(w http.ResponseWriter, r *http.Request) {
	log.Printf("🤖 Log write request received from %s", r.RemoteAddr)

	var req writeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, core.NewValidationError("request body must be valid JSON"))
		return
	}

	if req.Action == "" {
		writeErrorResponse(w, core.NewValidationError("action is required"))
		return
	}
	if req.EntityType == "" {
		writeErrorResponse(w, core.NewValidationError("entityType is required"))
		return
	}
	if req.EntityID == "" {
		writeErrorResponse(w, core.NewValidationError("entityId is required"))
		return
	}

	// Persistence failures surface as 500 without internal detail
	err := h.auditLogService.Record(r.Context(), models.BotActor(), req.Action, req.EntityType, req.EntityID, req.Context)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *BotHTTPHandler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	log.Printf("🤖 Log list request received from %s", r.RemoteAddr)

	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorResponse(w, core.NewValidationError("limit must be numeric"))
			return
		}
		limit = parsed
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorResponse(w, core.NewValidationError("offset must be numeric"))
			return
		}
		offset = parsed
	}

	logs, err := h.auditLogService.ListAuditLogs(r.Context(), query.Get("entityId"), limit, offset)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, logs)
}

func (h *BotHTTPHandler) SetupEndpoints(router *mux.Router, botAuth *middleware.BotAuthMiddleware) {
	log.Printf("🚀 Registering bot endpoints")

	router.HandleFunc("/bot/installations/sync", botAuth.WithBotAuth(h.HandleSyncInstallation)).Methods("POST")
	log.Printf("✅ POST /bot/installations/sync endpoint registered")

	router.HandleFunc("/bot/repositories/{id}/settings", botAuth.WithBotAuth(h.HandleUpdateRepositorySettings)).
		Methods("POST")
	log.Printf("✅ POST /bot/repositories/{id}/settings endpoint registered")

	router.HandleFunc("/bot/repositories/metadata", botAuth.WithBotAuth(h.HandleUpdateRepositoryMetadata)).
		Methods("POST")
	log.Printf("✅ POST /bot/repositories/metadata endpoint registered")

	router.HandleFunc("/bot/feedback", botAuth.WithBotAuth(h.HandleSubmitFeedback)).Methods("POST")
	log.Printf("✅ POST /bot/feedback endpoint registered")

	router.HandleFunc("/bot/logs", botAuth.WithBotAuth(h.HandleWriteLog)).Methods("POST")
	log.Printf("✅ POST /bot/logs endpoint registered")

	router.HandleFunc("/bot/logs", botAuth.WithBotAuth(h.HandleListLogs)).Methods("GET")
	log.Printf("✅ GET /bot/logs endpoint registered")
}
