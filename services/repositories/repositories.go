package repositories

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"rsbackend/core"
	"rsbackend/db"
	"rsbackend/models"
	"rsbackend/services"
)

type RepositoriesService struct {
	repositoriesRepo *db.PostgresRepositoriesRepository
	auditLogService  services.AuditLogService
}

func NewRepositoriesService(
	repo *db.PostgresRepositoriesRepository,
	auditLogService services.AuditLogService,
) *RepositoriesService {
	return &RepositoriesService{
		repositoriesRepo: repo,
		auditLogService:  auditLogService,
	}
}

func (s *RepositoriesService) GetRepositoriesByInstallationID(
	ctx context.Context,
	installationID int64,
) ([]models.Repository, error) {
	if installationID <= 0 {
		return nil, fmt.Errorf("installation ID must be positive")
	}

	return s.repositoriesRepo.GetRepositoriesByInstallationID(ctx, installationID)
}

func (s *RepositoriesService) GetRepositoryByID(
	ctx context.Context,
	id int64,
) (mo.Option[*models.Repository], error) {
	if id <= 0 {
		return mo.None[*models.Repository](), fmt.Errorf("repository ID must be positive")
	}

	return s.repositoriesRepo.GetRepositoryByID(ctx, id)
}

// ApplySetupSelection writes the state and consent flags chosen during
// setup. Returns false if the repository does not exist.
func (s *RepositoriesService) ApplySetupSelection(
	ctx context.Context,
	repoID int64,
	state models.RepoState,
	settings models.RepoSettings,
) (bool, error) {
	if repoID <= 0 {
		return false, fmt.Errorf("repository ID must be positive")
	}
	if !models.IsValidRepoState(string(state)) {
		return false, fmt.Errorf("invalid repository state: %s", state)
	}

	return s.repositoriesRepo.UpdateStateAndSettings(ctx, repoID, state, settings)
}

// UpdateRepositorySettings applies a partial settings patch on behalf of a
// maintainer and records who did it.
func (s *RepositoriesService) UpdateRepositorySettings(
	ctx context.Context,
	repoID int64,
	patch services.RepositorySettingsPatch,
	actor models.Actor,
) (*models.Repository, error) {
	log.Printf("📋 Starting repository settings update for repo: %d", repoID)

	if repoID <= 0 {
		return nil, fmt.Errorf("repository ID must be positive")
	}
	if patch.State != nil && !models.IsValidRepoState(string(*patch.State)) {
		return nil, fmt.Errorf("invalid repository state: %s", *patch.State)
	}

	maybeRepo, err := s.repositoriesRepo.UpdateSettings(ctx, repoID, db.RepositorySettingsPatch{
		Description:         patch.Description,
		State:               patch.State,
		AllowUnclassified:   patch.AllowUnclassified,
		AllowClassification: patch.AllowClassification,
		AllowInference:      patch.AllowInference,
		FeedbackEnabled:     patch.FeedbackEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update repository settings: %w", err)
	}
	if !maybeRepo.IsPresent() {
		return nil, core.NewNotFoundError("Repository")
	}
	repo := maybeRepo.MustGet()

	if err := s.auditLogService.Record(ctx, actor, "repository_settings_updated", "repository",
		fmt.Sprintf("repo:%s/%s", repo.Owner, repo.Name), settingsPatchContext(patch)); err != nil {
		log.Printf("❌ Failed to record settings update audit log: %v", err)
	}

	log.Printf("📋 Completed successfully - updated settings for repo: %d", repoID)
	return repo, nil
}

// UpdateRepositoryMetadata refreshes the GitHub counts the relay reports
// (stars, forks, open issues), keyed by GitHub repo id.
func (s *RepositoriesService) UpdateRepositoryMetadata(
	ctx context.Context,
	githubRepoID int64,
	patch services.RepositoryMetadataPatch,
	actor models.Actor,
) (*models.Repository, error) {
	log.Printf("📋 Starting repository metadata update for github repo: %d", githubRepoID)

	if githubRepoID <= 0 {
		return nil, core.NewValidationError("githubRepoId must be positive")
	}
	for _, count := range []*int{patch.StarsCount, patch.ForksCount, patch.OpenIssuesCount} {
		if count != nil && *count < 0 {
			return nil, core.NewValidationError("metadata counts must not be negative")
		}
	}

	maybeRepo, err := s.repositoriesRepo.UpdateMetadata(ctx, githubRepoID, db.RepositoryMetadataPatch{
		StarsCount:      patch.StarsCount,
		ForksCount:      patch.ForksCount,
		OpenIssuesCount: patch.OpenIssuesCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update repository metadata: %w", err)
	}
	if !maybeRepo.IsPresent() {
		return nil, core.NewNotFoundError("Repository")
	}
	repo := maybeRepo.MustGet()

	if err := s.auditLogService.Record(ctx, actor, "repository_metadata_updated", "repository",
		fmt.Sprintf("repo:%s/%s", repo.Owner, repo.Name),
		map[string]any{"github_repo_id": githubRepoID}); err != nil {
		log.Printf("❌ Failed to record metadata update audit log: %v", err)
	}

	log.Printf("📋 Completed successfully - updated metadata for repo: %d", repo.ID)
	return repo, nil
}

func settingsPatchContext(patch services.RepositorySettingsPatch) map[string]any {
	logContext := map[string]any{}
	if patch.Description != nil {
		logContext["reposignal_description"] = *patch.Description
	}
	if patch.State != nil {
		logContext["state"] = string(*patch.State)
	}
	if patch.AllowUnclassified != nil {
		logContext["allow_unclassified"] = *patch.AllowUnclassified
	}
	if patch.AllowClassification != nil {
		logContext["allow_classification"] = *patch.AllowClassification
	}
	if patch.AllowInference != nil {
		logContext["allow_inference"] = *patch.AllowInference
	}
	if patch.FeedbackEnabled != nil {
		logContext["feedback_enabled"] = *patch.FeedbackEnabled
	}
	return logContext
}
