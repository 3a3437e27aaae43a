package feedback

import (
	"context"
	"fmt"
	"log"

	"rsbackend/core"
	"rsbackend/db"
	"rsbackend/models"
	"rsbackend/services"
)

// FeedbackService collects anonymous contributor feedback. Submissions are
// anonymous by design; no user identity is accepted or stored.
type FeedbackService struct {
	feedbackRepo     *db.PostgresFeedbackRepository
	repositoriesRepo *db.PostgresRepositoriesRepository
	auditLogService  services.AuditLogService
	txManager        services.TransactionManager
}

func NewFeedbackService(
	feedbackRepo *db.PostgresFeedbackRepository,
	repositoriesRepo *db.PostgresRepositoriesRepository,
	auditLogService services.AuditLogService,
	txManager services.TransactionManager,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo:     feedbackRepo,
		repositoriesRepo: repositoriesRepo,
		auditLogService:  auditLogService,
		txManager:        txManager,
	}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, submission services.FeedbackSubmission) error {
	log.Printf("📋 Starting feedback submission for github repo: %d", submission.GitHubRepoID)

	if submission.GitHubRepoID <= 0 {
		return core.NewValidationError("githubRepoId must be positive")
	}
	if submission.GitHubPRID <= 0 {
		return core.NewValidationError("githubPrId must be positive")
	}
	if !isValidRating(submission.DifficultyRating) {
		return core.NewValidationError("difficultyRating must be between 1 and 5")
	}
	if !isValidRating(submission.ResponsivenessRating) {
		return core.NewValidationError("responsivenessRating must be between 1 and 5")
	}

	maybeRepo, err := s.repositoriesRepo.GetRepositoryByGitHubID(ctx, submission.GitHubRepoID)
	if err != nil {
		return fmt.Errorf("failed to look up repository: %w", err)
	}
	if !maybeRepo.IsPresent() {
		return core.NewNotFoundError("Repository")
	}
	repo := maybeRepo.MustGet()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		event := &models.FeedbackEvent{
			ID:                   core.NewID("fbe"),
			RepoID:               repo.ID,
			GitHubPRID:           submission.GitHubPRID,
			DifficultyRating:     submission.DifficultyRating,
			ResponsivenessRating: submission.ResponsivenessRating,
		}
		if err := s.feedbackRepo.InsertFeedbackEvent(txCtx, event); err != nil {
			return err
		}

		return s.updateFeedbackAggregates(txCtx, repo.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}

	if err := s.auditLogService.Record(ctx, models.UserActor(nil, nil), "feedback_received", "repository",
		fmt.Sprintf("repo:%s/%s", repo.Owner, repo.Name),
		map[string]any{
			"difficulty_rating":     ratingOrNil(submission.DifficultyRating),
			"responsiveness_rating": ratingOrNil(submission.ResponsivenessRating),
		}); err != nil {
		log.Printf("❌ Failed to record feedback audit log: %v", err)
	}

	log.Printf("📋 Completed successfully - feedback recorded for repo: %d", repo.ID)
	return nil
}

// GetRepositoryFeedbackStats returns the stored rollup for a repository.
// Only the bucketed aggregates leave this service; raw per-event ratings
// stay internal.
func (s *FeedbackService) GetRepositoryFeedbackStats(
	ctx context.Context,
	repoID int64,
) (*models.FeedbackAggregate, error) {
	if repoID <= 0 {
		return nil, core.NewValidationError("repository id must be positive")
	}

	maybeRepo, err := s.repositoriesRepo.GetRepositoryByID(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository: %w", err)
	}
	if !maybeRepo.IsPresent() {
		return nil, core.NewNotFoundError("Repository")
	}

	maybeAggregate, err := s.feedbackRepo.GetFeedbackAggregate(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback aggregate: %w", err)
	}
	if !maybeAggregate.IsPresent() {
		// No feedback yet
		return &models.FeedbackAggregate{RepoID: repoID}, nil
	}

	return maybeAggregate.MustGet(), nil
}

// updateFeedbackAggregates recomputes the bucketed rollup from all feedback
// events of the repository.
func (s *FeedbackService) updateFeedbackAggregates(ctx context.Context, repoID int64) error {
	stats, err := s.feedbackRepo.ComputeFeedbackStats(ctx, repoID)
	if err != nil {
		return err
	}

	aggregate := &models.FeedbackAggregate{
		RepoID:        repoID,
		FeedbackCount: stats.FeedbackCount,
	}
	if stats.AvgDifficulty.Valid {
		bucket := int(stats.AvgDifficulty.Decimal.Round(0).IntPart())
		aggregate.AvgDifficultyBucket = &bucket
	}
	if stats.AvgResponsiveness.Valid {
		bucket := int(stats.AvgResponsiveness.Decimal.Round(0).IntPart())
		aggregate.AvgResponsivenessBucket = &bucket
	}

	return s.feedbackRepo.UpsertFeedbackAggregate(ctx, aggregate)
}

func isValidRating(rating *int) bool {
	return rating == nil || (*rating >= 1 && *rating <= 5)
}

func ratingOrNil(rating *int) any {
	if rating == nil {
		return nil
	}
	return *rating
}
