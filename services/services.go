package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"rsbackend/models"
)

// TransactionManager runs a function within a database transaction carried
// by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// SyncRepository is one repository reported by the installation webhook
// relay during sync.
type SyncRepository struct {
	GitHubRepoID int64
	Owner        string
	Name         string
	State        models.RepoState
}

// SyncInstallationParams describes an installation to upsert, together with
// its repositories. SetupCompleted lets the relay replay an installation that
// already finished setup; it defaults to false for fresh installs.
type SyncInstallationParams struct {
	GitHubInstallationID int64
	AccountType          models.AccountType
	AccountLogin         string
	SetupCompleted       bool
	Repositories         []SyncRepository
}

// InstallationsService owns installation rows and the setup window they
// carry.
type InstallationsService interface {
	GetInstallationByGitHubID(ctx context.Context, githubInstallationID int64) (mo.Option[*models.Installation], error)
	// SyncInstallation upserts the installation, opens a fresh setup
	// window, and upserts its repositories.
	SyncInstallation(ctx context.Context, params SyncInstallationParams) (*models.Installation, error)
	// MarkSetupCompleted transitions to completed; returns false when the
	// installation was already completed (exactly-once-wins).
	MarkSetupCompleted(ctx context.Context, installationID int64) (bool, error)
}

// RepositorySettingsPatch is a partial update to a repository's settings;
// nil fields are left untouched.
type RepositorySettingsPatch struct {
	Description         *string
	State               *models.RepoState
	AllowUnclassified   *bool
	AllowClassification *bool
	AllowInference      *bool
	FeedbackEnabled     *bool
}

// RepositoryMetadataPatch is a partial update to a repository's GitHub
// metadata counts; nil fields are left untouched.
type RepositoryMetadataPatch struct {
	StarsCount      *int
	ForksCount      *int
	OpenIssuesCount *int
}

// RepositoriesService owns repository rows.
type RepositoriesService interface {
	GetRepositoriesByInstallationID(ctx context.Context, installationID int64) ([]models.Repository, error)
	GetRepositoryByID(ctx context.Context, id int64) (mo.Option[*models.Repository], error)
	ApplySetupSelection(ctx context.Context, repoID int64, state models.RepoState, settings models.RepoSettings) (bool, error)
	UpdateRepositorySettings(ctx context.Context, repoID int64, patch RepositorySettingsPatch, actor models.Actor) (*models.Repository, error)
	// UpdateRepositoryMetadata refreshes the GitHub counts reported by the
	// relay, keyed by GitHub repo id.
	UpdateRepositoryMetadata(ctx context.Context, githubRepoID int64, patch RepositoryMetadataPatch, actor models.Actor) (*models.Repository, error)
}

// AuditLogService appends immutable audit records. Record is append-only;
// entries are never read back by the writers.
type AuditLogService interface {
	Record(ctx context.Context, actor models.Actor, action, entityType, entityID string, logContext map[string]any) error
	ListAuditLogs(ctx context.Context, entityID string, limit, offset int) ([]models.AuditLog, error)
}

// SetupRepositoryUpdate is one repository selection submitted on setup
// completion.
type SetupRepositoryUpdate struct {
	RepoID int64
	State  models.RepoState
}

// SetupContext is what the setup frontend needs to render the one-time
// setup screen.
type SetupContext struct {
	AccountLogin   string
	Repositories   []models.Repository
	SetupExpiresAt time.Time
}

// SetupService is the installation setup orchestrator.
type SetupService interface {
	GetSetupContext(ctx context.Context, githubInstallationID int64) (*SetupContext, error)
	CompleteSetup(ctx context.Context, githubInstallationID int64, updates []SetupRepositoryUpdate, settings models.RepoSettings) error
}

// FeedbackSubmission is an anonymous feedback event for a merged PR.
type FeedbackSubmission struct {
	GitHubRepoID         int64
	GitHubPRID           int64
	DifficultyRating     *int
	ResponsivenessRating *int
}

// FeedbackService collects anonymous contributor feedback.
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, submission FeedbackSubmission) error
	// GetRepositoryFeedbackStats returns the bucketed rollup for a
	// repository; a repository without feedback gets a zero-count rollup.
	GetRepositoryFeedbackStats(ctx context.Context, repoID int64) (*models.FeedbackAggregate, error)
}

// MetaService serves the canonical taxonomy lists.
type MetaService interface {
	ListLanguages(ctx context.Context) ([]models.Language, error)
	ListFrameworksGrouped(ctx context.Context) (map[string][]models.Framework, error)
	ListDomains(ctx context.Context) ([]models.Domain, error)
}
