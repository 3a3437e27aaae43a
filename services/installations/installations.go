package installations

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"rsbackend/db"
	"rsbackend/models"
	"rsbackend/services"
)

// InstallationsService owns installation rows and the setup window opened on
// every sync. Window renewal happens only here; the setup flow itself never
// extends a window.
type InstallationsService struct {
	installationsRepo  *db.PostgresInstallationsRepository
	repositoriesRepo   *db.PostgresRepositoriesRepository
	auditLogService    services.AuditLogService
	txManager          services.TransactionManager
	setupWindowMinutes int
}

func NewInstallationsService(
	installationsRepo *db.PostgresInstallationsRepository,
	repositoriesRepo *db.PostgresRepositoriesRepository,
	auditLogService services.AuditLogService,
	txManager services.TransactionManager,
	setupWindowMinutes int,
) *InstallationsService {
	return &InstallationsService{
		installationsRepo:  installationsRepo,
		repositoriesRepo:   repositoriesRepo,
		auditLogService:    auditLogService,
		txManager:          txManager,
		setupWindowMinutes: setupWindowMinutes,
	}
}

func (s *InstallationsService) GetInstallationByGitHubID(
	ctx context.Context,
	githubInstallationID int64,
) (mo.Option[*models.Installation], error) {
	if githubInstallationID <= 0 {
		return mo.None[*models.Installation](), fmt.Errorf("github installation ID must be positive")
	}

	return s.installationsRepo.GetInstallationByGitHubID(ctx, githubInstallationID)
}

// SyncInstallation upserts the installation, opens a fresh setup window, and
// upserts its repositories, all in one transaction.
func (s *InstallationsService) SyncInstallation(
	ctx context.Context,
	params services.SyncInstallationParams,
) (*models.Installation, error) {
	log.Printf("📋 Starting installation sync for github installation: %d", params.GitHubInstallationID)

	if params.GitHubInstallationID <= 0 {
		return nil, fmt.Errorf("github installation ID must be positive")
	}
	if !models.IsValidAccountType(string(params.AccountType)) {
		return nil, fmt.Errorf("invalid account type: %s", params.AccountType)
	}
	if params.AccountLogin == "" {
		return nil, fmt.Errorf("account login cannot be empty")
	}

	// A completed installation carries no window; anything else gets a
	// fresh one.
	var setupAllowedUntil *time.Time
	if !params.SetupCompleted {
		until := time.Now().Add(time.Duration(s.setupWindowMinutes) * time.Minute)
		setupAllowedUntil = &until
	}

	var installation *models.Installation
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		installation, err = s.installationsRepo.UpsertInstallation(
			txCtx, params.GitHubInstallationID, params.AccountType, params.AccountLogin,
			params.SetupCompleted, setupAllowedUntil)
		if err != nil {
			return err
		}

		if err := s.auditLogService.Record(txCtx, models.BotActor(), "installation_synced", "installation",
			fmt.Sprintf("installation:%d", params.GitHubInstallationID),
			map[string]any{"account_login": params.AccountLogin}); err != nil {
			return err
		}

		for _, repo := range params.Repositories {
			state := repo.State
			if state == "" {
				state = models.RepoStateOff
			}

			upserted, err := s.repositoriesRepo.UpsertRepository(
				txCtx, installation.ID, repo.GitHubRepoID, repo.Owner, repo.Name, state)
			if err != nil {
				return err
			}

			if err := s.auditLogService.Record(txCtx, models.SystemActor(), "repository_created", "repository",
				fmt.Sprintf("repo:%s/%s", upserted.Owner, upserted.Name),
				map[string]any{"github_repo_id": repo.GitHubRepoID}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync installation: %w", err)
	}

	log.Printf("📋 Completed successfully - synced installation %d with %d repositories",
		installation.ID, len(params.Repositories))
	return installation, nil
}

func (s *InstallationsService) MarkSetupCompleted(ctx context.Context, installationID int64) (bool, error) {
	if installationID <= 0 {
		return false, fmt.Errorf("installation ID must be positive")
	}

	return s.installationsRepo.MarkSetupCompleted(ctx, installationID)
}
