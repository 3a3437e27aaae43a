package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"rsbackend/clients"
	"rsbackend/core"
	"rsbackend/models"
	"rsbackend/services"
)

// SetupService orchestrates the one-time installation setup flow. Order per
// request: local window gate first (cheap), then the remote GitHub
// verification (expensive, never cached), then - for completion only - one
// atomic mutation.
type SetupService struct {
	installationsService services.InstallationsService
	repositoriesService  services.RepositoriesService
	auditLogService      services.AuditLogService
	githubClient         clients.GitHubAppClient
	txManager            services.TransactionManager
}

func NewSetupService(
	installationsService services.InstallationsService,
	repositoriesService services.RepositoriesService,
	auditLogService services.AuditLogService,
	githubClient clients.GitHubAppClient,
	txManager services.TransactionManager,
) *SetupService {
	return &SetupService{
		installationsService: installationsService,
		repositoriesService:  repositoriesService,
		auditLogService:      auditLogService,
		githubClient:         githubClient,
		txManager:            txManager,
	}
}

// GetSetupContext returns what the setup screen needs for an installation.
// Read-only: it never mutates setup state, even on success - the GitHub
// verification here is advisory, for display purposes only.
func (s *SetupService) GetSetupContext(
	ctx context.Context,
	githubInstallationID int64,
) (*services.SetupContext, error) {
	log.Printf("📋 Starting to get setup context for installation: %d", githubInstallationID)

	installation, err := s.lookupAndGate(ctx, githubInstallationID)
	if err != nil {
		return nil, err
	}

	if err := s.githubClient.VerifyInstallation(ctx, githubInstallationID); err != nil {
		return nil, err
	}

	repositories, err := s.repositoriesService.GetRepositoriesByInstallationID(ctx, installation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get repositories for setup context: %w", err)
	}

	log.Printf("📋 Completed successfully - setup context for %s with %d repositories",
		installation.AccountLogin, len(repositories))
	return &services.SetupContext{
		AccountLogin:   installation.AccountLogin,
		Repositories:   repositories,
		SetupExpiresAt: *installation.SetupAllowedUntil,
	}, nil
}

// CompleteSetup applies the maintainer's repository selections and marks the
// installation completed, as one atomic unit. A second call for the same
// installation deterministically fails with SETUP_ALREADY_COMPLETED and
// never repeats the mutation.
func (s *SetupService) CompleteSetup(
	ctx context.Context,
	githubInstallationID int64,
	updates []services.SetupRepositoryUpdate,
	settings models.RepoSettings,
) error {
	log.Printf("📋 Starting to complete setup for installation: %d", githubInstallationID)

	// Shape validation happens before any lookup.
	for _, update := range updates {
		if update.RepoID <= 0 {
			return core.NewValidationError("Each repository must have a numeric repoId")
		}
		if !models.IsValidRepoState(string(update.State)) {
			return core.NewValidationError(`Repository state must be "off", "public", or "paused"`)
		}
	}

	installation, err := s.lookupAndGate(ctx, githubInstallationID)
	if err != nil {
		return err
	}

	if err := s.githubClient.VerifyInstallation(ctx, githubInstallationID); err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, update := range updates {
			applied, err := s.repositoriesService.ApplySetupSelection(txCtx, update.RepoID, update.State, settings)
			if err != nil {
				return err
			}
			if !applied {
				return core.NewValidationError(fmt.Sprintf("Unknown repository id: %d", update.RepoID))
			}
		}

		completed, err := s.installationsService.MarkSetupCompleted(txCtx, installation.ID)
		if err != nil {
			return err
		}
		if !completed {
			// A concurrent request won the completion race; this
			// request must not double-apply anything.
			return core.NewSetupAlreadyCompletedError()
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Audit after the atomic update commits; a failed write must not undo a
	// completed setup.
	if err := s.auditLogService.Record(ctx, models.SystemActor(), "installation_setup_completed", "installation",
		fmt.Sprintf("installation:%d", githubInstallationID),
		map[string]any{"account_login": installation.AccountLogin}); err != nil {
		log.Printf("❌ Failed to record setup completion audit log: %v", err)
	}

	log.Printf("📋 Completed successfully - setup finished for installation: %d", githubInstallationID)
	return nil
}

// lookupAndGate loads the installation and runs the local window gate. The
// gate always runs before any GitHub call.
func (s *SetupService) lookupAndGate(
	ctx context.Context,
	githubInstallationID int64,
) (*models.Installation, error) {
	maybeInstallation, err := s.installationsService.GetInstallationByGitHubID(ctx, githubInstallationID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up installation: %w", err)
	}
	if !maybeInstallation.IsPresent() {
		return nil, core.NewNotFoundError("Installation")
	}
	installation := maybeInstallation.MustGet()

	switch CanSetup(installation, time.Now()) {
	case GateAlreadyCompleted:
		return nil, core.NewSetupAlreadyCompletedError()
	case GateWindowExpired:
		return nil, core.NewSetupWindowExpiredError()
	}

	return installation, nil
}
