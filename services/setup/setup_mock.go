package setup

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rsbackend/models"
	"rsbackend/services"
)

// MockSetupService is a mock implementation of the services.SetupService interface
type MockSetupService struct {
	mock.Mock
}

func (m *MockSetupService) GetSetupContext(
	ctx context.Context,
	githubInstallationID int64,
) (*services.SetupContext, error) {
	args := m.Called(ctx, githubInstallationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SetupContext), args.Error(1)
}

func (m *MockSetupService) CompleteSetup(
	ctx context.Context,
	githubInstallationID int64,
	updates []services.SetupRepositoryUpdate,
	settings models.RepoSettings,
) error {
	args := m.Called(ctx, githubInstallationID, updates, settings)
	return args.Error(0)
}
