package installations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"rsbackend/models"
	"rsbackend/services"
)

// MockInstallationsService is a mock implementation of the services.InstallationsService interface
type MockInstallationsService struct {
	mock.Mock
}

func (m *MockInstallationsService) GetInstallationByGitHubID(
	ctx context.Context,
	githubInstallationID int64,
) (mo.Option[*models.Installation], error) {
	args := m.Called(ctx, githubInstallationID)
	return args.Get(0).(mo.Option[*models.Installation]), args.Error(1)
}

func (m *MockInstallationsService) SyncInstallation(
	ctx context.Context,
	params services.SyncInstallationParams,
) (*models.Installation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Installation), args.Error(1)
}

func (m *MockInstallationsService) MarkSetupCompleted(ctx context.Context, installationID int64) (bool, error) {
	args := m.Called(ctx, installationID)
	return args.Bool(0), args.Error(1)
}
