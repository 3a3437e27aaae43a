package repositories

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"rsbackend/models"
	"rsbackend/services"
)

// MockRepositoriesService is a mock implementation of the services.RepositoriesService interface
type MockRepositoriesService struct {
	mock.Mock
}

func (m *MockRepositoriesService) GetRepositoriesByInstallationID(
	ctx context.Context,
	installationID int64,
) ([]models.Repository, error) {
	args := m.Called(ctx, installationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Repository), args.Error(1)
}

func (m *MockRepositoriesService) GetRepositoryByID(
	ctx context.Context,
	id int64,
) (mo.Option[*models.Repository], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Repository]), args.Error(1)
}

func (m *MockRepositoriesService) ApplySetupSelection(
	ctx context.Context,
	repoID int64,
	state models.RepoState,
	settings models.RepoSettings,
) (bool, error) {
	args := m.Called(ctx, repoID, state, settings)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepositoriesService) UpdateRepositoryMetadata(
	ctx context.Context,
	githubRepoID int64,
	patch services.RepositoryMetadataPatch,
	actor models.Actor,
) (*models.Repository, error) {
	args := m.Called(ctx, githubRepoID, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repository), args.Error(1)
}

func (m *MockRepositoriesService) UpdateRepositorySettings(
	ctx context.Context,
	repoID int64,
	patch services.RepositorySettingsPatch,
	actor models.Actor,
) (*models.Repository, error) {
	args := m.Called(ctx, repoID, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repository), args.Error(1)
}
