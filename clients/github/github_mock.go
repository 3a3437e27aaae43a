package github

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitHubAppClient is a mock implementation of the clients.GitHubAppClient interface
type MockGitHubAppClient struct {
	mock.Mock
}

func (m *MockGitHubAppClient) VerifyInstallation(ctx context.Context, githubInstallationID int64) error {
	args := m.Called(ctx, githubInstallationID)
	return args.Error(0)
}
