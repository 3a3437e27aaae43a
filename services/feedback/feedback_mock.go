package feedback

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rsbackend/models"
	"rsbackend/services"
)

// MockFeedbackService is a mock implementation of the services.FeedbackService interface
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) SubmitFeedback(ctx context.Context, submission services.FeedbackSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockFeedbackService) GetRepositoryFeedbackStats(
	ctx context.Context,
	repoID int64,
) (*models.FeedbackAggregate, error) {
	args := m.Called(ctx, repoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeedbackAggregate), args.Error(1)
}
