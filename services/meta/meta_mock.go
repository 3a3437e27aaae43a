package meta

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rsbackend/models"
)

// MockMetaService is a mock implementation of the services.MetaService interface
type MockMetaService struct {
	mock.Mock
}

func (m *MockMetaService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Language), args.Error(1)
}

func (m *MockMetaService) ListFrameworksGrouped(ctx context.Context) (map[string][]models.Framework, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]models.Framework), args.Error(1)
}

func (m *MockMetaService) ListDomains(ctx context.Context) ([]models.Domain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Domain), args.Error(1)
}
