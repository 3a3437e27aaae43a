package auditlog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rsbackend/models"
)

// MockAuditLogService is a mock implementation of the services.AuditLogService interface
type MockAuditLogService struct {
	mock.Mock
}

func (m *MockAuditLogService) Record(
	ctx context.Context,
	actor models.Actor,
	action, entityType, entityID string,
	logContext map[string]any,
) error {
	args := m.Called(ctx, actor, action, entityType, entityID, logContext)
	return args.Error(0)
}

func (m *MockAuditLogService) ListAuditLogs(
	ctx context.Context,
	entityID string,
	limit, offset int,
) ([]models.AuditLog, error) {
	args := m.Called(ctx, entityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}
