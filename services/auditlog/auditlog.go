package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"rsbackend/core"
	"rsbackend/db"
	"rsbackend/models"
)

// AuditLogService appends immutable audit records. Persist exactly what the
// caller provides; no inference of actor identity happens here.
type AuditLogService struct {
	auditLogsRepo *db.PostgresAuditLogsRepository
}

func NewAuditLogService(repo *db.PostgresAuditLogsRepository) *AuditLogService {
	return &AuditLogService{auditLogsRepo: repo}
}

func (s *AuditLogService) Record(
	ctx context.Context,
	actor models.Actor,
	action, entityType, entityID string,
	logContext map[string]any,
) error {
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if entityType == "" {
		return fmt.Errorf("entity type cannot be empty")
	}
	if entityID == "" {
		return fmt.Errorf("entity ID cannot be empty")
	}

	var contextJSON []byte
	if logContext != nil {
		var err error
		contextJSON, err = json.Marshal(logContext)
		if err != nil {
			return fmt.Errorf("failed to marshal audit context: %w", err)
		}
	}

	entry := &models.AuditLog{
		ID:            core.NewID("log"),
		ActorType:     actor.Type,
		ActorGitHubID: actor.GitHubID,
		ActorUsername: actor.Username,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Context:       contextJSON,
	}

	if err := s.auditLogsRepo.InsertLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit log: %w", err)
	}

	log.Printf("📋 Recorded audit log %s: %s %s %s", entry.ID, actor.Type, action, entityID)
	return nil
}

func (s *AuditLogService) ListAuditLogs(
	ctx context.Context,
	entityID string,
	limit, offset int,
) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := s.auditLogsRepo.ListLogs(ctx, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return logs, nil
}
