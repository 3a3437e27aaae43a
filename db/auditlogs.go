package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"rsbackend/db/tx"
	"rsbackend/models"
)

type PostgresAuditLogsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for audit_logs table
var auditLogsColumns = []string{
	"id",
	"actor_type",
	"actor_github_id",
	"actor_username",
	"action",
	"entity_type",
	"entity_id",
	"context",
	"created_at",
}

func NewPostgresAuditLogsRepository(db *sqlx.DB, schema string) *PostgresAuditLogsRepository {
	return &PostgresAuditLogsRepository{db: db, schema: schema}
}

// InsertLog appends an audit record. The table is append-only; there are no
// update or delete methods by design.
func (r *PostgresAuditLogsRepository) InsertLog(ctx context.Context, entry *models.AuditLog) error {
	insertColumns := strings.Join(auditLogsColumns, ", ")
	returningStr := strings.Join(auditLogsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.audit_logs (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING %s`, r.schema, insertColumns, returningStr)

	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, entry.ID, entry.ActorType, entry.ActorGitHubID, entry.ActorUsername,
			entry.Action, entry.EntityType, entry.EntityID, entry.Context).
		StructScan(entry)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// ListLogs returns audit records newest first, optionally filtered by entity
// id.
func (r *PostgresAuditLogsRepository) ListLogs(
	ctx context.Context,
	entityID string,
	limit, offset int,
) ([]models.AuditLog, error) {
	columnsStr := strings.Join(auditLogsColumns, ", ")

	args := []interface{}{limit, offset}
	whereClause := ""
	if entityID != "" {
		args = append(args, entityID)
		whereClause = fmt.Sprintf("WHERE entity_id = $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.audit_logs
		%s
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, columnsStr, r.schema, whereClause)

	logs := []models.AuditLog{}
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &logs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return logs, nil
}
