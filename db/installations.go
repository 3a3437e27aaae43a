package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"rsbackend/db/tx"
	"rsbackend/models"
)

type PostgresInstallationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for installations table
var installationsColumns = []string{
	"id",
	"github_installation_id",
	"account_type",
	"account_login",
	"setup_completed",
	"setup_allowed_until",
	"created_at",
}

func NewPostgresInstallationsRepository(db *sqlx.DB, schema string) *PostgresInstallationsRepository {
	return &PostgresInstallationsRepository{db: db, schema: schema}
}

func (r *PostgresInstallationsRepository) GetInstallationByGitHubID(
	ctx context.Context,
	githubInstallationID int64,
) (mo.Option[*models.Installation], error) {
	columnsStr := strings.Join(installationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.installations
		WHERE github_installation_id = $1`, columnsStr, r.schema)

	var installation models.Installation
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &installation, query, githubInstallationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Installation](), nil
		}
		return mo.None[*models.Installation](), fmt.Errorf("failed to get installation: %w", err)
	}

	return mo.Some(&installation), nil
}

// UpsertInstallation inserts or refreshes an installation by its GitHub
// installation id and opens a fresh setup window. Used by the sync flow
// only; setup completion goes through MarkSetupCompleted. setupCompleted is
// false for fresh installs; the relay passes true when replaying an
// installation that already finished setup.
func (r *PostgresInstallationsRepository) UpsertInstallation(
	ctx context.Context,
	githubInstallationID int64,
	accountType models.AccountType,
	accountLogin string,
	setupCompleted bool,
	setupAllowedUntil *time.Time,
) (*models.Installation, error) {
	returningStr := strings.Join(installationsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.installations
			(github_installation_id, account_type, account_login, setup_completed, setup_allowed_until, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (github_installation_id) DO UPDATE SET
			account_login = EXCLUDED.account_login,
			setup_completed = EXCLUDED.setup_completed,
			setup_allowed_until = EXCLUDED.setup_allowed_until
		RETURNING %s`, r.schema, returningStr)

	var installation models.Installation
	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, githubInstallationID, accountType, accountLogin, setupCompleted, setupAllowedUntil).
		StructScan(&installation)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert installation: %w", err)
	}

	return &installation, nil
}

// MarkSetupCompleted transitions the installation to completed and clears
// the setup window in a single conditional statement. The guard on
// setup_completed = FALSE makes the transition exactly-once-wins: of two
// racing callers only one sees completed=true returned here; the loser gets
// false and must surface "already completed".
func (r *PostgresInstallationsRepository) MarkSetupCompleted(
	ctx context.Context,
	installationID int64,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.installations
		SET setup_completed = TRUE, setup_allowed_until = NULL
		WHERE id = $1 AND setup_completed = FALSE`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, installationID)
	if err != nil {
		return false, fmt.Errorf("failed to mark setup completed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
