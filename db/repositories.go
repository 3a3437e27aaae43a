package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"rsbackend/db/tx"
	"rsbackend/models"
)

type PostgresRepositoriesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for repositories table
var repositoriesColumns = []string{
	"id",
	"installation_id",
	"github_repo_id",
	"owner",
	"name",
	"state",
	"allow_unclassified",
	"allow_classification",
	"allow_inference",
	"feedback_enabled",
	"reposignal_description",
	"stars_count",
	"forks_count",
	"open_issues_count",
	"created_at",
	"updated_at",
}

func NewPostgresRepositoriesRepository(db *sqlx.DB, schema string) *PostgresRepositoriesRepository {
	return &PostgresRepositoriesRepository{db: db, schema: schema}
}

func (r *PostgresRepositoriesRepository) GetRepositoriesByInstallationID(
	ctx context.Context,
	installationID int64,
) ([]models.Repository, error) {
	columnsStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE installation_id = $1
		ORDER BY owner, name`, columnsStr, r.schema)

	repositories := []models.Repository{}
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &repositories, query, installationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get repositories: %w", err)
	}

	return repositories, nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByID(
	ctx context.Context,
	id int64,
) (mo.Option[*models.Repository], error) {
	columnsStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE id = $1`, columnsStr, r.schema)

	var repository models.Repository
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &repository, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository: %w", err)
	}

	return mo.Some(&repository), nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByGitHubID(
	ctx context.Context,
	githubRepoID int64,
) (mo.Option[*models.Repository], error) {
	columnsStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE github_repo_id = $1`, columnsStr, r.schema)

	var repository models.Repository
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &repository, query, githubRepoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository: %w", err)
	}

	return mo.Some(&repository), nil
}

// UpsertRepository inserts or refreshes a repository by its GitHub repo id.
// Consent flags and state are only set on first insert; sync never clobbers
// choices the maintainer made during setup.
func (r *PostgresRepositoriesRepository) UpsertRepository(
	ctx context.Context,
	installationID, githubRepoID int64,
	owner, name string,
	state models.RepoState,
) (*models.Repository, error) {
	returningStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.repositories
			(installation_id, github_repo_id, owner, name, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (github_repo_id) DO UPDATE SET
			owner = EXCLUDED.owner,
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	var repository models.Repository
	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, installationID, githubRepoID, owner, name, state).
		StructScan(&repository)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert repository: %w", err)
	}

	return &repository, nil
}

// UpdateStateAndSettings applies the setup-time state and consent flags to a
// single repository. Returns false if the repository does not exist.
func (r *PostgresRepositoriesRepository) UpdateStateAndSettings(
	ctx context.Context,
	repoID int64,
	state models.RepoState,
	settings models.RepoSettings,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.repositories
		SET state = $2,
			allow_unclassified = $3,
			allow_classification = $4,
			allow_inference = $5,
			feedback_enabled = $6,
			updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, repoID, state,
		settings.AllowUnclassified, settings.AllowClassification, settings.AllowInference, settings.FeedbackEnabled)
	if err != nil {
		return false, fmt.Errorf("failed to update repository state and settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// RepositorySettingsPatch is a partial settings update; nil fields are left
// untouched.
type RepositorySettingsPatch struct {
	Description         *string
	State               *models.RepoState
	AllowUnclassified   *bool
	AllowClassification *bool
	AllowInference      *bool
	FeedbackEnabled     *bool
}

// UpdateSettings applies a partial settings patch to a repository and
// returns the updated row.
func (r *PostgresRepositoriesRepository) UpdateSettings(
	ctx context.Context,
	repoID int64,
	patch RepositorySettingsPatch,
) (mo.Option[*models.Repository], error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{repoID}

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Description != nil {
		addClause("reposignal_description", *patch.Description)
	}
	if patch.State != nil {
		addClause("state", *patch.State)
	}
	if patch.AllowUnclassified != nil {
		addClause("allow_unclassified", *patch.AllowUnclassified)
	}
	if patch.AllowClassification != nil {
		addClause("allow_classification", *patch.AllowClassification)
	}
	if patch.AllowInference != nil {
		addClause("allow_inference", *patch.AllowInference)
	}
	if patch.FeedbackEnabled != nil {
		addClause("feedback_enabled", *patch.FeedbackEnabled)
	}

	returningStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.repositories
		SET %s
		WHERE id = $1
		RETURNING %s`, r.schema, strings.Join(setClauses, ", "), returningStr)

	var repository models.Repository
	err := tx.GetTransactional(ctx, r.db).QueryRowxContext(ctx, query, args...).StructScan(&repository)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to update repository settings: %w", err)
	}

	return mo.Some(&repository), nil
}

// RepositoryMetadataPatch is a partial update to the GitHub metadata counts;
// nil fields are left untouched.
type RepositoryMetadataPatch struct {
	StarsCount      *int
	ForksCount      *int
	OpenIssuesCount *int
}

// UpdateMetadata applies a partial metadata patch to a repository keyed by
// its GitHub repo id and returns the updated row.
func (r *PostgresRepositoriesRepository) UpdateMetadata(
	ctx context.Context,
	githubRepoID int64,
	patch RepositoryMetadataPatch,
) (mo.Option[*models.Repository], error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{githubRepoID}

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.StarsCount != nil {
		addClause("stars_count", *patch.StarsCount)
	}
	if patch.ForksCount != nil {
		addClause("forks_count", *patch.ForksCount)
	}
	if patch.OpenIssuesCount != nil {
		addClause("open_issues_count", *patch.OpenIssuesCount)
	}

	returningStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.repositories
		SET %s
		WHERE github_repo_id = $1
		RETURNING %s`, r.schema, strings.Join(setClauses, ", "), returningStr)

	var repository models.Repository
	err := tx.GetTransactional(ctx, r.db).QueryRowxContext(ctx, query, args...).StructScan(&repository)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to update repository metadata: %w", err)
	}

	return mo.Some(&repository), nil
}
