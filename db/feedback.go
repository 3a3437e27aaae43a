package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"rsbackend/db/tx"
	"rsbackend/models"
)

type PostgresFeedbackRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for feedback_events table
var feedbackEventsColumns = []string{
	"id",
	"repo_id",
	"github_pr_id",
	"difficulty_rating",
	"responsiveness_rating",
	"created_at",
}

func NewPostgresFeedbackRepository(db *sqlx.DB, schema string) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db, schema: schema}
}

func (r *PostgresFeedbackRepository) InsertFeedbackEvent(ctx context.Context, event *models.FeedbackEvent) error {
	insertColumns := strings.Join(feedbackEventsColumns, ", ")
	returningStr := strings.Join(feedbackEventsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.feedback_events (%s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s`, r.schema, insertColumns, returningStr)

	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, event.ID, event.RepoID, event.GitHubPRID,
			event.DifficultyRating, event.ResponsivenessRating).
		StructScan(event)
	if err != nil {
		return fmt.Errorf("failed to insert feedback event: %w", err)
	}

	return nil
}

// FeedbackStats are the raw averages over a repository's feedback events.
type FeedbackStats struct {
	AvgDifficulty     decimal.NullDecimal `db:"avg_difficulty"`
	AvgResponsiveness decimal.NullDecimal `db:"avg_responsiveness"`
	FeedbackCount     int                 `db:"feedback_count"`
}

func (r *PostgresFeedbackRepository) ComputeFeedbackStats(
	ctx context.Context,
	repoID int64,
) (*FeedbackStats, error) {
	query := fmt.Sprintf(`
		SELECT
			AVG(difficulty_rating) AS avg_difficulty,
			AVG(responsiveness_rating) AS avg_responsiveness,
			COUNT(*) AS feedback_count
		FROM %s.feedback_events
		WHERE repo_id = $1`, r.schema)

	var stats FeedbackStats
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &stats, query, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute feedback stats: %w", err)
	}

	return &stats, nil
}

// GetFeedbackAggregate returns the stored rollup for a repository, if any.
func (r *PostgresFeedbackRepository) GetFeedbackAggregate(
	ctx context.Context,
	repoID int64,
) (mo.Option[*models.FeedbackAggregate], error) {
	query := fmt.Sprintf(`
		SELECT repo_id, avg_difficulty_bucket, avg_responsiveness_bucket, feedback_count, updated_at
		FROM %s.repository_feedback_aggregates
		WHERE repo_id = $1`, r.schema)

	var aggregate models.FeedbackAggregate
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &aggregate, query, repoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.FeedbackAggregate](), nil
		}
		return mo.None[*models.FeedbackAggregate](), fmt.Errorf("failed to get feedback aggregate: %w", err)
	}

	return mo.Some(&aggregate), nil
}

// UpsertFeedbackAggregate stores the bucketed rollup for a repository.
func (r *PostgresFeedbackRepository) UpsertFeedbackAggregate(
	ctx context.Context,
	aggregate *models.FeedbackAggregate,
) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.repository_feedback_aggregates
			(repo_id, avg_difficulty_bucket, avg_responsiveness_bucket, feedback_count, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (repo_id) DO UPDATE SET
			avg_difficulty_bucket = EXCLUDED.avg_difficulty_bucket,
			avg_responsiveness_bucket = EXCLUDED.avg_responsiveness_bucket,
			feedback_count = EXCLUDED.feedback_count,
			updated_at = NOW()
		RETURNING repo_id, avg_difficulty_bucket, avg_responsiveness_bucket, feedback_count, updated_at`,
		r.schema)

	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, aggregate.RepoID, aggregate.AvgDifficultyBucket,
			aggregate.AvgResponsivenessBucket, aggregate.FeedbackCount).
		StructScan(aggregate)
	if err != nil {
		return fmt.Errorf("failed to upsert feedback aggregate: %w", err)
	}

	return nil
}
