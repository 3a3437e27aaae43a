package models

import "time"

// FeedbackEvent is an anonymous contributor feedback submission tied to a
// pull request. No user identity is ever stored with it.
type FeedbackEvent struct {
	ID                   string    `db:"id"                    json:"id"`
	RepoID               int64     `db:"repo_id"               json:"repoId"`
	GitHubPRID           int64     `db:"github_pr_id"          json:"githubPrId"`
	DifficultyRating     *int      `db:"difficulty_rating"     json:"difficultyRating"`
	ResponsivenessRating *int      `db:"responsiveness_rating" json:"responsivenessRating"`
	CreatedAt            time.Time `db:"created_at"            json:"createdAt"`
}

// FeedbackAggregate is the per-repository rollup of feedback events. Only
// bucketed averages are exposed publicly.
type FeedbackAggregate struct {
	RepoID                  int64     `db:"repo_id"                   json:"repoId"`
	AvgDifficultyBucket     *int      `db:"avg_difficulty_bucket"     json:"avgDifficultyBucket"`
	AvgResponsivenessBucket *int      `db:"avg_responsiveness_bucket" json:"avgResponsivenessBucket"`
	FeedbackCount           int       `db:"feedback_count"            json:"feedbackCount"`
	UpdatedAt               time.Time `db:"updated_at"                json:"updatedAt"`
}
