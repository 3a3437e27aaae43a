package models

import "time"

// RepoState controls how a repository participates in discovery.
type RepoState string

const (
	RepoStateOff    RepoState = "off"
	RepoStatePublic RepoState = "public"
	RepoStatePaused RepoState = "paused"
)

func IsValidRepoState(s string) bool {
	switch RepoState(s) {
	case RepoStateOff, RepoStatePublic, RepoStatePaused:
		return true
	default:
		return false
	}
}

// RepoSettings are the per-repository consent flags chosen during setup.
type RepoSettings struct {
	AllowUnclassified   bool `json:"allowUnclassified"`
	AllowClassification bool `json:"allowClassification"`
	AllowInference      bool `json:"allowInference"`
	FeedbackEnabled     bool `json:"feedbackEnabled"`
}

// Repository is a repository tracked under an installation.
type Repository struct {
	ID                  int64     `db:"id"                     json:"id"`
	InstallationID      int64     `db:"installation_id"        json:"installationId"`
	GitHubRepoID        int64     `db:"github_repo_id"         json:"githubRepoId"`
	Owner               string    `db:"owner"                  json:"owner"`
	Name                string    `db:"name"                   json:"name"`
	State               RepoState `db:"state"                  json:"state"`
	AllowUnclassified   bool      `db:"allow_unclassified"     json:"allowUnclassified"`
	AllowClassification bool      `db:"allow_classification"   json:"allowClassification"`
	AllowInference      bool      `db:"allow_inference"        json:"allowInference"`
	FeedbackEnabled     bool      `db:"feedback_enabled"       json:"feedbackEnabled"`
	Description         *string   `db:"reposignal_description" json:"reposignalDescription"`
	StarsCount          int       `db:"stars_count"            json:"starsCount"`
	ForksCount          int       `db:"forks_count"            json:"forksCount"`
	OpenIssuesCount     int       `db:"open_issues_count"      json:"openIssuesCount"`
	CreatedAt           time.Time `db:"created_at"             json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at"             json:"updatedAt"`
}
