package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ActorType identifies who performed an audited action.
type ActorType string

const (
	ActorTypeSystem ActorType = "system"
	ActorTypeUser   ActorType = "user"
	ActorTypeBot    ActorType = "bot"
)

// Actor is the subject of an audit record. GitHubID and Username are only
// set for user actors.
type Actor struct {
	Type     ActorType
	GitHubID *int64
	Username *string
}

func SystemActor() Actor {
	return Actor{Type: ActorTypeSystem}
}

func BotActor() Actor {
	return Actor{Type: ActorTypeBot}
}

func UserActor(githubID *int64, username *string) Actor {
	return Actor{Type: ActorTypeUser, GitHubID: githubID, Username: username}
}

// AuditLog is an immutable append-only record. Rows are written once and
// never updated.
type AuditLog struct {
	ID            string         `db:"id"              json:"id"`
	ActorType     ActorType      `db:"actor_type"      json:"actorType"`
	ActorGitHubID *int64         `db:"actor_github_id" json:"actorGithubId"`
	ActorUsername *string        `db:"actor_username"  json:"actorUsername"`
	Action        string         `db:"action"          json:"action"`
	EntityType    string         `db:"entity_type"     json:"entityType"`
	EntityID      string         `db:"entity_id"       json:"entityId"`
	Context       types.JSONText `db:"context"         json:"context"`
	CreatedAt     time.Time      `db:"created_at"      json:"createdAt"`
}
