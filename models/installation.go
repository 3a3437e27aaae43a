package models

import "time"

// AccountType identifies whether an installation belongs to a personal
// account or an organization.
type AccountType string

const (
	AccountTypeUser AccountType = "user"
	AccountTypeOrg  AccountType = "org"
)

func IsValidAccountType(t string) bool {
	return t == string(AccountTypeUser) || t == string(AccountTypeOrg)
}

// Installation is a GitHub App installation known to this service.
//
// SetupCompleted is monotonic: once true it never reverts. The invariant
// SetupCompleted == true implies SetupAllowedUntil == nil is enforced by the
// completion update, which clears the window in the same statement.
type Installation struct {
	ID                   int64       `db:"id"                     json:"id"`
	GitHubInstallationID int64       `db:"github_installation_id" json:"githubInstallationId"`
	AccountType          AccountType `db:"account_type"           json:"accountType"`
	AccountLogin         string      `db:"account_login"          json:"accountLogin"`
	SetupCompleted       bool        `db:"setup_completed"        json:"setupCompleted"`
	SetupAllowedUntil    *time.Time  `db:"setup_allowed_until"    json:"setupAllowedUntil"`
	CreatedAt            time.Time   `db:"created_at"             json:"createdAt"`
}
