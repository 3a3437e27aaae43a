package clients

import "context"

// GitHubAppClient verifies that a GitHub App installation is still live.
//
// VerifyInstallation re-proves liveness against GitHub on every call: it
// exchanges a fresh App JWT for an installation token, then probes the
// installation's repository listing with it. Nothing is cached between
// calls and the installation token never leaves the client.
//
// Returns nil on success, or a core.AppError with code INSTALLATION_INVALID
// (installation revoked or missing) or GITHUB_UNAVAILABLE (transient GitHub
// or network failure).
type GitHubAppClient interface {
	VerifyInstallation(ctx context.Context, githubInstallationID int64) error
}
