package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rsbackend/clients"
	"rsbackend/config"
	"rsbackend/core"
)

const defaultBaseURL = "https://api.github.com"

// Bounded per-call timeout so a hung GitHub request surfaces as
// GITHUB_UNAVAILABLE instead of stalling the setup flow.
const requestTimeout = 10 * time.Second

// Client talks to the GitHub REST API with App authentication. It implements
// clients.GitHubAppClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appName    string
	jwtIssuer  *appJWTIssuer
}

type installationTokenResponse struct {
	Token string `json:"token"`
}

// NewClient creates a new GitHub App client from the validated App config.
func NewClient(cfg config.GitHubAppConfig) (clients.GitHubAppClient, error) {
	return newClientWithBaseURL(cfg, defaultBaseURL)
}

func newClientWithBaseURL(cfg config.GitHubAppConfig, baseURL string) (*Client, error) {
	jwtIssuer, err := newAppJWTIssuer(cfg.AppID, cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create app JWT issuer: %w", err)
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		appName:    cfg.AppName,
		jwtIssuer:  jwtIssuer,
	}, nil
}

// VerifyInstallation performs the two-step liveness check: exchange a fresh
// App JWT for an installation token, then probe repository access with it.
// The probe only runs if the exchange succeeds, and the token is discarded
// afterwards - never stored, cached, or logged.
func (c *Client) VerifyInstallation(ctx context.Context, githubInstallationID int64) error {
	token, err := c.createInstallationToken(ctx, githubInstallationID)
	if err != nil {
		return err
	}

	return c.probeRepositoryAccess(ctx, token)
}

// createInstallationToken exchanges an App JWT for an installation-scoped
// access token. 401/403/404 mean the installation no longer exists or was
// revoked; anything else unexpected means GitHub is having issues.
func (c *Client) createInstallationToken(ctx context.Context, githubInstallationID int64) (string, error) {
	appJWT, err := c.jwtIssuer.issue()
	if err != nil {
		return "", core.NewGitHubUnavailableError("failed to mint app JWT", err)
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", c.baseURL, githubInstallationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", core.NewGitHubUnavailableError("failed to create token exchange request", err)
	}
	c.setHeaders(req, appJWT)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", core.NewGitHubUnavailableError("installation token request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		var tokenResp installationTokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
			return "", core.NewGitHubUnavailableError("failed to decode installation token response", err)
		}
		if tokenResp.Token == "" {
			return "", core.NewGitHubUnavailableError("no token in installation token response", nil)
		}
		return tokenResp.Token, nil

	case isInstallationInvalidStatus(resp.StatusCode):
		return "", core.NewInstallationInvalidError(
			fmt.Sprintf("installation token request failed with status %d", resp.StatusCode), nil)

	default:
		return "", core.NewGitHubUnavailableError(
			fmt.Sprintf("GitHub returned status %d when requesting installation token", resp.StatusCode), nil)
	}
}

// probeRepositoryAccess confirms the installation still has repository
// access by listing repositories visible to the installation token.
func (c *Client) probeRepositoryAccess(ctx context.Context, installationToken string) error {
	url := c.baseURL + "/installation/repositories"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.NewGitHubUnavailableError("failed to create repository probe request", err)
	}
	c.setHeaders(req, installationToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.NewGitHubUnavailableError("repository access probe failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil

	case isInstallationInvalidStatus(resp.StatusCode):
		return core.NewInstallationInvalidError(
			fmt.Sprintf("repository access probe failed with status %d", resp.StatusCode), nil)

	default:
		return core.NewGitHubUnavailableError(
			fmt.Sprintf("GitHub returned status %d when probing repository access", resp.StatusCode), nil)
	}
}

func (c *Client) setHeaders(req *http.Request, bearer string) {
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.appName)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

// isInstallationInvalidStatus is the 4xx subset meaning the installation no
// longer exists or was revoked, as opposed to GitHub being unavailable.
func isInstallationInvalidStatus(status int) bool {
	return status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		status == http.StatusNotFound
}
