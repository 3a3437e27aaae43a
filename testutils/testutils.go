package testutils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"rsbackend/config"
	"rsbackend/models"
)

// GenerateTestGitHubAppConfig creates a GitHub App config with a freshly
// generated RSA key for tests that mint real JWTs.
func GenerateTestGitHubAppConfig(t *testing.T) config.GitHubAppConfig {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate test RSA key")

	return config.GitHubAppConfig{
		AppID:      12345,
		PrivateKey: privateKey,
		AppName:    "reposignal-test",
	}
}

// EncodePrivateKeyPEM renders an RSA private key as PKCS#1 PEM, the format
// GitHub issues App keys in.
func EncodePrivateKeyPEM(t *testing.T, privateKey *rsa.PrivateKey) string {
	t.Helper()

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}
	return string(pem.EncodeToMemory(block))
}

// PendingInstallation creates an installation whose setup window is open
// for the given duration.
func PendingInstallation(githubInstallationID int64, validFor time.Duration) *models.Installation {
	setupAllowedUntil := time.Now().Add(validFor)
	return &models.Installation{
		ID:                   1,
		GitHubInstallationID: githubInstallationID,
		AccountType:          models.AccountTypeOrg,
		AccountLogin:         "test-org-" + uuid.New().String(),
		SetupCompleted:       false,
		SetupAllowedUntil:    &setupAllowedUntil,
		CreatedAt:            time.Now(),
	}
}

// CompletedInstallation creates an installation that already finished setup.
func CompletedInstallation(githubInstallationID int64) *models.Installation {
	return &models.Installation{
		ID:                   1,
		GitHubInstallationID: githubInstallationID,
		AccountType:          models.AccountTypeOrg,
		AccountLogin:         "test-org-" + uuid.New().String(),
		SetupCompleted:       true,
		SetupAllowedUntil:    nil,
		CreatedAt:            time.Now(),
	}
}

// TestRepository creates a repository row belonging to the given
// installation.
func TestRepository(id, installationID int64) models.Repository {
	return models.Repository{
		ID:             id,
		InstallationID: installationID,
		GitHubRepoID:   id * 1000,
		Owner:          "test-owner",
		Name:           "test-repo-" + uuid.New().String(),
		State:          models.RepoStateOff,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
