package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsbackend/core"
	"rsbackend/testutils"
)

// fakeGitHub simulates the two endpoints VerifyInstallation touches and
// counts how often each is hit.
type fakeGitHub struct {
	exchangeStatus int
	probeStatus    int

	exchangeHits int
	probeHits    int

	lastExchangeRequest *http.Request
	lastProbeToken      string
}

func (f *fakeGitHub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/access_tokens"):
			f.exchangeHits++
			f.lastExchangeRequest = r.Clone(r.Context())
			w.WriteHeader(f.exchangeStatus)
			if f.exchangeStatus == http.StatusCreated {
				fmt.Fprint(w, `{"token":"ghs_test_token"}`)
			}
		case r.Method == http.MethodGet && r.URL.Path == "/installation/repositories":
			f.probeHits++
			f.lastProbeToken = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			w.WriteHeader(f.probeStatus)
			if f.probeStatus == http.StatusOK {
				fmt.Fprint(w, `{"total_count":0,"repositories":[]}`)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, fake *fakeGitHub) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client, err := newClientWithBaseURL(testutils.GenerateTestGitHubAppConfig(t), server.URL)
	require.NoError(t, err)
	return client, server
}

func TestVerifyInstallation(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds_when_exchange_and_probe_pass", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusCreated, probeStatus: http.StatusOK}
		client, _ := newTestClient(t, fake)

		err := client.VerifyInstallation(ctx, 555)

		require.NoError(t, err)
		assert.Equal(t, 1, fake.exchangeHits)
		assert.Equal(t, 1, fake.probeHits)
		assert.Equal(t, "ghs_test_token", fake.lastProbeToken)
	})

	t.Run("sends_github_api_headers", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusCreated, probeStatus: http.StatusOK}
		client, _ := newTestClient(t, fake)

		require.NoError(t, client.VerifyInstallation(ctx, 555))

		req := fake.lastExchangeRequest
		require.NotNil(t, req)
		assert.Equal(t, "/app/installations/555/access_tokens", req.URL.Path)
		assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
		assert.Equal(t, "reposignal-test", req.Header.Get("User-Agent"))
		assert.Equal(t, "2022-11-28", req.Header.Get("X-GitHub-Api-Version"))
		assert.True(t, strings.HasPrefix(req.Header.Get("Authorization"), "Bearer "))
	})

	t.Run("exchange_404_means_installation_invalid", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusNotFound}
		client, _ := newTestClient(t, fake)

		err := client.VerifyInstallation(ctx, 555)

		assert.True(t, core.IsErrorCode(err, core.ErrCodeInstallationInvalid))
		// Step two must not run when step one fails
		assert.Equal(t, 0, fake.probeHits)
	})

	t.Run("exchange_401_means_installation_invalid", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusUnauthorized}
		client, _ := newTestClient(t, fake)

		err := client.VerifyInstallation(ctx, 555)

		assert.True(t, core.IsErrorCode(err, core.ErrCodeInstallationInvalid))
		assert.Equal(t, 0, fake.probeHits)
	})

	t.Run("exchange_500_means_github_unavailable", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusInternalServerError}
		client, _ := newTestClient(t, fake)

		err := client.VerifyInstallation(ctx, 555)

		assert.True(t, core.IsErrorCode(err, core.ErrCodeGitHubUnavailable))
		assert.Equal(t, 0, fake.probeHits)
	})

	t.Run("probe_403_means_installation_invalid", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusCreated, probeStatus: http.StatusForbidden}
		client, _ := newTestClient(t, fake)

		err := client.VerifyInstallation(ctx, 555)

		assert.True(t, core.IsErrorCode(err, core.ErrCodeInstallationInvalid))
	})

	t.Run("probe_500_means_github_unavailable", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusCreated, probeStatus: http.StatusInternalServerError}
		client, _ := newTestClient(t, fake)

		err := client.VerifyInstallation(ctx, 555)

		assert.True(t, core.IsErrorCode(err, core.ErrCodeGitHubUnavailable))
	})

	t.Run("unreachable_github_means_unavailable", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusCreated, probeStatus: http.StatusOK}
		client, server := newTestClient(t, fake)
		server.Close()

		err := client.VerifyInstallation(ctx, 555)

		assert.True(t, core.IsErrorCode(err, core.ErrCodeGitHubUnavailable))
	})

	t.Run("every_verification_exchanges_a_fresh_token", func(t *testing.T) {
		fake := &fakeGitHub{exchangeStatus: http.StatusCreated, probeStatus: http.StatusOK}
		client, _ := newTestClient(t, fake)

		require.NoError(t, client.VerifyInstallation(ctx, 555))
		require.NoError(t, client.VerifyInstallation(ctx, 555))

		// No caching: both calls run the full two-step check
		assert.Equal(t, 2, fake.exchangeHits)
		assert.Equal(t, 2, fake.probeHits)
	})
}
