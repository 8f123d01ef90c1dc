package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	g := NewGitHub(server.Client(), "the-owner")
	g.oauthBaseURL = server.URL
	g.apiBaseURL = server.URL
	return g
}

func TestGitHubNewAuthorizeState(t *testing.T) {
	g := NewGitHub(http.DefaultClient, "the-owner")

	state := g.NewAuthorizeState()
	assert.Len(t, state.State, 16)
	assert.Empty(t, state.CodeVerifier)

	// Each call yields a fresh token.
	assert.NotEqual(t, state.State, g.NewAuthorizeState().State)
}

func TestGitHubAuthorizeURL(t *testing.T) {
	g := NewGitHub(http.DefaultClient, "the-owner")

	raw := g.AuthorizeURL(AuthorizeRequest{
		Credentials: Credentials{ClientID: "client-123"},
		RedirectURI: "https://example.org/oauth/github/callback",
		State:       g.NewAuthorizeState(),
	})

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "github.com", parsed.Host)
	assert.Equal(t, "/login/oauth/authorize", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "https://example.org/oauth/github/callback", q.Get("redirect_uri"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.NotEmpty(t, q.Get("state"))
}

func TestGitHubExchangeCode(t *testing.T) {
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login/oauth/access_token", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-123", body["client_id"])
		assert.Equal(t, "secret-456", body["client_secret"])
		assert.Equal(t, "the-code", body["code"])
		assert.Equal(t, "https://example.org/cb", body["redirect_uri"])

		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_token"})
	}))

	token, err := g.ExchangeCode(context.Background(), ExchangeRequest{
		Credentials: Credentials{ClientID: "client-123", ClientSecret: "secret-456"},
		Code:        "the-code",
		RedirectURI: "https://example.org/cb",
	})
	require.NoError(t, err)
	assert.Equal(t, "gho_token", token)
}

func TestGitHubExchangeCodeErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		_, err := g.ExchangeCode(context.Background(), ExchangeRequest{})
		assert.ErrorContains(t, err, "unexpected status 502")
	})

	t.Run("missing token", func(t *testing.T) {
		g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		_, err := g.ExchangeCode(context.Background(), ExchangeRequest{})
		assert.ErrorContains(t, err, "invalid response access_token")
	})
}

func TestGitHubFetchProfile(t *testing.T) {
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		require.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": 583231, "login": "octocat"}`))
	}))

	profile, err := g.FetchProfile(context.Background(), "gho_token")
	require.NoError(t, err)
	assert.Equal(t, "583231", profile.ID)
	assert.Equal(t, "octocat", profile.Username)
}

func TestGitHubFetchProfileRejectsMissingID(t *testing.T) {
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	}))

	_, err := g.FetchProfile(context.Background(), "gho_token")
	assert.ErrorContains(t, err, "invalid response id")
}

func TestGitHubCheckFollowing(t *testing.T) {
	for name, tc := range map[string]struct {
		status    int
		following bool
		wantErr   bool
	}{
		"following":     {status: http.StatusNoContent, following: true},
		"not following": {status: http.StatusNotFound, following: false},
		"upstream fail": {status: http.StatusInternalServerError, wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/user/following/the-owner", r.URL.Path)
				w.WriteHeader(tc.status)
			}))

			following, err := g.CheckFollowing(context.Background(), "gho_token")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.following, following)
		})
	}
}

func TestGitHubCheckFollowingWithoutOwner(t *testing.T) {
	g := NewGitHub(http.DefaultClient, "")

	following, err := g.CheckFollowing(context.Background(), "gho_token")
	require.NoError(t, err)
	assert.False(t, following)
}
