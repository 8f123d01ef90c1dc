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

func newTestTwitter(t *testing.T, handler http.Handler) *Twitter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	tw := NewTwitter(server.Client(), "the_owner")
	tw.authorizeBaseURL = server.URL
	tw.apiBaseURL = server.URL
	return tw
}

func TestTwitterNewAuthorizeState(t *testing.T) {
	tw := NewTwitter(http.DefaultClient, "the_owner")

	state := tw.NewAuthorizeState()
	assert.Len(t, state.State, 32)
	assert.Len(t, state.CodeVerifier, 32)
	assert.NotEqual(t, state.State, state.CodeVerifier)
}

func TestTwitterAuthorizeURL(t *testing.T) {
	tw := NewTwitter(http.DefaultClient, "the_owner")
	state := tw.NewAuthorizeState()

	raw := tw.AuthorizeURL(AuthorizeRequest{
		Credentials: Credentials{ClientID: "client-123"},
		RedirectURI: "https://example.org/oauth/twitter/callback",
		State:       state,
	})

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "twitter.com", parsed.Host)
	assert.Equal(t, "/i/oauth2/authorize", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "https://example.org/oauth/twitter/callback", q.Get("redirect_uri"))
	assert.Equal(t, "tweet.read users.read follows.read", q.Get("scope"))
	assert.Equal(t, state.State, q.Get("state"))
	assert.Equal(t, state.CodeVerifier, q.Get("code_challenge"))
	assert.Equal(t, "plain", q.Get("code_challenge_method"))
}

func TestTwitterExchangeCode(t *testing.T) {
	tw := newTestTwitter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/2/oauth2/token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-123", user)
		assert.Equal(t, "secret-456", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-verifier", r.PostForm.Get("code_verifier"))
		assert.Equal(t, "https://example.org/cb", r.PostForm.Get("redirect_uri"))

		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tw_token"})
	}))

	token, err := tw.ExchangeCode(context.Background(), ExchangeRequest{
		Credentials:  Credentials{ClientID: "client-123", ClientSecret: "secret-456"},
		Code:         "the-code",
		RedirectURI:  "https://example.org/cb",
		CodeVerifier: "the-verifier",
	})
	require.NoError(t, err)
	assert.Equal(t, "tw_token", token)
}

func TestTwitterExchangeCodeBadStatus(t *testing.T) {
	tw := newTestTwitter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))

	_, err := tw.ExchangeCode(context.Background(), ExchangeRequest{})
	assert.ErrorContains(t, err, "unexpected status 401")
}

func TestTwitterFetchProfile(t *testing.T) {
	tw := newTestTwitter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/users/me", r.URL.Path)
		require.Equal(t, "id,username", r.URL.Query().Get("user.fields"))
		require.Equal(t, "Bearer tw_token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data": {"id": "1234567890", "username": "jack"}}`))
	}))

	profile, err := tw.FetchProfile(context.Background(), "tw_token")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", profile.ID)
	assert.Equal(t, "jack", profile.Username)
}

func TestTwitterFetchProfileRejectsEmptyData(t *testing.T) {
	tw := newTestTwitter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))

	_, err := tw.FetchProfile(context.Background(), "tw_token")
	assert.ErrorContains(t, err, "invalid response data.data.id")
}

func TestTwitterCheckFollowingAlwaysPasses(t *testing.T) {
	tw := NewTwitter(http.DefaultClient, "the_owner")

	following, err := tw.CheckFollowing(context.Background(), "tw_token")
	require.NoError(t, err)
	assert.True(t, following)
}

func TestTwitterFollowsOwner(t *testing.T) {
	for name, tc := range map[string]struct {
		body      string
		following bool
	}{
		"following":     {body: `{"data": {"id": "99", "connection_status": ["following"]}}`, following: true},
		"not following": {body: `{"data": {"id": "99", "connection_status": []}}`, following: false},
	} {
		t.Run(name, func(t *testing.T) {
			tw := newTestTwitter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/2/users/by/username/the_owner", r.URL.Path)
				_, _ = w.Write([]byte(tc.body))
			}))

			following, err := tw.FollowsOwner(context.Background(), "tw_token")
			require.NoError(t, err)
			assert.Equal(t, tc.following, following)
		})
	}
}
