// Package oauth implements the GitHub and Twitter OAuth provider clients used
// by the sign-in flow.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"airdrop-backend/internal/session"
)

const (
	ProviderGitHub  = "github"
	ProviderTwitter = "twitter"
)

// UserAgent identifies this backend to the provider APIs.
const UserAgent = "airdrop-backend"

// Profile is the provider-native account as returned by the profile endpoint.
type Profile struct {
	ID       string
	Username string
}

// Credentials are the per-site OAuth client credentials.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// AuthorizeRequest carries everything needed to build an authorization URL.
type AuthorizeRequest struct {
	Credentials
	RedirectURI string
	State       *session.OAuthState
}

// ExchangeRequest carries everything needed to turn a callback code into an
// access token.
type ExchangeRequest struct {
	Credentials
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// Provider is one OAuth identity provider. Implementations are stateless and
// safe for concurrent use.
type Provider interface {
	Name() string
	// NewAuthorizeState generates the one-time state (and, for PKCE
	// providers, the verifier) stored in the session during the dance.
	NewAuthorizeState() *session.OAuthState
	AuthorizeURL(req AuthorizeRequest) string
	ExchangeCode(ctx context.Context, req ExchangeRequest) (accessToken string, err error)
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
	// CheckFollowing reports whether the signed-in account follows the
	// campaign owner account.
	CheckFollowing(ctx context.Context, accessToken string) (bool, error)
}

// NewHTTPClient returns the client shared by provider implementations.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

func randomHex(byteLen int) string {
	buf := make([]byte, byteLen)
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
