// Package session implements the signed, expiring cookie session holding the
// caller's bound OAuth identities and in-flight OAuth state.
package session

// Identity is an OAuth account bound to the session via successful sign-in.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// OAuthState is the transient state of an OAuth dance in progress. The
// verifier is only set for providers using PKCE.
type OAuthState struct {
	State        string `json:"state"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

// Session is the per-browser session value. The zero value is an anonymous
// session.
type Session struct {
	GitHub       *Identity   `json:"github,omitempty"`
	GitHubState  *OAuthState `json:"github_state,omitempty"`
	Twitter      *Identity   `json:"twitter,omitempty"`
	TwitterState *OAuthState `json:"twitter_state,omitempty"`
}

// Identity returns the bound identity for a provider, or nil.
func (s *Session) Identity(provider string) *Identity {
	switch provider {
	case "github":
		return s.GitHub
	case "twitter":
		return s.Twitter
	}
	return nil
}

// SetIdentity binds (or clears, with nil) the identity for a provider,
// overwriting any prior binding.
func (s *Session) SetIdentity(provider string, id *Identity) {
	switch provider {
	case "github":
		s.GitHub = id
	case "twitter":
		s.Twitter = id
	}
}

// State returns the pending OAuth state for a provider, or nil.
func (s *Session) State(provider string) *OAuthState {
	switch provider {
	case "github":
		return s.GitHubState
	case "twitter":
		return s.TwitterState
	}
	return nil
}

// SetState stores (or discards, with nil) the pending OAuth state for a
// provider.
func (s *Session) SetState(provider string, st *OAuthState) {
	switch provider {
	case "github":
		s.GitHubState = st
	case "twitter":
		s.TwitterState = st
	}
}
