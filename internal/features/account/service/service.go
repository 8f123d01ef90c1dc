package service

import (
	"context"
	"fmt"
	"time"

	"airdrop-backend/internal/common/apperr"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/config"
	"airdrop-backend/internal/features/account/models"
	"airdrop-backend/internal/features/airdrop/repository"
	"airdrop-backend/internal/platform/oauth"
	"airdrop-backend/internal/session"
)

// SignInInput is the callback payload posted by the frontend after the
// provider redirects back to it.
type SignInInput struct {
	Host        string `json:"host"`
	State       string `json:"state"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// AccountService drives the per-provider OAuth sign-in flow and the follower
// eligibility side effect.
type AccountService struct {
	sites     []config.Site
	providers map[string]oauth.Provider
	repo      repository.AirdropRepository
	now       func() time.Time
}

func NewAccountService(sites []config.Site, providers []oauth.Provider, repo repository.AirdropRepository) *AccountService {
	byName := make(map[string]oauth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AccountService{sites: sites, providers: byName, repo: repo, now: time.Now}
}

// Provider resolves a provider by name.
func (s *AccountService) Provider(name string) (oauth.Provider, bool) {
	p, ok := s.providers[name]
	return p, ok
}

// AuthorizeURL starts the OAuth dance: it stores fresh one-time state in the
// session and returns the provider's authorization URL for the given site.
func (s *AccountService) AuthorizeURL(provider, host string, sess *session.Session) (string, error) {
	p, site, creds, err := s.resolve(provider, host)
	if err != nil {
		return "", err
	}

	state := p.NewAuthorizeState()
	sess.SetState(provider, state)

	return p.AuthorizeURL(oauth.AuthorizeRequest{
		Credentials: creds,
		RedirectURI: callbackURI(site, p),
		State:       state,
	}), nil
}

// SignIn completes the dance: verifies the CSRF state, exchanges the code,
// fetches the profile, optionally grants follower eligibility, and binds the
// identity into the session.
func (s *AccountService) SignIn(ctx context.Context, provider string, in SignInInput, sess *session.Session) error {
	p, _, creds, err := s.resolve(provider, in.Host)
	if err != nil {
		return err
	}
	if in.State == "" {
		return apperr.BadRequest("missing state")
	}
	if in.Code == "" {
		return apperr.BadRequest("missing code")
	}
	if in.RedirectURI == "" {
		return apperr.BadRequest("missing redirect_uri")
	}

	pending := sess.State(provider)
	if pending == nil || pending.State != in.State {
		return apperr.BadRequest("invalid state")
	}
	// The state token is one-time: discard it before anything can fail.
	sess.SetState(provider, nil)

	accessToken, err := p.ExchangeCode(ctx, oauth.ExchangeRequest{
		Credentials:  creds,
		Code:         in.Code,
		RedirectURI:  in.RedirectURI,
		CodeVerifier: pending.CodeVerifier,
	})
	if err != nil {
		return err
	}

	profile, err := p.FetchProfile(ctx, accessToken)
	if err != nil {
		return err
	}

	following, err := p.CheckFollowing(ctx, accessToken)
	if err != nil {
		return err
	}
	if following {
		nftID := FollowerNFTID(provider, s.now().Year())
		userID := models.UserID(provider, profile.ID)
		if err := s.repo.MarkEligible(ctx, nftID, userID, s.now().Unix()); err != nil {
			return err
		}
		logger.Info().Str("nft_id", nftID).Str("user_id", userID).Msg("follower eligibility granted")
	}

	sess.SetIdentity(provider, &session.Identity{ID: profile.ID, Username: profile.Username})
	return nil
}

// SignOut clears the provider's bound identity. Eligibility already recorded
// persists.
func (s *AccountService) SignOut(provider string, sess *session.Session) error {
	if _, ok := s.providers[provider]; !ok {
		return apperr.BadRequest("unknown provider")
	}
	sess.SetIdentity(provider, nil)
	return nil
}

// FollowerNFTID is the id of the campaign's per-provider, per-year NFT.
func FollowerNFTID(provider string, year int) string {
	return fmt.Sprintf("%s_follower_%d", provider, year)
}

func (s *AccountService) resolve(provider, host string) (oauth.Provider, config.Site, oauth.Credentials, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, config.Site{}, oauth.Credentials{}, apperr.BadRequest("unknown provider")
	}
	site, ok := s.siteByHost(host)
	if !ok {
		return nil, config.Site{}, oauth.Credentials{}, apperr.BadRequest(fmt.Sprintf("unknown host %q", host))
	}
	client, ok := site.OAuthClient(provider)
	if !ok || client.ClientID == "" || client.ClientSecret == "" {
		return nil, config.Site{}, oauth.Credentials{}, apperr.Internal(fmt.Sprintf("missing %s credentials for %s", provider, site.Host), nil)
	}
	return p, site, oauth.Credentials{ClientID: client.ClientID, ClientSecret: client.ClientSecret}, nil
}

func (s *AccountService) siteByHost(host string) (config.Site, bool) {
	for _, site := range s.sites {
		if site.Host == host {
			return site, true
		}
	}
	return config.Site{}, false
}

func callbackURI(site config.Site, p oauth.Provider) string {
	return site.URL + "/oauth/" + p.Name() + "/callback"
}
