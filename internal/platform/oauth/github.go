package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"airdrop-backend/internal/common/apperr"
	"airdrop-backend/internal/session"
)

// GitHub implements Provider against the GitHub OAuth and REST APIs.
type GitHub struct {
	httpClient *http.Client
	// ownerUsername is the account the follower check runs against. Empty
	// disables the check.
	ownerUsername string

	oauthBaseURL string
	apiBaseURL   string
}

func NewGitHub(httpClient *http.Client, ownerUsername string) *GitHub {
	return &GitHub{
		httpClient:    httpClient,
		ownerUsername: ownerUsername,
		oauthBaseURL:  "https://github.com",
		apiBaseURL:    "https://api.github.com",
	}
}

func (g *GitHub) Name() string {
	return ProviderGitHub
}

func (g *GitHub) NewAuthorizeState() *session.OAuthState {
	return &session.OAuthState{State: randomHex(8)}
}

func (g *GitHub) AuthorizeURL(req AuthorizeRequest) string {
	q := url.Values{}
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", req.RedirectURI)
	q.Set("prompt", "select_account")
	q.Set("state", req.State.State)
	return g.oauthBaseURL + "/login/oauth/authorize?" + q.Encode()
}

func (g *GitHub) ExchangeCode(ctx context.Context, req ExchangeRequest) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     req.ClientID,
		"client_secret": req.ClientSecret,
		"code":          req.Code,
		"redirect_uri":  req.RedirectURI,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.oauthBaseURL+"/login/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)

	res, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", apperr.Upstream("github token exchange failed", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", upstreamStatus("github/create_access_token", res)
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return "", apperr.Upstream("github/create_access_token: invalid response data", err)
	}
	if data.AccessToken == "" {
		return "", apperr.Upstream("github/create_access_token: invalid response access_token", nil)
	}
	return data.AccessToken, nil
}

func (g *GitHub) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	res, err := g.apiGet(ctx, "/user", accessToken)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, upstreamStatus("github/get_user", res)
	}

	var data struct {
		ID    *int64 `json:"id"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, apperr.Upstream("github/get_user: invalid response data", err)
	}
	if data.ID == nil {
		return nil, apperr.Upstream("github/get_user: invalid response id", nil)
	}
	if data.Login == "" {
		return nil, apperr.Upstream("github/get_user: invalid response login", nil)
	}
	return &Profile{ID: strconv.FormatInt(*data.ID, 10), Username: data.Login}, nil
}

func (g *GitHub) CheckFollowing(ctx context.Context, accessToken string) (bool, error) {
	if g.ownerUsername == "" {
		return false, nil
	}
	res, err := g.apiGet(ctx, "/user/following/"+url.PathEscape(g.ownerUsername), accessToken)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, upstreamStatus("github/check_is_following", res)
}

func (g *GitHub) apiGet(ctx context.Context, path, accessToken string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Upstream("github request failed", err)
	}
	return res, nil
}

func upstreamStatus(operation string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return apperr.Upstream(fmt.Sprintf("%s: unexpected status %d: %s", operation, res.StatusCode, body), nil)
}
