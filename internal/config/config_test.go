package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("SITE_DEV_HOST", "localhost:3000")
	t.Setenv("SITE_DEV_URL", "http://localhost:3000")
	t.Setenv("SITE_DEV_GITHUB_CLIENT_ID", "gh-client")
	t.Setenv("SITE_DEV_GITHUB_CLIENT_SECRET", "gh-secret")
	t.Setenv("SITE_PROD_HOST", "example.org")
	t.Setenv("SITE_PROD_URL", "https://example.org")
	t.Setenv("RPC_ENDPOINT_GNOSIS", "https://rpc.gnosischain.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.SecretKey)
	assert.Equal(t, ":8080", cfg.HTTPAddr)

	sites := cfg.Sites()
	require.Len(t, sites, 2)
	assert.Equal(t, "localhost:3000", sites[0].Host)
	assert.Equal(t, "example.org", sites[1].Host)

	client, ok := sites[0].OAuthClient("github")
	require.True(t, ok)
	assert.Equal(t, "gh-client", client.ClientID)
	assert.Equal(t, "gh-secret", client.ClientSecret)

	_, ok = sites[0].OAuthClient("gitlab")
	assert.False(t, ok)

	assert.Equal(t, []string{"http://localhost:3000", "https://example.org"}, cfg.CORSOrigins())
	assert.Equal(t, map[string]string{"gnosis": "https://rpc.gnosischain.com"}, cfg.RPCEndpoints)

	site, ok := cfg.SiteByHost("example.org")
	require.True(t, ok)
	assert.Equal(t, "https://example.org", site.URL)
	_, ok = cfg.SiteByHost("evil.example")
	assert.False(t, ok)
}

func TestLoadRequiresSecretKey(t *testing.T) {
	// t.Setenv restores the previous value; the unset makes "required" fail.
	t.Setenv("SECRET_KEY", "")
	require.NoError(t, os.Unsetenv("SECRET_KEY"))

	_, err := Load()
	assert.Error(t, err)
}
