package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyID(t *testing.T) {
	_, err := New([]NFT{{ID: ""}})
	assert.ErrorContains(t, err, "empty id")
}

func TestNewRejectsDuplicateID(t *testing.T) {
	_, err := New([]NFT{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	raw := `[
		{"id": "github_follower_2026", "chain": "gnosis", "standard": "erc1155",
		 "contract": "0x1111111111111111111111111111111111111111", "token": "1",
		 "name": "GitHub Follower 2026"},
		{"id": "twitter_follower_2026", "chain": "gnosis", "standard": "erc1155",
		 "contract": "0x1111111111111111111111111111111111111111", "token": "2",
		 "name": "Twitter Follower 2026"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	nft, ok := cat.Get("twitter_follower_2026")
	require.True(t, ok)
	assert.Equal(t, "2", nft.Token)
	assert.Equal(t, "gnosis", nft.Chain)

	_, ok = cat.Get("unknown")
	assert.False(t, ok)

	// Items returns a copy; mutating it must not corrupt the catalog.
	items := cat.Items()
	items[0].ID = "mutated"
	nft, ok = cat.Get("github_follower_2026")
	require.True(t, ok)
	assert.Equal(t, "github_follower_2026", nft.ID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
