// Package catalog holds the static list of mintable NFTs. The catalog is
// loaded once at startup and never mutated afterwards, so it is safe to share
// across requests.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// NFT is one mintable token as published to clients.
type NFT struct {
	ID       string `json:"id"`
	Chain    string `json:"chain"`
	Standard string `json:"standard"`
	Contract string `json:"contract"`
	// Token is the on-chain token id as a decimal string.
	Token       string `json:"token"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Helper      string `json:"helper"`
	Image       string `json:"image"`
}

type Catalog struct {
	items []NFT
	byID  map[string]NFT
}

// New builds a catalog from the given entries, validating ids.
func New(items []NFT) (*Catalog, error) {
	byID := make(map[string]NFT, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog entry with empty id")
		}
		if _, dup := byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", item.ID)
		}
		byID[item.ID] = item
	}
	return &Catalog{items: append([]NFT(nil), items...), byID: byID}, nil
}

// Load reads the catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var items []NFT
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(items)
}

// Items returns the catalog entries in their published order.
func (c *Catalog) Items() []NFT {
	return append([]NFT(nil), c.items...)
}

// Get looks up an entry by id.
func (c *Catalog) Get(id string) (NFT, bool) {
	nft, ok := c.byID[id]
	return nft, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.items)
}
