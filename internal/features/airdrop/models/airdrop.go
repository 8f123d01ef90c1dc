package models

import "airdrop-backend/internal/catalog"

// AirdropRecord is one row of the eligibility ledger: the state of one NFT for
// one user, progressing through eligible, claimed, minted. Stage flags only
// ever go forward.
type AirdropRecord struct {
	// ID doubles as the idempotency key for eligibility grants.
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	NFTID  string `json:"nft_id"`

	IsEligible bool   `json:"is_eligible"`
	EligibleAt *int64 `json:"eligible_at"`

	IsClaimed    bool    `json:"is_claimed"`
	ClaimedAt    *int64  `json:"claimed_at"`
	ClaimAddress *string `json:"claim_address"`

	IsMinted bool    `json:"is_minted"`
	MintedAt *int64  `json:"minted_at"`
	MintTx   *string `json:"mint_tx"`
}

// RecordID builds the ledger primary key for an (NFT, user) pair.
func RecordID(nftID, userID string) string {
	return nftID + "::" + userID
}

// NFTStatus is a catalog entry annotated with the caller's personal ledger
// state, as returned by the listing endpoint.
type NFTStatus struct {
	catalog.NFT

	IsEligible   bool    `json:"is_eligible"`
	EligibleAt   *int64  `json:"eligible_at"`
	IsClaimed    bool    `json:"is_claimed"`
	ClaimedAt    *int64  `json:"claimed_at"`
	ClaimAddress *string `json:"claim_address"`
	IsMinted     bool    `json:"is_minted"`
	MintedAt     *int64  `json:"minted_at"`
	MintTx       *string `json:"mint_tx"`
}
