package repository

import (
	"context"
	"errors"

	"airdrop-backend/internal/features/airdrop/models"
)

var ErrNotFound = errors.New("airdrop record not found")

// AirdropRepository is the durable eligibility ledger. The claim and mint
// transitions are conditional writes: they report false when the row has
// already moved past the expected stage, which is the whole double-claim and
// double-mint guard.
type AirdropRepository interface {
	// MarkEligible inserts the eligibility row for (nftID, userID).
	// Duplicate grants are no-ops and preserve the original eligible_at.
	MarkEligible(ctx context.Context, nftID, userID string, now int64) error

	// FindClaimable returns a row for nftID owned by any of userIDs that is
	// eligible and not yet claimed, or ErrNotFound.
	FindClaimable(ctx context.Context, nftID string, userIDs []string) (*models.AirdropRecord, error)

	// Claim transitions the row with the given id to claimed, setting the
	// destination address. Returns false if the row was no longer claimable.
	Claim(ctx context.Context, id, address string, now int64) (bool, error)

	// MarkMinted records a successful mint. Returns false if the row was not
	// in the claimed-unminted state.
	MarkMinted(ctx context.Context, id, txHash string, now int64) (bool, error)

	GetByID(ctx context.Context, id string) (*models.AirdropRecord, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]models.AirdropRecord, error)

	// ListUnminted returns claimed rows awaiting mint, for introspection.
	ListUnminted(ctx context.Context) ([]models.AirdropRecord, error)
}
