package service

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"airdrop-backend/internal/catalog"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/features/airdrop/models"
	"airdrop-backend/internal/features/airdrop/repository"
)

// MintEnqueuer publishes mint jobs. Delivery is at-least-once; the worker
// tolerates duplicates.
type MintEnqueuer interface {
	EnqueueMint(ctx context.Context, airdropID string) error
}

type AirdropService struct {
	repo  repository.AirdropRepository
	queue MintEnqueuer
	cat   *catalog.Catalog
	now   func() time.Time
}

func NewAirdropService(repo repository.AirdropRepository, queue MintEnqueuer, cat *catalog.Catalog) *AirdropService {
	return &AirdropService{repo: repo, queue: queue, cat: cat, now: time.Now}
}

// Claim validates the request, transitions the matching ledger row to claimed
// and enqueues a mint job. userIDs are the caller's bound identities; a row
// matching any of them can be claimed.
func (s *AirdropService) Claim(ctx context.Context, userIDs []string, nftID, address string) error {
	if nftID == "" {
		return ErrInvalidNFTID
	}
	if !common.IsHexAddress(address) {
		return ErrInvalidAddress
	}
	if len(userIDs) == 0 {
		return ErrNoSignedInUser
	}

	record, err := s.repo.FindClaimable(ctx, nftID, userIDs)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotEligible
	}
	if err != nil {
		return err
	}

	// The update targets the row by primary key and re-checks the stage
	// flags, so a concurrent claim for the same row loses here instead of
	// re-matching a transitioned row.
	claimed, err := s.repo.Claim(ctx, record.ID, address, s.now().Unix())
	if err != nil {
		return err
	}
	if !claimed {
		return ErrNotEligible
	}

	if err := s.queue.EnqueueMint(ctx, record.ID); err != nil {
		// The claim is durable; the stuck row surfaces via /debug/mintings.
		logger.Error().Err(err).Str("airdrop_id", record.ID).Msg("failed to enqueue mint job")
		return err
	}

	logger.Info().Str("airdrop_id", record.ID).Str("claim_address", address).Msg("airdrop claimed")
	return nil
}

// List returns the full catalog annotated with the caller's per-stage status.
// NFTs without a matching ledger row report all stages false.
func (s *AirdropService) List(ctx context.Context, userIDs []string) ([]models.NFTStatus, error) {
	var records []models.AirdropRecord
	if len(userIDs) > 0 {
		var err error
		records, err = s.repo.ListByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	result := make([]models.NFTStatus, 0, s.cat.Len())
	for _, nft := range s.cat.Items() {
		status := models.NFTStatus{NFT: nft}
		// At most one record matches per identity; across identities the
		// last match wins.
		for _, record := range records {
			if record.NFTID != nft.ID {
				continue
			}
			if record.IsEligible {
				status.IsEligible = true
				status.EligibleAt = record.EligibleAt
			}
			if record.IsClaimed {
				status.IsClaimed = true
				status.ClaimedAt = record.ClaimedAt
				status.ClaimAddress = record.ClaimAddress
			}
			if record.IsMinted {
				status.IsMinted = true
				status.MintedAt = record.MintedAt
				status.MintTx = record.MintTx
			}
		}
		result = append(result, status)
	}
	return result, nil
}

// Unminted returns claimed rows awaiting mint, for the debug surface.
func (s *AirdropService) Unminted(ctx context.Context) ([]models.AirdropRecord, error) {
	return s.repo.ListUnminted(ctx)
}
