// Package workers holds the background consumers of the mint queue.
package workers

import (
	"context"
	"errors"
	"time"

	"airdrop-backend/internal/catalog"
	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/features/airdrop/repository"
	"airdrop-backend/internal/platform/chain"
)

// mintTimeout bounds one mint submission; the queue redelivers on expiry.
const mintTimeout = 60 * time.Second

// MintWorker performs the on-chain mint for claimed ledger rows. Handle is
// idempotent: the same airdrop id may be delivered more than once.
type MintWorker struct {
	repo repository.AirdropRepository
	cat  *catalog.Catalog
	// minters maps a chain name to the minter for that chain's endpoint.
	minters map[string]chain.Minter
	now     func() time.Time
}

func NewMintWorker(repo repository.AirdropRepository, cat *catalog.Catalog, minters map[string]chain.Minter) *MintWorker {
	return &MintWorker{repo: repo, cat: cat, minters: minters, now: time.Now}
}

// Handle processes one mint job. A nil return means the message is handled
// (minted or permanently not applicable); an error requests redelivery.
func (w *MintWorker) Handle(ctx context.Context, airdropID string) error {
	record, err := w.repo.GetByID(ctx, airdropID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn().Str("airdrop_id", airdropID).Msg("airdrop not found, dropping mint job")
		return nil
	}
	if err != nil {
		return err
	}

	if record.IsMinted {
		logger.Info().Str("airdrop_id", airdropID).Msg("airdrop already minted, dropping mint job")
		return nil
	}
	if !record.IsClaimed || record.ClaimAddress == nil {
		// Claim precedes enqueue, so this state cannot be fixed by retrying.
		logger.Warn().Str("airdrop_id", airdropID).Msg("airdrop not claimed or missing claim address, dropping mint job")
		return nil
	}

	nft, ok := w.cat.Get(record.NFTID)
	if !ok {
		logger.Warn().Str("airdrop_id", airdropID).Str("nft_id", record.NFTID).Msg("nft not in catalog, dropping mint job")
		return nil
	}

	minter, ok := w.minters[nft.Chain]
	if !ok {
		logger.Warn().Str("airdrop_id", airdropID).Str("chain", nft.Chain).Msg("no rpc endpoint for chain, dropping mint job")
		return nil
	}

	mintCtx, cancel := context.WithTimeout(ctx, mintTimeout)
	defer cancel()

	txHash, err := minter.Mint(mintCtx, chain.MintRequest{
		Contract: nft.Contract,
		TokenID:  nft.Token,
		To:       *record.ClaimAddress,
		Amount:   1,
	})
	if err != nil {
		return err
	}

	recorded, err := w.repo.MarkMinted(ctx, record.ID, txHash, w.now().Unix())
	if err != nil {
		return err
	}
	if !recorded {
		// A concurrent delivery won the write; the mint above is the
		// duplicate. Only reachable when two consumers race the same id.
		logger.Warn().Str("airdrop_id", record.ID).Str("mint_tx", txHash).Msg("mint result already recorded")
		return nil
	}

	logger.Info().Str("airdrop_id", record.ID).Str("mint_tx", txHash).Msg("airdrop minted")
	return nil
}
