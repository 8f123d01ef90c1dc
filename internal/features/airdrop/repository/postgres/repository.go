package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"airdrop-backend/internal/features/airdrop/models"
	"airdrop-backend/internal/features/airdrop/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.AirdropRepository {
	return &postgresRepository{db: db}
}

const recordColumns = `id, user_id, nft_id, is_eligible, eligible_at, is_claimed, claimed_at, claim_address, is_minted, minted_at, mint_tx`

func (r *postgresRepository) MarkEligible(ctx context.Context, nftID, userID string, now int64) error {
	query := `
		INSERT INTO airdrops (id, nft_id, user_id, is_eligible, eligible_at)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, models.RecordID(nftID, userID), nftID, userID, now)
	if err != nil {
		return fmt.Errorf("failed to mark eligible: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindClaimable(ctx context.Context, nftID string, userIDs []string) (*models.AirdropRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM airdrops
		WHERE nft_id = $1 AND user_id = ANY($2) AND is_eligible AND NOT is_claimed
		LIMIT 1
	`
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, nftID, pq.Array(userIDs)))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find claimable record: %w", err)
	}
	return record, nil
}

func (r *postgresRepository) Claim(ctx context.Context, id, address string, now int64) (bool, error) {
	// Re-checking the stage flags in the predicate makes the transition a
	// compare-and-set: two concurrent claims can only transition one row.
	query := `
		UPDATE airdrops
		SET is_claimed = TRUE, claimed_at = $2, claim_address = $3
		WHERE id = $1 AND is_eligible AND NOT is_claimed
	`
	res, err := r.db.ExecContext(ctx, query, id, now, address)
	if err != nil {
		return false, fmt.Errorf("failed to claim record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to claim record: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresRepository) MarkMinted(ctx context.Context, id, txHash string, now int64) (bool, error) {
	query := `
		UPDATE airdrops
		SET is_minted = TRUE, minted_at = $2, mint_tx = $3
		WHERE id = $1 AND is_claimed AND NOT is_minted
	`
	res, err := r.db.ExecContext(ctx, query, id, now, txHash)
	if err != nil {
		return false, fmt.Errorf("failed to mark minted: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark minted: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.AirdropRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM airdrops WHERE id = $1`
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

func (r *postgresRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.AirdropRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + recordColumns + ` FROM airdrops WHERE user_id = ANY($1)`
	return r.queryRecords(ctx, query, pq.Array(userIDs))
}

func (r *postgresRepository) ListUnminted(ctx context.Context) ([]models.AirdropRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM airdrops WHERE is_claimed AND NOT is_minted`
	return r.queryRecords(ctx, query)
}

func (r *postgresRepository) queryRecords(ctx context.Context, query string, args ...any) ([]models.AirdropRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []models.AirdropRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AirdropRecord, error) {
	var (
		record       models.AirdropRecord
		eligibleAt   sql.NullInt64
		claimedAt    sql.NullInt64
		claimAddress sql.NullString
		mintedAt     sql.NullInt64
		mintTx       sql.NullString
	)
	err := row.Scan(
		&record.ID, &record.UserID, &record.NFTID,
		&record.IsEligible, &eligibleAt,
		&record.IsClaimed, &claimedAt, &claimAddress,
		&record.IsMinted, &mintedAt, &mintTx,
	)
	if err != nil {
		return nil, err
	}
	if eligibleAt.Valid {
		record.EligibleAt = &eligibleAt.Int64
	}
	if claimedAt.Valid {
		record.ClaimedAt = &claimedAt.Int64
	}
	if claimAddress.Valid {
		record.ClaimAddress = &claimAddress.String
	}
	if mintedAt.Valid {
		record.MintedAt = &mintedAt.Int64
	}
	if mintTx.Valid {
		record.MintTx = &mintTx.String
	}
	return &record, nil
}
