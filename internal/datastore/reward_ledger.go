package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTableRewardLedger(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DailyRewardLedgerRow)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DailyRewardLedgerRow)(nil)).Index("index_reward_ledger_wallet_day").IfNotExists().Unique().Column("wallet_address", "day").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// AccrueDailyRewards credits the earned columns for (wallet, day) at most
// once. The `accrued` flag is the job's idempotency key: out-of-band
// credits (achievement payouts) may have created the row already, so the
// conflict branch adds the deltas only while the flag is still false. A
// repeated run for the same day changes nothing and reports false.
func AccrueDailyRewards(ctx context.Context, db *bun.DB, wallet string, day time.Time, nftEarned, tokenEarned float64) (bool, error) {
	row := &models.DailyRewardLedgerRow{
		WalletAddress: wallet,
		Day:           day,
		NFTEarned:     nftEarned,
		TokenEarned:   tokenEarned,
		Accrued:       true,
	}

	res, err := db.NewInsert().Model(row).
		On("CONFLICT (wallet_address, day) DO UPDATE").
		Set("nft_earned = daily_reward_ledger.nft_earned + EXCLUDED.nft_earned").
		Set("token_earned = daily_reward_ledger.token_earned + EXCLUDED.token_earned").
		Set("accrued = true").
		Where("daily_reward_ledger.accrued = false").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func GetRewardSummary(ctx context.Context, idb bun.IDB, wallet string) (*models.RewardSummary, error) {
	summary := models.RewardSummary{WalletAddress: wallet}
	err := idb.NewSelect().
		Model((*models.DailyRewardLedgerRow)(nil)).
		ColumnExpr("COALESCE(SUM(nft_earned), 0) AS nft_earned").
		ColumnExpr("COALESCE(SUM(nft_claimed), 0) AS nft_claimed").
		ColumnExpr("COALESCE(SUM(token_earned), 0) AS token_earned").
		ColumnExpr("COALESCE(SUM(token_claimed), 0) AS token_claimed").
		Where("wallet_address = ?", wallet).
		Scan(ctx, &summary)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// ClaimNFTBucket moves the wallet's whole pending NFT yield into claimed
// inside the caller's transaction. The claimed amount lands on today's
// row so the per-day history stays append-only.
func ClaimNFTBucket(ctx context.Context, tx bun.Tx, wallet string, day time.Time, amount float64) error {
	row := &models.DailyRewardLedgerRow{
		WalletAddress: wallet,
		Day:           day,
		NFTClaimed:    amount,
	}

	_, err := tx.NewInsert().Model(row).
		On("CONFLICT (wallet_address, day) DO UPDATE").
		Set("nft_claimed = daily_reward_ledger.nft_claimed + EXCLUDED.nft_claimed").
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func ClaimTokenBucket(ctx context.Context, tx bun.Tx, wallet string, day time.Time, amount float64) error {
	row := &models.DailyRewardLedgerRow{
		WalletAddress: wallet,
		Day:           day,
		TokenClaimed:  amount,
	}

	_, err := tx.NewInsert().Model(row).
		On("CONFLICT (wallet_address, day) DO UPDATE").
		Set("token_claimed = daily_reward_ledger.token_claimed + EXCLUDED.token_claimed").
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// CreditTokenEarned adds an out-of-band NEFT credit (achievement payouts)
// to the wallet's row for the given day.
func CreditTokenEarned(ctx context.Context, idb bun.IDB, wallet string, day time.Time, amount float64) error {
	row := &models.DailyRewardLedgerRow{
		WalletAddress: wallet,
		Day:           day,
		TokenEarned:   amount,
	}

	_, err := idb.NewInsert().Model(row).
		On("CONFLICT (wallet_address, day) DO UPDATE").
		Set("token_earned = daily_reward_ledger.token_earned + EXCLUDED.token_earned").
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetLedgerRows(ctx context.Context, db *bun.DB, wallet string, limit, offset int) ([]*models.DailyRewardLedgerRow, error) {
	var rows []*models.DailyRewardLedgerRow
	err := db.NewSelect().Model(&rows).
		Where("wallet_address = ?", wallet).
		OrderExpr("day DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
