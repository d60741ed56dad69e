package datastore

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTableStakeRecord(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.StakeRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.StakeRecord)(nil)).Index("index_stake_record_wallet_active").IfNotExists().Column("wallet_address", "active").Exec(ctx)
	if err != nil {
		return err
	}

	// one live stake per entry
	_, err = db.NewRaw(`
		create unique index if not exists index_stake_record_entry_active
			on stake_records (entry_id) where active = true;`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableTokenStake(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.TokenStake)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.TokenStake)(nil)).Index("index_token_stake_wallet_active").IfNotExists().Column("wallet_address", "active").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertStakeRecord(ctx context.Context, idb bun.IDB, record *models.StakeRecord) error {
	_, err := idb.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// DeactivateStake flips active exactly once; sql.ErrNoRows means the
// entry was not actively staked by this wallet.
func DeactivateStake(ctx context.Context, db *bun.DB, wallet string, entryID int64) error {
	res, err := db.NewUpdate().Model((*models.StakeRecord)(nil)).
		Set("active = ?", false).
		Set("unstaked_at = current_timestamp").
		Where("wallet_address = ?", wallet).
		Where("entry_id = ?", entryID).
		Where("active = ?", true).
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func GetActiveStakes(ctx context.Context, db *bun.DB, wallet string) ([]*models.StakeRecord, error) {
	var records []*models.StakeRecord
	err := db.NewSelect().Model(&records).
		Where("wallet_address = ?", wallet).
		Where("active = ?", true).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func GetActiveStakedEntryIDs(ctx context.Context, idb bun.IDB, wallet string, entryIDs []int64) ([]int64, error) {
	var ids []int64
	err := idb.NewSelect().Model((*models.StakeRecord)(nil)).
		Column("entry_id").
		Where("wallet_address = ?", wallet).
		Where("entry_id IN (?)", bun.In(entryIDs)).
		Where("active = ?", true).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func IsEntryStaked(ctx context.Context, db *bun.DB, entryID int64) (bool, error) {
	count, err := db.NewSelect().Model((*models.StakeRecord)(nil)).
		Where("entry_id = ?", entryID).
		Where("active = ?", true).
		Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func InsertTokenStake(ctx context.Context, db *bun.DB, stake *models.TokenStake) error {
	_, err := db.NewInsert().Model(stake).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func DeactivateTokenStake(ctx context.Context, db *bun.DB, wallet string, stakeID int64) (*models.TokenStake, error) {
	var stake models.TokenStake
	res, err := db.NewUpdate().Model(&stake).
		Set("active = ?", false).
		Set("unstaked_at = current_timestamp").
		Where("id = ?", stakeID).
		Where("wallet_address = ?", wallet).
		Where("active = ?", true).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}

	return &stake, nil
}

func GetActiveTokenStakes(ctx context.Context, db *bun.DB, wallet string) ([]*models.TokenStake, error) {
	var stakes []*models.TokenStake
	err := db.NewSelect().Model(&stakes).
		Where("wallet_address = ?", wallet).
		Where("active = ?", true).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return stakes, nil
}

// GetActivelyStakedWallets lists every wallet the accrual job must visit:
// at least one active NFT stake or token stake.
func GetActivelyStakedWallets(ctx context.Context, db *bun.DB, limit, offset int) ([]string, error) {
	var wallets []string
	err := db.NewSelect().
		TableExpr(`(
			select wallet_address from stake_records where active = true
			union
			select wallet_address from token_stakes where active = true
		) as staked`).
		ColumnExpr("wallet_address").
		OrderExpr("wallet_address ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &wallets)
	if err != nil {
		return nil, err
	}

	return wallets, nil
}
