package datastore

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTableDistribution(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DistributionRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DistributionRecord)(nil)).Index("index_distribution_wallet").IfNotExists().Column("wallet_address").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DistributionRecord)(nil)).Index("index_distribution_entry_id").IfNotExists().Unique().Column("entry_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertDistribution(ctx context.Context, idb bun.IDB, record *models.DistributionRecord) error {
	_, err := idb.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindDistributionByID(ctx context.Context, idb bun.IDB, id int64) (*models.DistributionRecord, error) {
	var record models.DistributionRecord
	err := idb.NewSelect().Model(&record).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// FindDistributionByIDForUpdate row-locks the distribution so claim and
// stake bookkeeping serialize with burns touching the same row.
func FindDistributionByIDForUpdate(ctx context.Context, idb bun.IDB, id int64) (*models.DistributionRecord, error) {
	var record models.DistributionRecord
	err := idb.NewSelect().Model(&record).Where("id = ?", id).For("UPDATE").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func GetWalletDistributions(ctx context.Context, db *bun.DB, wallet string) ([]*models.DistributionRecord, error) {
	var records []*models.DistributionRecord
	err := db.NewSelect().Model(&records).
		Where("wallet_address = ?", wallet).
		Where("recovered = ?", false).
		OrderExpr("distributed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetDistributionsByIDsForUpdate loads the selected rows with a row
// lock so burn validation and the burned_at flip see the same state.
func GetDistributionsByIDsForUpdate(ctx context.Context, idb bun.IDB, wallet string, ids []int64) ([]*models.DistributionRecord, error) {
	var records []*models.DistributionRecord
	err := idb.NewSelect().Model(&records).
		Where("id IN (?)", bun.In(ids)).
		Where("wallet_address = ?", wallet).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// MarkDistributionsBurned flips burned_at for the selected rows, guarded
// on ownership and on the rows not being burned already. The rows-affected
// count is the caller's consumed-exactly-once check.
func MarkDistributionsBurned(ctx context.Context, idb bun.IDB, wallet string, ids []int64) (int64, error) {
	res, err := idb.NewUpdate().Model((*models.DistributionRecord)(nil)).
		Set("burned_at = current_timestamp").
		Where("id IN (?)", bun.In(ids)).
		Where("wallet_address = ?", wallet).
		Where("burned_at IS NULL").
		Where("recovered = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// RecoverDistribution voids a distribution (manual correction). The row
// stays in the log; the ownership view skips it.
func RecoverDistribution(ctx context.Context, db *bun.DB, id int64) error {
	res, err := db.NewUpdate().Model((*models.DistributionRecord)(nil)).
		Set("recovered = ?", true).
		Where("id = ?", id).
		Where("recovered = ?", false).
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

func CountWalletEntriesByRarity(ctx context.Context, db *bun.DB, wallet string, rarity models.Rarity) (int, error) {
	count, err := db.NewSelect().Model((*models.DistributionRecord)(nil)).
		Where("wallet_address = ?", wallet).
		Where("rarity = ?", rarity).
		Where("burned_at IS NULL").
		Where("recovered = ?", false).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
