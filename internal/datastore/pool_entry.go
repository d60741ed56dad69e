package datastore

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTablePoolEntry(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PoolEntry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PoolEntry)(nil)).Index("index_pool_entry_project_rarity_used").IfNotExists().Column("project_id", "rarity", "used").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PoolEntry)(nil)).Index("index_pool_entry_image_cid").IfNotExists().Unique().Column("image_cid").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPoolEntries(ctx context.Context, db *bun.DB, entries []*models.PoolEntry) error {
	_, err := db.NewInsert().Model(&entries).On("CONFLICT (image_cid) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// ReservePoolEntry claims the first unused entry of the requested
// rarity/project and marks it used in the same statement. SKIP LOCKED
// keeps concurrent callers off each other's row instead of serializing
// the whole pool. sql.ErrNoRows means the pool is exhausted.
func ReservePoolEntry(ctx context.Context, idb bun.IDB, projectID string, rarity models.Rarity) (*models.PoolEntry, error) {
	var entry models.PoolEntry

	sub := idb.NewSelect().Model((*models.PoolEntry)(nil)).
		Column("id").
		Where("project_id = ?", projectID).
		Where("rarity = ?", rarity).
		Where("used = ?", false).
		OrderExpr("id ASC").
		Limit(1).
		For("UPDATE SKIP LOCKED")

	res, err := idb.NewUpdate().Model(&entry).
		Set("used = ?", true).
		Where("id = (?)", sub).
		Where("used = ?", false).
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

	return &entry, nil
}

func GetPoolAvailability(ctx context.Context, db *bun.DB, projectID string) ([]*models.PoolAvailability, error) {
	var stats []*models.PoolAvailability
	err := db.NewSelect().
		Model((*models.PoolEntry)(nil)).
		ColumnExpr("rarity").
		ColumnExpr("COUNT(*) AS total_count").
		ColumnExpr("COUNT(*) FILTER (WHERE used = false) AS available_count").
		Where("project_id = ?", projectID).
		GroupExpr("rarity").
		Scan(ctx, &stats)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func CountAvailablePoolEntries(ctx context.Context, db *bun.DB, projectID string, rarity models.Rarity) (int, error) {
	count, err := db.NewSelect().Model((*models.PoolEntry)(nil)).
		Where("project_id = ?", projectID).
		Where("rarity = ?", rarity).
		Where("used = ?", false).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
