package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTableBurnRule(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BurnRule)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BurnRule)(nil)).Index("index_burn_rule_from_rarity").IfNotExists().Unique().Column("from_rarity").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableBurnLog(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.BurnRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BurnRecord)(nil)).Index("index_burn_log_wallet").IfNotExists().Column("wallet_address").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertBurnRules(ctx context.Context, db *bun.DB, rules []*models.BurnRule) error {
	_, err := db.NewInsert().Model(&rules).On("CONFLICT (from_rarity) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetBurnRuleByID(ctx context.Context, db *bun.DB, id int64) (*models.BurnRule, error) {
	var rule models.BurnRule
	err := db.NewSelect().Model(&rule).Where("id = ?", id).Where("active = ?", true).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &rule, nil
}

func GetActiveBurnRules(ctx context.Context, db *bun.DB) ([]*models.BurnRule, error) {
	var rules []*models.BurnRule
	err := db.NewSelect().Model(&rules).Where("active = ?", true).OrderExpr("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rules, nil
}

func InsertBurnRecord(ctx context.Context, idb bun.IDB, record *models.BurnRecord) error {
	_, err := idb.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetWalletBurnHistory(ctx context.Context, db *bun.DB, wallet string, limit, offset int) ([]*models.BurnRecord, error) {
	var records []*models.BurnRecord
	err := db.NewSelect().Model(&records).
		Where("wallet_address = ?", wallet).
		OrderExpr("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func CountWalletBurns(ctx context.Context, db *bun.DB, wallet string) (int, error) {
	count, err := db.NewSelect().Model((*models.BurnRecord)(nil)).Where("wallet_address = ?", wallet).Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
