package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTableChainClaim(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ChainClaim)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChainClaim)(nil)).Index("index_chain_claim_distribution_id").IfNotExists().Unique().Column("distribution_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChainClaim)(nil)).Index("index_chain_claim_wallet").IfNotExists().Column("wallet_address").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertChainClaim relies on the unique(distribution_id) index: a racing
// duplicate insert surfaces as a constraint error instead of a second row.
func InsertChainClaim(ctx context.Context, idb bun.IDB, claim *models.ChainClaim) error {
	_, err := idb.NewInsert().Model(claim).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindChainClaimByDistributionID(ctx context.Context, idb bun.IDB, distributionID int64) (*models.ChainClaim, error) {
	var claim models.ChainClaim
	err := idb.NewSelect().Model(&claim).Where("distribution_id = ?", distributionID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

func CountChainClaimsByDistributionIDs(ctx context.Context, idb bun.IDB, ids []int64) (int, error) {
	count, err := idb.NewSelect().Model((*models.ChainClaim)(nil)).
		Where("distribution_id IN (?)", bun.In(ids)).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func GetWalletChainClaims(ctx context.Context, db *bun.DB, wallet string) ([]*models.ChainClaim, error) {
	var claims []*models.ChainClaim
	err := db.NewSelect().Model(&claims).
		Where("wallet_address = ?", wallet).
		OrderExpr("claimed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
