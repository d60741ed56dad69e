package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"neftit/internal/models"
)

func CreateTableAchievementDefs(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AchievementDef)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableAchievementState(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AchievementState)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AchievementState)(nil)).Index("index_achievement_state_wallet_key").IfNotExists().Unique().Column("wallet_address", "key").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertAchievementDefs(ctx context.Context, db *bun.DB, defs []*models.AchievementDef) error {
	_, err := db.NewInsert().Model(&defs).On("CONFLICT (key) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetAchievementDef(ctx context.Context, db *bun.DB, key string) (*models.AchievementDef, error) {
	var def models.AchievementDef
	err := db.NewSelect().Model(&def).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &def, nil
}

func GetAchievementDefsByCategory(ctx context.Context, db *bun.DB, category string) ([]*models.AchievementDef, error) {
	var defs []*models.AchievementDef
	err := db.NewSelect().Model(&defs).Where("category = ?", category).OrderExpr("required_count ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return defs, nil
}

func InsertAchievementState(ctx context.Context, db *bun.DB, state *models.AchievementState) error {
	_, err := db.NewInsert().Model(state).On("CONFLICT (wallet_address, key) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindAchievementState(ctx context.Context, idb bun.IDB, wallet, key string) (*models.AchievementState, error) {
	var state models.AchievementState
	err := idb.NewSelect().Model(&state).
		Where("wallet_address = ?", wallet).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func GetWalletAchievements(ctx context.Context, db *bun.DB, wallet string) ([]*models.AchievementState, error) {
	var states []*models.AchievementState
	err := db.NewSelect().Model(&states).
		Where("wallet_address = ?", wallet).
		OrderExpr("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return states, nil
}

// UpdateAchievementProgress persists an Advance result guarded on the
// monotonic invariants: progress never shrinks, a terminal status never
// regresses. rows == 0 means a concurrent writer got there first.
func UpdateAchievementProgress(ctx context.Context, idb bun.IDB, state *models.AchievementState) (bool, error) {
	res, err := idb.NewUpdate().Model(state).
		Column("progress", "status", "completed_at", "updated_at").
		WherePK().
		Where("progress <= ?", state.Progress).
		Where("status NOT IN (?)", bun.In([]models.AchievementStatus{models.AchievementCompleted, models.AchievementClaimed})).
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

// MarkAchievementClaimed flips completed -> claimed exactly once.
func MarkAchievementClaimed(ctx context.Context, idb bun.IDB, wallet, key string, now time.Time) (bool, error) {
	res, err := idb.NewUpdate().Model((*models.AchievementState)(nil)).
		Set("status = ?", models.AchievementClaimed).
		Set("claimed_at = ?", now).
		Set("updated_at = ?", now).
		Where("wallet_address = ?", wallet).
		Where("key = ?", key).
		Where("status = ?", models.AchievementCompleted).
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
