package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"neftit/internal/datastore"
	"neftit/internal/models"
	"neftit/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceAchievement struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceAchievement(container *do.Injector) (*ServiceAchievement, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAchievement{container, db, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceAchievement) GetWalletAchievements(ctx context.Context, wallet string) ([]*models.AchievementState, error) {
	callback := func() ([]*models.AchievementState, error) {
		return datastore.GetWalletAchievements(ctx, service.readonlyPostgresDB, wallet)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWalletAchievements(wallet), CACHE_TTL_1_MIN, callback)
}

// Advance moves one achievement forward by delta. Progress clamps to the
// required count, the completed transition fires at most once, and
// completed or claimed achievements never change. The conditional update
// in the datastore drops lost races on the floor.
func (service *ServiceAchievement) Advance(ctx context.Context, wallet string, key string, delta int) error {
	if delta <= 0 {
		return nil
	}

	state, err := service.getOrCreateState(ctx, wallet, key)
	if err != nil {
		return err
	}

	if !state.Advance(delta, time.Now().UTC()) {
		return nil
	}

	changed, err := datastore.UpdateAchievementProgress(ctx, service.postgresDB, state)
	if err != nil {
		return err
	}
	if changed {
		service.clearWalletCache(ctx, wallet)
	}

	return nil
}

// AdvanceCategory feeds one event into every achievement of a category
// (all burn tiers advance together, and so on).
func (service *ServiceAchievement) AdvanceCategory(ctx context.Context, wallet string, category string, delta int) error {
	defs, err := datastore.GetAchievementDefsByCategory(ctx, service.readonlyPostgresDB, category)
	if err != nil {
		return err
	}

	for _, def := range defs {
		if err := service.Advance(ctx, wallet, def.Key, delta); err != nil {
			log.Println("advance achievement", wallet, def.Key, err)
		}
	}

	return nil
}

// Claim flips a completed achievement to claimed and pays its NEFT
// reward into the token bucket of the reward ledger. The conditional
// status flip makes a double claim fail without a second payout.
func (service *ServiceAchievement) Claim(ctx context.Context, wallet string, key string) (float64, error) {
	def, err := datastore.GetAchievementDef(ctx, service.readonlyPostgresDB, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errorx.Wrap(errors.New("achievement not found"), errorx.NotExist)
	}
	if err != nil {
		return 0, err
	}

	state, err := datastore.FindAchievementState(ctx, service.postgresDB, wallet, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errorx.Wrap(ErrAchievementNotCompleted, errorx.Invalid)
	}
	if err != nil {
		return 0, err
	}

	if state.Status != models.AchievementCompleted {
		return 0, errorx.Wrap(ErrAchievementNotCompleted, errorx.Invalid)
	}

	flipped, err := datastore.MarkAchievementClaimed(ctx, service.postgresDB, wallet, key, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if !flipped {
		return 0, errorx.Wrap(ErrAchievementNotCompleted, errorx.Invalid)
	}

	serviceReward, err := do.Invoke[*ServiceReward](service.container)
	if err != nil {
		return 0, err
	}
	if err := serviceReward.CreditToken(ctx, wallet, def.NeftReward); err != nil {
		return 0, err
	}

	service.clearWalletCache(ctx, wallet)

	return def.NeftReward, nil
}

func (service *ServiceAchievement) getOrCreateState(ctx context.Context, wallet string, key string) (*models.AchievementState, error) {
	state, err := datastore.FindAchievementState(ctx, service.postgresDB, wallet, key)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	def, err := datastore.GetAchievementDef(ctx, service.readonlyPostgresDB, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("achievement not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	state = &models.AchievementState{
		WalletAddress: wallet,
		Key:           key,
		Progress:      0,
		RequiredCount: def.RequiredCount,
		Status:        models.AchievementLocked,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := datastore.InsertAchievementState(ctx, service.postgresDB, state); err != nil {
		return nil, err
	}

	// a racing insert may have won; reload the surviving row
	return datastore.FindAchievementState(ctx, service.postgresDB, wallet, key)
}

func (service *ServiceAchievement) clearWalletCache(ctx context.Context, wallet string) {
	if err := service.cache.Delete(ctx, DBKeyWalletAchievements(wallet)); err != nil {
		log.Println("delete achievements cache", wallet, err)
	}
}
