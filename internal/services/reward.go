package services

import (
	"context"
	"log"

	"neftit/internal/datastore"
	"neftit/internal/models"
	"neftit/internal/pkg"
	"neftit/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceReward struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	rs                 *redsync.Redsync
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
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

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReward{container, db, postgresDB, readonlyPostgresDB, cache, rs, readonlyCache}, nil
}

func (service *ServiceReward) GetSummary(ctx context.Context, wallet string) (*models.RewardSummary, error) {
	callback := func() (*models.RewardSummary, error) {
		return datastore.GetRewardSummary(ctx, service.readonlyPostgresDB, wallet)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWalletRewardSummary(wallet), CACHE_TTL_15_SECONDS, callback)
}

// ClaimNFTRewards settles the wallet's pending NFT-stake bucket. The
// summary read and the claimed increment run in one transaction, so the
// increment is exactly the pending amount at settlement time. The token
// bucket is never touched.
func (service *ServiceReward) ClaimNFTRewards(ctx context.Context, wallet string) (float64, error) {
	return service.claimBucket(ctx, wallet, false)
}

// ClaimTokenRewards settles the token-stake bucket; the NFT bucket is
// never touched.
func (service *ServiceReward) ClaimTokenRewards(ctx context.Context, wallet string) (float64, error) {
	return service.claimBucket(ctx, wallet, true)
}

func (service *ServiceReward) claimBucket(ctx context.Context, wallet string, tokenBucket bool) (float64, error) {
	mutex := service.rs.NewMutex(LockKeyRewardClaim(wallet))
	if err := mutex.TryLock(); err != nil {
		return 0, errorx.Wrap(ErrRewardClaimLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	var claimed float64
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		summary, err := datastore.GetRewardSummary(ctx, tx, wallet)
		if err != nil {
			return err
		}

		pending := summary.PendingNFT()
		if tokenBucket {
			pending = summary.PendingToken()
		}
		if pending <= 0 {
			return nil
		}

		today := pkg.TodayUTC()
		if tokenBucket {
			err = datastore.ClaimTokenBucket(ctx, tx, wallet, today, pending)
		} else {
			err = datastore.ClaimNFTBucket(ctx, tx, wallet, today, pending)
		}
		if err != nil {
			return err
		}

		claimed = pending
		return nil
	})
	if err != nil {
		return 0, err
	}

	if claimed > 0 {
		service.clearWalletCaches(ctx, wallet)

		serviceAchievement, err := do.Invoke[*ServiceAchievement](service.container)
		if err == nil {
			if err := serviceAchievement.AdvanceCategory(ctx, wallet, models.AchievementCategoryCheckin, 1); err != nil {
				log.Println("advance checkin achievements", wallet, err)
			}
		}
	}

	return claimed, nil
}

// CreditToken adds to the wallet's token earned bucket outside the
// accrual job (achievement payouts).
func (service *ServiceReward) CreditToken(ctx context.Context, wallet string, amount float64) error {
	if amount <= 0 {
		return nil
	}

	if err := datastore.CreditTokenEarned(ctx, service.postgresDB, wallet, pkg.TodayUTC(), amount); err != nil {
		return err
	}

	service.clearWalletCaches(ctx, wallet)

	return nil
}

func (service *ServiceReward) GetLedger(ctx context.Context, wallet string, page int, limit int) ([]*models.DailyRewardLedgerRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if page < 1 {
		page = 1
	}

	return datastore.GetLedgerRows(ctx, service.readonlyPostgresDB, wallet, limit, (page-1)*limit)
}

func (service *ServiceReward) clearWalletCaches(ctx context.Context, wallet string) {
	if err := service.cache.Delete(ctx, DBKeyWalletRewardSummary(wallet)); err != nil {
		log.Println("delete reward summary cache", wallet, err)
	}
}
