package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"neftit/internal/datastore"
	"neftit/internal/datastore/redis_store"
	"neftit/internal/models"
	"neftit/internal/pkg"
	"neftit/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceStaking struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	rs                 *redsync.Redsync
	readonlyCache      caching.ReadOnlyCache

	serviceConfig *ServiceConfig
}

func NewServiceStaking(container *do.Injector) (*ServiceStaking, error) {
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

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStaking{container, db, postgresDB, readonlyPostgresDB, cache, rs, readonlyCache, serviceConfig}, nil
}

// Stake locks an owned, unclaimed entry for daily yield. The partial
// unique index on (entry_id) where active makes a double stake fail at
// insert time no matter how the requests race.
func (service *ServiceStaking) Stake(ctx context.Context, wallet string, distributionID int64) (*models.StakeRecord, error) {
	mutex := service.rs.NewMutex(LockKeyStake(wallet))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrStakeLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	// the row lock serializes the stake with burns and chain claims
	// touching the same distribution
	var stake *models.StakeRecord
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := datastore.FindDistributionByIDForUpdate(ctx, tx, distributionID)
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(err, errorx.NotExist)
		}
		if err != nil {
			return err
		}

		if !strings.EqualFold(record.WalletAddress, wallet) {
			return errorx.Wrap(errors.New("distribution not owned by wallet"), errorx.Invalid)
		}
		if record.BurnedAt != nil || record.Recovered {
			return errorx.Wrap(ErrAlreadyConsumed, errorx.Invalid)
		}

		claim, err := datastore.FindChainClaimByDistributionID(ctx, tx, distributionID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if claim != nil {
			return errorx.Wrap(errors.New("entry already claimed to chain"), errorx.Invalid)
		}

		stake = &models.StakeRecord{
			WalletAddress: wallet,
			EntryID:       record.EntryID,
			Rarity:        record.Rarity,
			DailyReward:   models.DailyStakeReward[record.Rarity],
			Active:        true,
			StakedAt:      time.Now().UTC(),
		}
		if err := datastore.InsertStakeRecord(ctx, tx, stake); err != nil {
			return errorx.Wrap(ErrAlreadyStaked, errorx.Invalid)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	service.clearWalletCaches(ctx, wallet)

	serviceAchievement, err := do.Invoke[*ServiceAchievement](service.container)
	if err == nil {
		if err := serviceAchievement.AdvanceCategory(ctx, wallet, models.AchievementCategoryStake, 1); err != nil {
			log.Println("advance stake achievements", wallet, err)
		}
	}

	return stake, nil
}

// Unstake flips the active flag off. The conditional update makes a
// second unstake report ErrNotStaked instead of silently succeeding.
func (service *ServiceStaking) Unstake(ctx context.Context, wallet string, entryID int64) error {
	mutex := service.rs.NewMutex(LockKeyStake(wallet))
	if err := mutex.TryLock(); err != nil {
		return errorx.Wrap(ErrStakeLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	err := datastore.DeactivateStake(ctx, service.postgresDB, wallet, entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(ErrNotStaked, errorx.Invalid)
	}
	if err != nil {
		return err
	}

	service.clearWalletCaches(ctx, wallet)

	return nil
}

// StakeTokens opens a NEFT position accruing at the configured flat APR.
func (service *ServiceStaking) StakeTokens(ctx context.Context, wallet string, amount float64) (*models.TokenStake, error) {
	minStake, err := service.serviceConfig.GetFloatConfig(ctx, CONFIG_MIN_TOKEN_STAKE, DEFAULT_MIN_TOKEN_STAKE)
	if err != nil {
		minStake = DEFAULT_MIN_TOKEN_STAKE
	}
	if amount < minStake {
		return nil, errorx.Wrap(errors.New("stake amount below minimum"), errorx.Validation)
	}

	apr, err := service.serviceConfig.GetFloatConfig(ctx, CONFIG_TOKEN_APR, DEFAULT_TOKEN_APR)
	if err != nil {
		apr = DEFAULT_TOKEN_APR
	}

	stake := &models.TokenStake{
		WalletAddress: wallet,
		Amount:        amount,
		APRRate:       apr,
		DailyReward:   TokenDailyReward(amount, apr),
		Active:        true,
		StakedAt:      time.Now().UTC(),
	}
	if err := datastore.InsertTokenStake(ctx, service.postgresDB, stake); err != nil {
		return nil, err
	}

	service.clearWalletCaches(ctx, wallet)

	return stake, nil
}

func (service *ServiceStaking) UnstakeTokens(ctx context.Context, wallet string, stakeID int64) (*models.TokenStake, error) {
	stake, err := datastore.DeactivateTokenStake(ctx, service.postgresDB, wallet, stakeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(ErrNotStaked, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}

	service.clearWalletCaches(ctx, wallet)

	return stake, nil
}

// TokenDailyReward is the flat-APR daily yield: amount * apr / 100 / 365.
func TokenDailyReward(amount float64, apr float64) float64 {
	return amount * apr / 100 / 365
}

// WalletDailyRates sums the daily yield of every active stake.
func (service *ServiceStaking) WalletDailyRates(ctx context.Context, wallet string) (nftDaily float64, tokenDaily float64, err error) {
	stakes, err := datastore.GetActiveStakes(ctx, service.readonlyPostgresDB, wallet)
	if err != nil {
		return 0, 0, err
	}
	for _, stake := range stakes {
		nftDaily += stake.DailyReward
	}

	tokenStakes, err := datastore.GetActiveTokenStakes(ctx, service.readonlyPostgresDB, wallet)
	if err != nil {
		return 0, 0, err
	}
	for _, stake := range tokenStakes {
		tokenDaily += stake.DailyReward
	}

	return nftDaily, tokenDaily, nil
}

// GetSummary builds the staking dashboard numbers, snapshot in redis.
func (service *ServiceStaking) GetSummary(ctx context.Context, wallet string) (*models.StakingSummary, error) {
	cached, err := redis_store.GetStakingSummary(ctx, service.redisDB, wallet)
	if err == nil && cached != nil {
		return cached, nil
	}

	stakes, err := datastore.GetActiveStakes(ctx, service.readonlyPostgresDB, wallet)
	if err != nil {
		return nil, err
	}

	tokenStakes, err := datastore.GetActiveTokenStakes(ctx, service.readonlyPostgresDB, wallet)
	if err != nil {
		return nil, err
	}

	summary := &models.StakingSummary{
		StakedNFTCount: len(stakes),
	}
	for _, stake := range stakes {
		summary.DailyNFTRewards += stake.DailyReward
	}
	for _, stake := range tokenStakes {
		summary.StakedTokenAmount += stake.Amount
		summary.DailyTokenRewards += stake.DailyReward
	}

	serviceReward, err := do.Invoke[*ServiceReward](service.container)
	if err == nil {
		rewardSummary, err := serviceReward.GetSummary(ctx, wallet)
		if err == nil {
			summary.PendingNFTRewards = rewardSummary.PendingNFT()
			summary.PendingTokenReward = rewardSummary.PendingToken()
		}
	}

	if err := redis_store.SaveStakingSummary(ctx, service.redisDB, wallet, summary, CACHE_TTL_1_MIN); err != nil {
		log.Println("save staking summary", wallet, err)
	}

	return summary, nil
}

// AccrueDay writes one earned row per staked wallet for the given day.
// The redsync lock single-flights concurrent runs; the accrued flag in
// SQL makes repeats and late runs no-ops either way.
func (service *ServiceStaking) AccrueDay(ctx context.Context, day time.Time) error {
	day = pkg.DayUTC(day)

	mutex := service.rs.NewMutex(LockKeyAccrual(day.Format("2006-01-02")))
	if err := mutex.TryLock(); err != nil {
		return errorx.Wrap(errors.New("accrual already running"), errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	if ran, err := redis_store.AccrualAlreadyRan(ctx, service.redisDB, day); err == nil && ran {
		log.Println("accrual already ran for", day.Format("2006-01-02"))
		return nil
	}

	var wallets int
	var skipped int
	var failed int
	for offset := 0; ; offset += ACCRUAL_WALLET_PAGE_SIZE {
		page, err := datastore.GetActivelyStakedWallets(ctx, service.postgresDB, ACCRUAL_WALLET_PAGE_SIZE, offset)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}

		for _, wallet := range page {
			nftDaily, tokenDaily, err := service.WalletDailyRates(ctx, wallet)
			if err != nil {
				log.Println("accrual rates", wallet, err)
				failed++
				continue
			}
			if nftDaily == 0 && tokenDaily == 0 {
				continue
			}

			written, err := datastore.AccrueDailyRewards(ctx, service.postgresDB, wallet, day, nftDaily, tokenDaily)
			if err != nil {
				log.Println("accrual write", wallet, err)
				failed++
				continue
			}
			if !written {
				skipped++
				continue
			}
			wallets++

			//nolint:errcheck
			redis_store.DeleteStakingSummary(ctx, service.redisDB, wallet)
		}

		if len(page) < ACCRUAL_WALLET_PAGE_SIZE {
			break
		}
	}

	// a failed wallet would be locked out of the day forever if the
	// marker were set; leaving the day unmarked lets a rerun retry it,
	// and the accrued flag keeps credited wallets from doubling up
	if failed > 0 {
		log.Printf("accrual %s incomplete: %d wallets credited, %d already accrued, %d failed", day.Format("2006-01-02"), wallets, skipped, failed)
		return nil
	}

	if err := redis_store.MarkAccrualRun(ctx, service.redisDB, day); err != nil {
		log.Println("mark accrual run", err)
	}

	log.Printf("accrual %s done: %d wallets credited, %d already accrued", day.Format("2006-01-02"), wallets, skipped)

	return nil
}

func (service *ServiceStaking) GetActiveStakes(ctx context.Context, wallet string) ([]*models.StakeRecord, error) {
	return datastore.GetActiveStakes(ctx, service.readonlyPostgresDB, wallet)
}

func (service *ServiceStaking) GetActiveTokenStakes(ctx context.Context, wallet string) ([]*models.TokenStake, error) {
	return datastore.GetActiveTokenStakes(ctx, service.readonlyPostgresDB, wallet)
}

func (service *ServiceStaking) clearWalletCaches(ctx context.Context, wallet string) {
	//nolint:errcheck
	redis_store.DeleteStakingSummary(ctx, service.redisDB, wallet)

	serviceCollection, err := do.Invoke[*ServiceCollection](service.container)
	if err == nil {
		serviceCollection.ClearWalletCache(ctx, wallet)
	}
}
