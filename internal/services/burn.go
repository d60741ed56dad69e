package services

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"neftit/internal/datastore"
	"neftit/internal/models"
	"neftit/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceBurn struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	rs                 *redsync.Redsync
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceBurn(container *do.Injector) (*ServiceBurn, error) {
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

	return &ServiceBurn{container, db, postgresDB, readonlyPostgresDB, cache, rs, readonlyCache}, nil
}

func (service *ServiceBurn) GetActiveRules(ctx context.Context) ([]*models.BurnRule, error) {
	callback := func() ([]*models.BurnRule, error) {
		return datastore.GetActiveBurnRules(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyBurnRules(), CACHE_TTL_1_HOUR, callback)
}

// Burn consumes the selected distributions under a rule and distributes
// one upgraded entry, all in a single transaction. The per-wallet lock
// only guards against double taps; correctness rests on the row
// conditions inside the transaction.
func (service *ServiceBurn) Burn(ctx context.Context, wallet string, distributionIDs []int64, ruleID int64) (*models.BurnRecord, error) {
	mutex := service.rs.NewMutex(LockKeyBurn(wallet))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrBurnLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	rule, err := datastore.GetBurnRuleByID(ctx, service.readonlyPostgresDB, ruleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("burn rule not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	if len(distributionIDs) != rule.FromCount {
		return nil, errorx.Wrap(ErrInvalidBurnSelection, errorx.Validation)
	}
	unique := make(map[int64]bool, len(distributionIDs))
	for _, id := range distributionIDs {
		if unique[id] {
			return nil, errorx.Wrap(ErrInvalidBurnSelection, errorx.Validation)
		}
		unique[id] = true
	}

	var burnRecord *models.BurnRecord
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		records, err := datastore.GetDistributionsByIDsForUpdate(ctx, tx, wallet, distributionIDs)
		if err != nil {
			return err
		}
		if len(records) != rule.FromCount {
			return errorx.Wrap(ErrInvalidBurnSelection, errorx.Validation)
		}

		entryIDs := make([]int64, 0, len(records))
		var projectID string
		for _, record := range records {
			if record.Rarity != rule.FromRarity {
				return errorx.Wrap(ErrInvalidBurnSelection, errorx.Validation)
			}
			if record.BurnedAt != nil || record.Recovered {
				return errorx.Wrap(ErrAlreadyConsumed, errorx.Invalid)
			}
			entryIDs = append(entryIDs, record.EntryID)
			projectID = record.ProjectID
		}

		claimed, err := datastore.CountChainClaimsByDistributionIDs(ctx, tx, distributionIDs)
		if err != nil {
			return err
		}
		if claimed > 0 {
			return errorx.Wrap(ErrInvalidBurnSelection, errorx.Validation)
		}

		stakedIDs, err := datastore.GetActiveStakedEntryIDs(ctx, tx, wallet, entryIDs)
		if err != nil {
			return err
		}
		if len(stakedIDs) > 0 {
			return errorx.Wrap(ErrAlreadyStaked, errorx.Invalid)
		}

		rows, err := datastore.MarkDistributionsBurned(ctx, tx, wallet, distributionIDs)
		if err != nil {
			return err
		}
		if rows != int64(rule.FromCount) {
			return errorx.Wrap(ErrAlreadyConsumed, errorx.Invalid)
		}

		result, err := distributeInTx(ctx, tx, wallet, projectID, rule.ToRarity, "")
		if err != nil {
			return err
		}

		burnRecord = burnRecordFor(wallet, rule, records, result.ID)
		return datastore.InsertBurnRecord(ctx, tx, burnRecord)
	})
	if err != nil {
		return nil, err
	}

	service.clearWalletCaches(ctx, wallet)

	serviceAchievement, err := do.Invoke[*ServiceAchievement](service.container)
	if err == nil {
		if err := serviceAchievement.AdvanceCategory(ctx, wallet, models.AchievementCategoryBurn, 1); err != nil {
			log.Println("advance burn achievements", wallet, err)
		}
	}

	return burnRecord, nil
}

// burnRecordFor assembles the log row binding the consumed pool entries
// to the upgraded distribution.
func burnRecordFor(wallet string, rule *models.BurnRule, burned []*models.DistributionRecord, resultID int64) *models.BurnRecord {
	entryIDs := make([]int64, 0, len(burned))
	for _, record := range burned {
		entryIDs = append(entryIDs, record.EntryID)
	}

	return &models.BurnRecord{
		TxID:           uuid.NewString(),
		WalletAddress:  wallet,
		BurnedEntryIDs: entryIDs,
		ResultID:       resultID,
		RuleID:         rule.ID,
	}
}

func (service *ServiceBurn) GetWalletHistory(ctx context.Context, wallet string, page int, limit int) ([]*models.BurnRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	callback := func() ([]*models.BurnRecord, error) {
		return datastore.GetWalletBurnHistory(ctx, service.readonlyPostgresDB, wallet, limit, (page-1)*limit)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWalletBurnHistory(wallet, page, limit), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceBurn) clearWalletCaches(ctx context.Context, wallet string) {
	serviceCollection, err := do.Invoke[*ServiceCollection](service.container)
	if err != nil {
		return
	}
	serviceCollection.ClearWalletCache(ctx, wallet)

	if err := caching.DeleteKeys(ctx, service.redisDB, "burn_history:"+wallet+":*"); err != nil {
		log.Println("delete burn history cache", wallet, err)
	}
}
