package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"neftit/internal/datastore"
	"neftit/internal/interfaces"
	"neftit/internal/models"
	"neftit/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

const CHAIN_MINT_TIMEOUT = 2 * time.Minute

type ServiceChainClaim struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	rs                 *redsync.Redsync
	readonlyCache      caching.ReadOnlyCache
	chains             map[string]interfaces.ChainClient

	serviceConfig *ServiceConfig
}

func NewServiceChainClaim(container *do.Injector) (*ServiceChainClaim, error) {
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

	chains, err := do.Invoke[map[string]interfaces.ChainClient](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceChainClaim{container, db, postgresDB, readonlyPostgresDB, cache, rs, readonlyCache, chains, serviceConfig}, nil
}

// ClaimToChain mints the distribution's entry on the target chain and
// records the permanent binding. Validation runs once before the RPC
// and again under a row lock when the binding is persisted, so a burn
// or stake landing during the mint loses to exactly one of the two.
func (service *ServiceChainClaim) ClaimToChain(ctx context.Context, wallet string, distributionID int64, targetChain string) (*models.ChainClaim, error) {
	client, ok := service.chains[targetChain]
	if !ok {
		return nil, errorx.Wrap(errors.New("unsupported chain"), errorx.Validation)
	}

	mutex := service.rs.NewMutex(LockKeyChainClaim(distributionID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrChainClaimLock, errorx.Invalid)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	existing, err := datastore.FindChainClaimByDistributionID(ctx, service.postgresDB, distributionID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil && existing.Chain == targetChain {
		return existing, nil
	}

	record, err := datastore.FindDistributionByID(ctx, service.postgresDB, distributionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	if err := validateClaimTarget(record, existing, wallet, targetChain); err != nil {
		return nil, err
	}

	staked, err := datastore.IsEntryStaked(ctx, service.postgresDB, record.EntryID)
	if err != nil {
		return nil, err
	}
	if staked {
		return nil, errorx.Wrap(ErrAlreadyStaked, errorx.Invalid)
	}

	floorGwei, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_MIN_CLAIM_BALANCE_GWEI, 0)
	if err != nil {
		floorGwei = 0
	}
	if err := checkBalanceFloor(ctx, client, wallet, floorGwei); err != nil {
		return nil, err
	}

	mintCtx, cancel := context.WithTimeout(ctx, CHAIN_MINT_TIMEOUT)
	defer cancel()

	result, err := client.Mint(mintCtx, wallet, record.MetadataCID)
	if err != nil {
		log.Println("mint failed", distributionID, targetChain, err)
		return nil, errorx.Wrap(ErrTransactionFailed, errorx.Service)
	}

	claim := &models.ChainClaim{
		DistributionID:  distributionID,
		WalletAddress:   wallet,
		Chain:           targetChain,
		ContractAddress: client.ContractAddress(),
		TokenID:         result.TokenID,
		TxHash:          result.TxHash,
	}
	// the mint window is long enough for a burn or stake to land in
	// between, so the state is re-checked under a row lock before the
	// binding is persisted
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := datastore.FindDistributionByIDForUpdate(ctx, tx, distributionID)
		if err != nil {
			return err
		}
		if err := validateClaimTarget(current, nil, wallet, targetChain); err != nil {
			return err
		}

		stakedIDs, err := datastore.GetActiveStakedEntryIDs(ctx, tx, wallet, []int64{current.EntryID})
		if err != nil {
			return err
		}
		if len(stakedIDs) > 0 {
			return errorx.Wrap(ErrAlreadyStaked, errorx.Invalid)
		}

		return datastore.InsertChainClaim(ctx, tx, claim)
	})
	if err != nil {
		// a racing claim won; report the bound row
		existing, findErr := datastore.FindChainClaimByDistributionID(ctx, service.postgresDB, distributionID)
		if findErr == nil && existing != nil {
			if existing.Chain != targetChain {
				return nil, errorx.Wrap(fmt.Errorf("%w: already bound to %s", ErrWrongChainAssigned, existing.Chain), errorx.Invalid)
			}
			return existing, nil
		}
		return nil, err
	}

	service.clearWalletCaches(ctx, wallet)

	serviceAchievement, err := do.Invoke[*ServiceAchievement](service.container)
	if err == nil {
		if err := serviceAchievement.AdvanceCategory(ctx, wallet, models.AchievementCategoryQuest, 1); err != nil {
			log.Println("advance quest achievements", wallet, err)
		}
	}

	return claim, nil
}

// validateClaimTarget checks the permanent-binding rules for a claim
// attempt against the current distribution state. It runs once before
// the mint and again under the row lock when the claim is recorded.
func validateClaimTarget(record *models.DistributionRecord, existing *models.ChainClaim, wallet string, targetChain string) error {
	if existing != nil && existing.Chain != targetChain {
		return errorx.Wrap(fmt.Errorf("%w: already bound to %s", ErrWrongChainAssigned, existing.Chain), errorx.Invalid)
	}
	if !strings.EqualFold(record.WalletAddress, wallet) {
		return errorx.Wrap(errors.New("distribution not owned by wallet"), errorx.Invalid)
	}
	if record.BurnedAt != nil || record.Recovered {
		return errorx.Wrap(ErrAlreadyConsumed, errorx.Invalid)
	}
	if record.AssignedChain != nil && *record.AssignedChain != targetChain {
		return errorx.Wrap(fmt.Errorf("%w: restricted to %s", ErrWrongChainAssigned, *record.AssignedChain), errorx.Invalid)
	}

	return nil
}

// checkBalanceFloor surfaces ErrInsufficientBalance when the wallet's
// native balance sits below the floor. Zero floor disables the check.
func checkBalanceFloor(ctx context.Context, client interfaces.ChainClient, wallet string, floorGwei int) error {
	if floorGwei <= 0 {
		return nil
	}

	balance, err := client.Balance(ctx, wallet)
	if err != nil {
		log.Println("balance pre-check failed", wallet, err)
		return nil
	}

	floor := new(big.Int).Mul(big.NewInt(int64(floorGwei)), big.NewInt(1_000_000_000))
	if balance.Cmp(floor) < 0 {
		return errorx.Wrap(ErrInsufficientBalance, errorx.Invalid)
	}

	return nil
}

func (service *ServiceChainClaim) GetWalletClaims(ctx context.Context, wallet string) ([]*models.ChainClaim, error) {
	callback := func() ([]*models.ChainClaim, error) {
		return datastore.GetWalletChainClaims(ctx, service.readonlyPostgresDB, wallet)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWalletChainClaims(wallet), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceChainClaim) SupportedChains() []string {
	chains := make([]string, 0, len(service.chains))
	for chain := range service.chains {
		chains = append(chains, chain)
	}
	return chains
}

func (service *ServiceChainClaim) clearWalletCaches(ctx context.Context, wallet string) {
	serviceCollection, err := do.Invoke[*ServiceCollection](service.container)
	if err == nil {
		serviceCollection.ClearWalletCache(ctx, wallet)
	}

	if err := service.cache.Delete(ctx, DBKeyWalletChainClaims(wallet)); err != nil {
		log.Println("delete chain claims cache", wallet, err)
	}
}
