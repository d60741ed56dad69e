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
	"github.com/mroth/weightedrand/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceDistribution struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceDistribution(container *do.Injector) (*ServiceDistribution, error) {
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

	return &ServiceDistribution{container, db, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// reserveWithFallback consumes one pool entry of the wanted rarity. When
// that tier is empty it substitutes the next lower tier exactly once
// before giving up with ErrPoolExhausted.
func reserveWithFallback(ctx context.Context, idb bun.IDB, projectID string, rarity models.Rarity) (*models.PoolEntry, error) {
	entry, err := datastore.ReservePoolEntry(ctx, idb, projectID, rarity)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	lower := rarity.NextLower()
	if lower == "" {
		return nil, errorx.Wrap(ErrPoolExhausted, errorx.Service)
	}

	log.Printf("pool exhausted for %s/%s, substituting %s", projectID, rarity, lower)

	entry, err = datastore.ReservePoolEntry(ctx, idb, projectID, lower)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(ErrPoolExhausted, errorx.Service)
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// distributeInTx reserves an entry and writes its distribution record in
// the caller's transaction. A non-empty assignedChain restricts which
// chain the entry can later be claimed to.
func distributeInTx(ctx context.Context, idb bun.IDB, wallet string, projectID string, rarity models.Rarity, assignedChain string) (*models.DistributionRecord, error) {
	entry, err := reserveWithFallback(ctx, idb, projectID, rarity)
	if err != nil {
		return nil, err
	}

	record := &models.DistributionRecord{
		WalletAddress: wallet,
		EntryID:       entry.ID,
		ProjectID:     entry.ProjectID,
		Rarity:        entry.Rarity,
		ImageCID:      entry.ImageCID,
		MetadataCID:   entry.MetadataCID,
		DistributedAt: time.Now().UTC(),
	}
	if assignedChain != "" {
		record.AssignedChain = &assignedChain
	}
	if err := datastore.InsertDistribution(ctx, idb, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Distribute consumes one unused pool entry of the given rarity and binds
// it to the wallet.
func (service *ServiceDistribution) Distribute(ctx context.Context, wallet string, projectID string, rarity models.Rarity, assignedChain string) (*models.DistributionRecord, error) {
	if !rarity.Valid() {
		return nil, errorx.Wrap(errors.New("unknown rarity"), errorx.Validation)
	}

	var record *models.DistributionRecord
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		record, err = distributeInTx(ctx, tx, wallet, projectID, rarity, assignedChain)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.clearWalletCaches(ctx, wallet, projectID)

	return record, nil
}

// DistributeWeighted draws the rarity from the supplied weights, then
// distributes. Each call builds its own chooser so batch outcomes are
// independent.
func (service *ServiceDistribution) DistributeWeighted(ctx context.Context, wallet string, projectID string, weights map[models.Rarity]int, assignedChain string) (*models.DistributionRecord, error) {
	choices := make([]weightedrand.Choice[models.Rarity, int], 0, len(weights))
	for rarity, weight := range weights {
		if !rarity.Valid() {
			return nil, errorx.Wrap(errors.New("unknown rarity in weights"), errorx.Validation)
		}
		if weight <= 0 {
			continue
		}
		choices = append(choices, weightedrand.NewChoice(rarity, weight))
	}

	gacha, err := NewServiceGacha(choices)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	return service.Distribute(ctx, wallet, projectID, gacha.Pick(), assignedChain)
}

func (service *ServiceDistribution) GetWalletHistory(ctx context.Context, wallet string) ([]*models.DistributionRecord, error) {
	return datastore.GetWalletDistributions(ctx, service.readonlyPostgresDB, wallet)
}

// Recover voids a distribution. The entry disappears from the ownership
// view; the log row stays.
func (service *ServiceDistribution) Recover(ctx context.Context, id int64) error {
	record, err := datastore.FindDistributionByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(err, errorx.NotExist)
	}
	if err != nil {
		return err
	}

	err = datastore.RecoverDistribution(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return errorx.Wrap(ErrAlreadyConsumed, errorx.Invalid)
	}
	if err != nil {
		return err
	}

	service.clearWalletCaches(ctx, record.WalletAddress, record.ProjectID)

	return nil
}

func (service *ServiceDistribution) clearWalletCaches(ctx context.Context, wallet string, projectID string) {
	for _, key := range []string{
		DBKeyWalletCollection(wallet),
		DBKeyWalletRarityCounts(wallet),
		DBKeyPoolAvailability(projectID),
	} {
		if err := service.cache.Delete(ctx, key); err != nil {
			log.Println("delete cache", key, err)
		}
	}
}
