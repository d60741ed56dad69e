package services

import (
	"context"
	"log"

	"neftit/internal/datastore"
	"neftit/internal/models"
	"neftit/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceCollection struct {
	container          *do.Injector
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceCollection(container *do.Injector) (*ServiceCollection, error) {
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

	return &ServiceCollection{container, readonlyPostgresDB, cache, readonlyCache}, nil
}

// OwnedEntries derives the wallet's current holdings from the logs:
// distributions minus burn sources minus voided rows, each tagged
// offchain or onchain from the claim log and flagged when staked.
func (service *ServiceCollection) OwnedEntries(ctx context.Context, wallet string) ([]*models.OwnedEntry, error) {
	callback := func() ([]*models.OwnedEntry, error) {
		return service.deriveOwnedEntries(ctx, wallet)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWalletCollection(wallet), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceCollection) deriveOwnedEntries(ctx context.Context, wallet string) ([]*models.OwnedEntry, error) {
	records, err := datastore.GetWalletDistributions(ctx, service.readonlyPostgresDB, wallet)
	if err != nil {
		return nil, err
	}

	live := make([]*models.DistributionRecord, 0, len(records))
	entryIDs := make([]int64, 0, len(records))
	for _, record := range records {
		if record.BurnedAt != nil {
			continue
		}
		live = append(live, record)
		entryIDs = append(entryIDs, record.EntryID)
	}

	if len(live) == 0 {
		return []*models.OwnedEntry{}, nil
	}

	claims, err := datastore.GetWalletChainClaims(ctx, service.readonlyPostgresDB, wallet)
	if err != nil {
		return nil, err
	}
	claimByDistribution := make(map[int64]*models.ChainClaim, len(claims))
	for _, claim := range claims {
		claimByDistribution[claim.DistributionID] = claim
	}

	stakedIDs, err := datastore.GetActiveStakedEntryIDs(ctx, service.readonlyPostgresDB, wallet, entryIDs)
	if err != nil {
		return nil, err
	}
	staked := make(map[int64]bool, len(stakedIDs))
	for _, id := range stakedIDs {
		staked[id] = true
	}

	owned := make([]*models.OwnedEntry, 0, len(live))
	for _, record := range live {
		entry := &models.OwnedEntry{
			DistributionID: record.ID,
			EntryID:        record.EntryID,
			ProjectID:      record.ProjectID,
			Rarity:         record.Rarity,
			ImageCID:       record.ImageCID,
			MetadataCID:    record.MetadataCID,
			AssignedChain:  record.AssignedChain,
			Status:         models.EntryStatusOffchain,
			Staked:         staked[record.EntryID],
		}
		if claim, ok := claimByDistribution[record.ID]; ok {
			entry.Status = models.EntryStatusOnchain
			entry.Chain = claim.Chain
			entry.TokenID = claim.TokenID
		}
		owned = append(owned, entry)
	}

	return owned, nil
}

// RarityCounts tallies the owned, unburned entries per rarity.
func (service *ServiceCollection) RarityCounts(ctx context.Context, wallet string) (map[models.Rarity]int, error) {
	callback := func() (map[models.Rarity]int, error) {
		counts := make(map[models.Rarity]int, len(models.RarityLadder))
		for _, rarity := range models.RarityLadder {
			count, err := datastore.CountWalletEntriesByRarity(ctx, service.readonlyPostgresDB, wallet, rarity)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				counts[rarity] = count
			}
		}
		return counts, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWalletRarityCounts(wallet), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceCollection) ClearWalletCache(ctx context.Context, wallet string) {
	for _, key := range []string{
		DBKeyWalletCollection(wallet),
		DBKeyWalletRarityCounts(wallet),
	} {
		if err := service.cache.Delete(ctx, key); err != nil {
			log.Println("delete cache", key, err)
		}
	}
}
