package services

import (
	"context"
	"errors"

	"neftit/internal/datastore"
	"neftit/internal/models"
	"neftit/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServicePool struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServicePool(container *do.Injector) (*ServicePool, error) {
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

	return &ServicePool{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// SeedEntries bulk-loads pool entries. Duplicate image CIDs are skipped,
// so re-running an import is harmless.
func (service *ServicePool) SeedEntries(ctx context.Context, entries []*models.PoolEntry) error {
	for _, entry := range entries {
		if !entry.Rarity.Valid() {
			return errorx.Wrap(errors.New("unknown rarity in pool seed"), errorx.Validation)
		}
		if entry.ImageCID == "" || entry.MetadataCID == "" {
			return errorx.Wrap(errors.New("pool entry missing cid"), errorx.Validation)
		}
	}

	if err := datastore.InsertPoolEntries(ctx, service.postgresDB, entries); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, entry := range entries {
		if seen[entry.ProjectID] {
			continue
		}
		seen[entry.ProjectID] = true
		//nolint:errcheck
		service.cache.Delete(ctx, DBKeyPoolAvailability(entry.ProjectID))
	}

	return nil
}

// AvailabilityByRarity reports total and unconsumed entry counts per
// rarity for one project.
func (service *ServicePool) AvailabilityByRarity(ctx context.Context, projectID string) ([]*models.PoolAvailability, error) {
	callback := func() ([]*models.PoolAvailability, error) {
		return datastore.GetPoolAvailability(ctx, service.readonlyPostgresDB, projectID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPoolAvailability(projectID), CACHE_TTL_1_MIN, callback)
}
