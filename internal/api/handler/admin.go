package handler

import (
	"errors"
	"strconv"
	"strings"

	"neftit/internal/models"
	"neftit/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAdmin struct {
	container *do.Injector
}

type distributePayload struct {
	Wallet        string         `json:"wallet"`
	ProjectID     string         `json:"project_id"`
	Rarity        string         `json:"rarity"`
	Weights       map[string]int `json:"weights"`
	AssignedChain string         `json:"assigned_chain"`
}

// Distribute hands one pool entry to a wallet, either of a fixed rarity
// or drawn from the supplied weights.
func (gr *groupAdmin) Distribute(c echo.Context) error {
	ctx := c.Request().Context()

	var payload distributePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceDistribution, err := do.Invoke[*services.ServiceDistribution](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallet := strings.ToLower(payload.Wallet)

	var record *models.DistributionRecord
	if len(payload.Weights) > 0 {
		weights := make(map[models.Rarity]int, len(payload.Weights))
		for rarity, weight := range payload.Weights {
			weights[models.ToRarity(rarity)] = weight
		}
		record, err = serviceDistribution.DistributeWeighted(ctx, wallet, payload.ProjectID, weights, payload.AssignedChain)
	} else {
		record, err = serviceDistribution.Distribute(ctx, wallet, payload.ProjectID, models.ToRarity(payload.Rarity), payload.AssignedChain)
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, record, nil)
}

type seedEntryPayload struct {
	Rarity      string `json:"rarity"`
	ImageCID    string `json:"image_cid"`
	MetadataCID string `json:"metadata_cid"`
}

type seedPoolPayload struct {
	ProjectID string             `json:"project_id"`
	Entries   []seedEntryPayload `json:"entries"`
}

func (gr *groupAdmin) SeedPool(c echo.Context) error {
	ctx := c.Request().Context()

	var payload seedPoolPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	if payload.ProjectID == "" || len(payload.Entries) == 0 {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing project_id or entries"), errorx.Validation))
	}

	servicePool, err := do.Invoke[*services.ServicePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries := make([]*models.PoolEntry, 0, len(payload.Entries))
	for _, e := range payload.Entries {
		entries = append(entries, &models.PoolEntry{
			ProjectID:   payload.ProjectID,
			Rarity:      models.ToRarity(e.Rarity),
			ImageCID:    e.ImageCID,
			MetadataCID: e.MetadataCID,
		})
	}

	if err := servicePool.SeedEntries(ctx, entries); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]int{"seeded": len(entries)}, nil)
}

func (gr *groupAdmin) Recover(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceDistribution, err := do.Invoke[*services.ServiceDistribution](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceDistribution.Recover(ctx, id); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, nil, nil)
}
