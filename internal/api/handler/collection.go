package handler

import (
	"neftit/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCollection struct {
	container *do.Injector
}

func (gr *groupCollection) GetCollection(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries, err := serviceCollection.OwnedEntries(ctx, wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, entries, nil)
}

func (gr *groupCollection) GetRarityCounts(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceCollection, err := do.Invoke[*services.ServiceCollection](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	counts, err := serviceCollection.RarityCounts(ctx, wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, counts, nil)
}

func (gr *groupCollection) GetDistributionHistory(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceDistribution, err := do.Invoke[*services.ServiceDistribution](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	records, err := serviceDistribution.GetWalletHistory(ctx, wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, records, nil)
}
