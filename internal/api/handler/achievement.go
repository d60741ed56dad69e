package handler

import (
	"errors"

	"neftit/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAchievement struct {
	container *do.Injector
}

func (gr *groupAchievement) GetAchievements(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAchievement, err := do.Invoke[*services.ServiceAchievement](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	achievements, err := serviceAchievement.GetWalletAchievements(ctx, wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, achievements, nil)
}

func (gr *groupAchievement) Claim(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	key := c.Param("key")
	if key == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing achievement key"), errorx.Validation))
	}

	serviceAchievement, err := do.Invoke[*services.ServiceAchievement](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	reward, err := serviceAchievement.Claim(ctx, wallet, key)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]any{"reward": reward}, nil)
}
