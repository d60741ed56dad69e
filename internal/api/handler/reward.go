package handler

import (
	"strconv"

	"neftit/internal/interfaces"
	"neftit/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupReward struct {
	container *do.Injector
}

func (gr *groupReward) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	summary, err := serviceReward.GetSummary(ctx, wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, map[string]any{
		"summary":       summary,
		"pending_nft":   summary.PendingNFT(),
		"pending_token": summary.PendingToken(),
	}, nil)
}

func (gr *groupReward) GetLedger(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	rows, err := serviceReward.GetLedger(ctx, wallet, page, limit)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, rows, nil)
}

func (gr *groupReward) ClaimNFT(c echo.Context) error {
	return gr.claim(c, false)
}

func (gr *groupReward) ClaimToken(c echo.Context) error {
	return gr.claim(c, true)
}

func (gr *groupReward) claim(c echo.Context, tokenBucket bool) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	if err := limiter.Allow(ctx, services.LimitKeyClaim(wallet), redis_rate.PerMinute(services.CLAIM_RATE_LIMIT_PER_MINUTE)); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var claimed float64
	if tokenBucket {
		claimed, err = serviceReward.ClaimTokenRewards(ctx, wallet)
	} else {
		claimed, err = serviceReward.ClaimNFTRewards(ctx, wallet)
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]any{"claimed": claimed}, nil)
}
