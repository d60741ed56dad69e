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

type groupBurn struct {
	container *do.Injector
}

type burnPayload struct {
	DistributionIDs []int64 `json:"distribution_ids"`
	RuleID          int64   `json:"rule_id"`
}

func (gr *groupBurn) GetRules(c echo.Context) error {
	ctx := c.Request().Context()

	serviceBurn, err := do.Invoke[*services.ServiceBurn](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	rules, err := serviceBurn.GetActiveRules(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, rules, nil)
}

func (gr *groupBurn) Burn(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload burnPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	limiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	if err := limiter.Allow(ctx, services.LimitKeyWallet(wallet), redis_rate.PerMinute(services.CLAIM_RATE_LIMIT_PER_MINUTE)); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBurn, err := do.Invoke[*services.ServiceBurn](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	record, err := serviceBurn.Burn(ctx, wallet, payload.DistributionIDs, payload.RuleID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, record, nil)
}

func (gr *groupBurn) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	serviceBurn, err := do.Invoke[*services.ServiceBurn](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	records, err := serviceBurn.GetWalletHistory(ctx, wallet, page, limit)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, records, nil)
}
