package handler

import (
	"neftit/internal/interfaces"
	"neftit/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupChainClaim struct {
	container *do.Injector
}

type claimPayload struct {
	DistributionID int64  `json:"distribution_id"`
	Chain          string `json:"chain"`
}

func (gr *groupChainClaim) GetSupportedChains(c echo.Context) error {
	serviceChainClaim, err := do.Invoke[*services.ServiceChainClaim](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, serviceChainClaim.SupportedChains(), nil)
}

func (gr *groupChainClaim) Claim(c echo.Context) error {
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

	var payload claimPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceChainClaim, err := do.Invoke[*services.ServiceChainClaim](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	claim, err := serviceChainClaim.ClaimToChain(ctx, wallet, payload.DistributionID, payload.Chain)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, claim, nil)
}

func (gr *groupChainClaim) GetClaims(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := ResolveValidWallet(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChainClaim, err := do.Invoke[*services.ServiceChainClaim](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	claims, err := serviceChainClaim.GetWalletClaims(ctx, wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, claims, nil)
}
