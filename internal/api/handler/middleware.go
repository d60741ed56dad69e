package handler

import (
	"context"
	"errors"
	"strings"

	"neftit/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
)

type ctxKey string

var ctxKeyAuthWallet ctxKey = "AUTH_WALLET"

// Authn resolves the bearer token into a wallet identity. It does NOT
// terminate unauthenticated requests; handlers that need a wallet call
// ResolveValidWallet.
func Authn(verifier interface {
	Validate(token string) (*models.WalletFromAuth, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			wallet, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to leak details
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthWallet, wallet)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveValidWallet(ctx context.Context) (string, error) {
	wallet, ok := ctx.Value(ctxKeyAuthWallet).(*models.WalletFromAuth)
	if !ok || wallet.Address == "" {
		return "", errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	return strings.ToLower(wallet.Address), nil
}

// AuthnAdmin guards operator endpoints with a static API key header.
func AuthnAdmin(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("X-Api-Key")
			if apiKey == "" || header != apiKey {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("unauthorized"), errorx.Authn), -1)
				return nil
			}

			return next(c)
		}
	}
}
