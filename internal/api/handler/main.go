package handler

import (
	"net/http"

	"neftit/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container   *do.Injector
	Mode        string
	Origins     []string
	AdminAPIKey string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🔥")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		auth := groupAuth{cfg.Container}
		routesAPIv1.POST("/auth/login", auth.Login)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		col := groupCollection{cfg.Container}
		routesAPIv1.GET("/collection", col.GetCollection)
		routesAPIv1.GET("/collection/rarity-counts", col.GetRarityCounts)
		routesAPIv1.GET("/distributions", col.GetDistributionHistory)

		p := groupPool{cfg.Container}
		routesAPIv1.GET("/pool/:project/availability", p.GetAvailability)
		routesAPIv1.GET("/content/:cid", p.GetContent)

		b := groupBurn{cfg.Container}
		routesAPIv1.GET("/burn/rules", b.GetRules)
		routesAPIv1.POST("/burn", b.Burn)
		routesAPIv1.GET("/burn/history", b.GetHistory)

		cl := groupChainClaim{cfg.Container}
		routesAPIv1.GET("/chains", cl.GetSupportedChains)
		routesAPIv1.POST("/claims", cl.Claim)
		routesAPIv1.GET("/claims", cl.GetClaims)

		st := groupStaking{cfg.Container}
		routesAPIv1.POST("/staking/stake", st.Stake)
		routesAPIv1.POST("/staking/unstake", st.Unstake)
		routesAPIv1.GET("/staking/stakes", st.GetStakes)
		routesAPIv1.POST("/staking/tokens", st.StakeTokens)
		routesAPIv1.POST("/staking/tokens/:id/unstake", st.UnstakeTokens)
		routesAPIv1.GET("/staking/summary", st.GetSummary)

		rw := groupReward{cfg.Container}
		routesAPIv1.GET("/rewards/summary", rw.GetSummary)
		routesAPIv1.GET("/rewards/ledger", rw.GetLedger)
		routesAPIv1.POST("/rewards/claim/nft", rw.ClaimNFT)
		routesAPIv1.POST("/rewards/claim/token", rw.ClaimToken)

		a := groupAchievement{cfg.Container}
		routesAPIv1.GET("/achievements", a.GetAchievements)
		routesAPIv1.POST("/achievements/:key/claim", a.Claim)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			routesAPIv1Admin.Use(AuthnAdmin(cfg.AdminAPIKey))
			ad := groupAdmin{cfg.Container}
			routesAPIv1Admin.POST("/pool/seed", ad.SeedPool)
			routesAPIv1Admin.POST("/distribute", ad.Distribute)
			routesAPIv1Admin.POST("/distributions/:id/recover", ad.Recover)
		}
	}

	return r, nil
}
