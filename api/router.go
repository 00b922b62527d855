package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/leading/api/handler"
	"github.com/use-agent/leading/api/middleware"
	"github.com/use-agent/leading/cache"
	"github.com/use-agent/leading/config"
	"github.com/use-agent/leading/leaderboard"
	"github.com/use-agent/leading/store"
)

// Deps are the long-lived collaborators shared by all routes.
type Deps struct {
	// Browser is nil when the server runs without a browser.
	Browser handler.BrowserStatser
	Opener  leaderboard.Opener
	Store   *store.Store
	Cache   *cache.Cache
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health is outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, d Deps, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(d.Browser, startTime))

	// Protected group: auth, then rate limit on scrapes.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}

	// Reports are cheap reads; only scrapes are rate limited.
	protected.GET("/reports", handler.ListReports(d.Store))
	protected.GET("/reports/:key", handler.GetReport(d.Store))

	protected.POST("/scrape", middleware.RateLimit(cfg.RateLimit), handler.Scrape(handler.ScrapeDeps{
		Opener:  d.Opener,
		Leading: cfg.Leading,
		Store:   d.Store,
		Cache:   d.Cache,
		Webhook: cfg.Webhook,
	}))

	return r
}
