package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/leading/cache"
	"github.com/use-agent/leading/config"
	"github.com/use-agent/leading/leaderboard"
	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/store"
	"github.com/use-agent/leading/webhook"
)

// ScrapeDeps are the collaborators of the scrape handler.
type ScrapeDeps struct {
	// Opener opens live browser sessions; nil restricts the server to
	// snapshot directories.
	Opener  leaderboard.Opener
	Leading config.LeadingConfig
	Store   *store.Store
	Cache   *cache.Cache
	Webhook config.WebhookConfig
}

// Scrape returns a handler for POST /api/v1/scrape.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Serve from cache when max_age allows.
//  3. leaderboard.Run over the snapshot dir or the live site.
//  4. Write the report when asked and an as-of date was found.
//  5. Fill Timing, store in cache, return 200.
func Scrape(d ScrapeDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		variant, err := models.ParseVariant(req.Variant)
		if err != nil {
			respondError(c, err, models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}
		dir := strings.TrimSpace(req.Dir)
		if dir == "" {
			dir = d.Leading.SnapshotDirFor(variant.Name)
		}

		// ── 2. Cache lookup ────────────────────────────────────────
		cacheKey := cache.Key(variant.Name, dir)
		if d.Cache != nil && req.MaxAge > 0 && !req.Write {
			if cached, hit := d.Cache.Get(cacheKey, req.MaxAge); hit {
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		// ── 3. Scrape ───────────────────────────────────────────────
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(req.Timeout)*time.Second)
		defer cancel()

		scrapeStart := time.Now()
		result, err := leaderboard.Run(ctx, leaderboard.RunOptions{
			Variant:        variant,
			SnapshotDir:    dir,
			Opener:         d.Opener,
			StartURL:       d.Leading.StartURL,
			NextLabel:      d.Leading.NextLabel,
			PageDelay:      d.Leading.PageDelay,
			DriftThreshold: d.Leading.DriftThreshold,
		})
		scrapeMs := time.Since(scrapeStart).Milliseconds()
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				ScrapeMs: scrapeMs,
			})
			return
		}

		resp := models.NewScrapeResponse(result)

		// ── 4. Write report ─────────────────────────────────────────
		if req.Write && d.Store != nil && result.Writable() {
			path, err := d.Store.SaveResult(result)
			if err != nil {
				respondError(c, err, models.TimingInfo{
					TotalMs:  time.Since(totalStart).Milliseconds(),
					ScrapeMs: scrapeMs,
				})
				return
			}
			resp.ReportKey = result.OutputKey()
			webhook.NotifyReport(d.Webhook.URL, d.Webhook.Secret, result, path)
		}

		// ── 5. Timing + cache store ─────────────────────────────────
		resp.Timing = models.TimingInfo{
			TotalMs:  time.Since(totalStart).Milliseconds(),
			ScrapeMs: scrapeMs,
		}
		// Written results carry a report key and are not cached; the cache
		// keeps its own copy so later responses never alias it.
		if d.Cache != nil && req.MaxAge > 0 && !req.Write {
			resp.CacheStatus = "miss"
			cached := *resp
			d.Cache.Set(cacheKey, &cached)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps an error to the correct HTTP status code and writes a
// structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	scrapeErr := models.Categorize(err)
	c.JSON(mapErrorToStatus(scrapeErr), models.ScrapeResponse{
		Success: false,
		Records: []models.SireRecord{},
		Error:   scrapeErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeSourceUnavailable, models.ErrCodeLayoutChanged,
		models.ErrCodeMalformedRow, models.ErrCodeMalformedCell:
		return http.StatusBadGateway // 502
	case models.ErrCodeBrowserCrash:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
