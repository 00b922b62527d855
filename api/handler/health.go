package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/leading/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// BrowserStatser reports browser utilisation.
type BrowserStatser interface {
	Stats() models.BrowserStats
}

// Health returns a handler for GET /api/v1/health.
//
// Status is "degraded" when no browser is available (only snapshot
// scrapes work) or every session slot is busy.
func Health(bs BrowserStatser, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats models.BrowserStats
		if bs != nil {
			stats = bs.Stats()
		}

		status := "healthy"
		if !stats.Launched || (stats.MaxSessions > 0 && stats.ActiveSessions >= stats.MaxSessions) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			BrowserStats: stats,
			Version:      Version,
		})
	}
}
