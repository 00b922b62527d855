package scraper

import (
	"math"
	"time"
)

// Retirement thresholds for pooled tabs.
const (
	maxErrScore = 3.0
	maxTabUses  = 50
	maxTabAge   = 50 * time.Minute
)

// tabHealth scores one pooled tab. A failed session raises the score by 1,
// a clean one lowers it by 0.5.
type tabHealth struct {
	uses     int
	errScore float64
	created  time.Time
}

func newTabHealth(now time.Time) *tabHealth {
	return &tabHealth{created: now}
}

func (h *tabHealth) record(failed bool) {
	h.uses++
	if failed {
		h.errScore++
		return
	}
	h.errScore = math.Max(0, h.errScore-0.5)
}

// shouldRetire reports whether the tab should be closed instead of reused.
func (h *tabHealth) shouldRetire(now time.Time) bool {
	return h.errScore >= maxErrScore ||
		h.uses >= maxTabUses ||
		now.Sub(h.created) >= maxTabAge
}
