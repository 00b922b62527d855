package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// Variant selects the leaderboard: "default" (all ages) or "2sai".
	// Default: "default".
	Variant string `json:"variant,omitempty" binding:"omitempty,oneof=default 2sai"`

	// Dir is a snapshot directory readable by the server. When empty the
	// live site is scraped with the browser.
	Dir string `json:"dir,omitempty"`

	// Write stores the result as a report when an as-of date was found.
	Write bool `json:"write,omitempty"`

	// Timeout is the maximum duration in seconds for the whole traversal.
	// Default: 120. Max: 600.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=600"`

	// MaxAge allows serving a cached result younger than MaxAge milliseconds.
	// 0 disables the cache.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Variant == "" {
		r.Variant = VariantDefault.Name
	}
	if r.Timeout == 0 {
		r.Timeout = 120
	}
}
