package models

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the traversal completed without errors.
	Success bool `json:"success"`

	Variant string `json:"variant,omitempty"`

	// AsOfDate is the leaderboard publication date (YYYY-MM-DD), empty when
	// no fragment carried it.
	AsOfDate string `json:"as_of_date,omitempty"`

	// Outcome is "complete", "missing_date" or "empty".
	Outcome string `json:"outcome,omitempty"`

	// Fragments is the number of pages or files visited.
	Fragments int `json:"fragments"`

	Count   int          `json:"count"`
	Records []SireRecord `json:"records"`

	// ReportKey is set when the result was written as a report.
	ReportKey string `json:"report_key,omitempty"`

	// CacheStatus is "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// NewScrapeResponse builds a successful response from a traversal result.
func NewScrapeResponse(result *ScrapeResult) *ScrapeResponse {
	resp := &ScrapeResponse{
		Success:   true,
		Variant:   result.Variant.Name,
		Outcome:   string(result.Outcome),
		Fragments: result.Fragments,
		Count:     len(result.Records),
		Records:   result.Records,
	}
	if resp.Records == nil {
		resp.Records = []SireRecord{}
	}
	if result.AsOfDate != nil {
		resp.AsOfDate = result.AsOfDate.Format("2006-01-02")
	}
	return resp
}

// ReportsResponse is the response for GET /api/v1/reports.
type ReportsResponse struct {
	Success bool         `json:"success"`
	Keys    []string     `json:"keys"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ReportResponse is the response for GET /api/v1/reports/:key.
type ReportResponse struct {
	Success bool         `json:"success"`
	Key     string       `json:"key"`
	Count   int          `json:"count"`
	Records []SireRecord `json:"records"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in a request.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent walking the leaderboard.
	ScrapeMs int64 `json:"scrape_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string       `json:"status"` // "healthy" or "degraded"
	Uptime       string       `json:"uptime"`
	BrowserStats BrowserStats `json:"browser_stats"`
	Version      string       `json:"version"`
}

// BrowserStats reports the state of the shared browser.
type BrowserStats struct {
	Launched       bool `json:"launched"`
	MaxSessions    int  `json:"max_sessions"`
	ActiveSessions int  `json:"active_sessions"`
}

// ErrorResponse is the body of requests rejected before reaching a handler.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// NewErrorResponse builds a failed ErrorResponse.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: &ErrorDetail{Code: code, Message: message}}
}
