package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Leading   LeadingConfig
	Output    OutputConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxSessions caps concurrently open leaderboard sessions (tabs).
	MaxSessions int // default: 2

	// DefaultProxy is the proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects the stealth script into every session.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// LeadingConfig controls the leaderboard traversal.
type LeadingConfig struct {
	// StartURL is the page holding the leaderboard links.
	StartURL string // default: "https://www.jra.go.jp/datafile/leading/"

	// NextLabel is the pager link text.
	NextLabel string // default: "次の20件"

	// PageDelay is the pause before each next-page click.
	PageDelay time.Duration // default: 1s

	// NavigationTimeout bounds one navigation or click.
	NavigationTimeout time.Duration // default: 30s

	// ScrapeTimeout bounds a whole run.
	ScrapeTimeout time.Duration // default: 5m

	// DriftThreshold is the simhash distance that triggers a layout warning.
	// 0 disables the check.
	DriftThreshold int // default: 12

	// SnapshotDir is the default snapshot directory for the all-ages list.
	SnapshotDir string

	// SnapshotDir2sai is the default snapshot directory for the 2-year-old list.
	SnapshotDir2sai string
}

// OutputConfig controls report files.
type OutputConfig struct {
	// ReportDir is where <date>.json reports are written.
	ReportDir string // default: "."
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 0.2

	// Burst is the maximum burst size per API key.
	Burst int // default: 2
}

// CacheConfig controls the scrape response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 32
}

// WebhookConfig controls report notifications.
type WebhookConfig struct {
	// URL receives a report.written event; empty disables notifications.
	URL string

	// Secret signs the payload with HMAC-SHA256 when set.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("LEADING_HOST", "0.0.0.0"),
			Port: envIntOr("LEADING_PORT", 8080),
			Mode: envOr("LEADING_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("LEADING_HEADLESS", true),
			MaxSessions:  envIntOr("LEADING_MAX_SESSIONS", 2),
			DefaultProxy: os.Getenv("LEADING_PROXY"),
			NoSandbox:    envBoolOr("LEADING_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("LEADING_BROWSER_BIN"),
			Stealth:      envBoolOr("LEADING_STEALTH", true),
			BlockedResourceTypes: envSliceOr("LEADING_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Leading: LeadingConfig{
			StartURL:          envOr("LEADING_START_URL", "https://www.jra.go.jp/datafile/leading/"),
			NextLabel:         envOr("LEADING_NEXT_LABEL", "次の20件"),
			PageDelay:         envDurationOr("LEADING_PAGE_DELAY", time.Second),
			NavigationTimeout: envDurationOr("LEADING_NAV_TIMEOUT", 30*time.Second),
			ScrapeTimeout:     envDurationOr("LEADING_SCRAPE_TIMEOUT", 5*time.Minute),
			DriftThreshold:    envIntOr("LEADING_DRIFT_THRESHOLD", 12),
			SnapshotDir:       os.Getenv("LEADING_DIR"),
			SnapshotDir2sai:   os.Getenv("LEADING_DIR_2SAI"),
		},
		Output: OutputConfig{
			ReportDir: envOr("LEADING_REPORT_DIR", "."),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LEADING_AUTH_ENABLED", true),
			APIKeys: envSliceOr("LEADING_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LEADING_RATE_RPS", 0.2),
			Burst:             envIntOr("LEADING_RATE_BURST", 2),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("LEADING_CACHE_MAX_ENTRIES", 32),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("LEADING_WEBHOOK_URL"),
			Secret: os.Getenv("LEADING_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("LEADING_LOG_LEVEL", "info"),
			Format: envOr("LEADING_LOG_FORMAT", "text"),
		},
	}
}

// SnapshotDirFor returns the configured snapshot directory for a variant name.
func (c LeadingConfig) SnapshotDirFor(variant string) string {
	if variant == "2sai" {
		return c.SnapshotDir2sai
	}
	return c.SnapshotDir
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
