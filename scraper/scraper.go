package scraper

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/use-agent/leading/config"
	"github.com/use-agent/leading/models"
)

// Scraper manages the global browser lifecycle and the tab pool.
// It is safe for concurrent use.
type Scraper struct {
	browser        *rod.Browser
	pagePool       rod.Pool[rod.Page]
	browserCfg     config.BrowserConfig
	leadingCfg     config.LeadingConfig
	activeSessions atomic.Int32

	mu     sync.Mutex
	health map[*rod.Page]*tabHealth
}

// NewScraper launches a headless browser and initialises the reusable tab pool.
func NewScraper(browserCfg config.BrowserConfig, leadingCfg config.LeadingConfig) (*Scraper, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.DefaultProxy != "" {
		l = l.Proxy(browserCfg.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("lang"), "ja-JP")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	maxSessions := browserCfg.MaxSessions
	if maxSessions < 1 {
		maxSessions = 1
	}
	slog.Info("tab pool created", "maxSessions", maxSessions)

	return &Scraper{
		browser:    browser,
		pagePool:   rod.NewPagePool(maxSessions),
		browserCfg: browserCfg,
		leadingCfg: leadingCfg,
		health:     make(map[*rod.Page]*tabHealth),
	}, nil
}

// Open borrows a tab from the pool and prepares it for one leaderboard run.
// The caller must Close the session to return the tab.
//
// Preparation order matters: stealth and request blocking only apply to
// navigations that happen after they are installed.
func (s *Scraper) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to acquire tab from pool",
			err,
		)
	}
	s.activeSessions.Add(1)

	s.mu.Lock()
	if _, ok := s.health[page]; !ok {
		s.health[page] = newTabHealth(time.Now())
	}
	s.mu.Unlock()

	sess := &Session{
		scraper:    s,
		page:       page,
		navTimeout: s.leadingCfg.NavigationTimeout,
	}

	if s.browserCfg.Stealth {
		remove, evalErr := page.EvalOnNewDocument(stealth.JS)
		if evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		} else {
			sess.removeStealth = remove
		}
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": "ja-JP,ja;q=0.9",
		}),
	}.Call(page)

	sess.router = setupHijack(page, s.browserCfg.BlockedResourceTypes)
	return sess, nil
}

// release returns a tab to the pool after blanking it. Tabs that keep
// failing, or are old or heavily used, are closed and their pool slot freed
// so the next Open creates a fresh one.
func (s *Scraper) release(page *rod.Page, failed bool) {
	defer s.activeSessions.Add(-1)

	now := time.Now()
	s.mu.Lock()
	h, ok := s.health[page]
	if !ok {
		h = newTabHealth(now)
		s.health[page] = h
	}
	h.record(failed)
	retire := h.shouldRetire(now)
	if retire {
		delete(s.health, page)
	}
	s.mu.Unlock()

	if retire {
		slog.Debug("retiring tab", "uses", h.uses, "errScore", h.errScore)
		_ = page.Close()
		s.pagePool.Put(nil)
		return
	}

	if navErr := page.Navigate("about:blank"); navErr != nil {
		slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
	}
	s.pagePool.Put(page)
}

// Stats returns a snapshot of the browser's current state.
func (s *Scraper) Stats() models.BrowserStats {
	return models.BrowserStats{
		Launched:       true,
		MaxSessions:    s.browserCfg.MaxSessions,
		ActiveSessions: int(s.activeSessions.Load()),
	}
}

// Close drains the tab pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: draining tab pool")
	s.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	slog.Info("scraper shutting down: closing browser")
	s.browser.MustClose()
	slog.Info("scraper shutdown complete")
}
