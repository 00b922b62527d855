package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/use-agent/leading/models"
)

// Session is one browser tab driving a leaderboard run. A Session is not
// safe for concurrent use.
type Session struct {
	scraper       *Scraper
	page          *rod.Page
	router        *rod.HijackRouter
	removeStealth func() error
	navTimeout    time.Duration
	closeOnce     sync.Once

	// failed is set by any browser operation error and decides whether the
	// tab is reused.
	failed bool
}

// Navigate loads url and waits for the DOM to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p, cancel := s.bind(ctx)
	defer cancel()

	if err := p.Navigate(url); err != nil {
		return s.fail(err, "navigation to "+url+" failed")
	}
	s.settle(p)
	return nil
}

// CurrentMarkup returns the serialized DOM of the current page.
func (s *Session) CurrentMarkup(ctx context.Context) (string, error) {
	p, cancel := s.bind(ctx)
	defer cancel()

	html, err := p.HTML()
	if err != nil {
		return "", s.fail(err, "failed to extract page HTML")
	}
	return html, nil
}

// Click activates the first link whose text contains label, then waits for
// the resulting page to settle.
func (s *Session) Click(ctx context.Context, label string) error {
	p, cancel := s.bind(ctx)
	defer cancel()

	el, err := p.ElementR("a", regexp.QuoteMeta(label))
	if err != nil {
		return s.fail(err, fmt.Sprintf("link %q not found", label))
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return s.fail(err, fmt.Sprintf("click on %q failed", label))
	}
	s.settle(p)
	return nil
}

// Wait pauses for d or until ctx is done.
func (s *Session) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close uninstalls the page hooks and returns the tab to the pool. It is
// safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.router != nil {
			err = s.router.Stop()
		}
		if s.removeStealth != nil {
			err = errors.Join(err, s.removeStealth())
		}
		s.scraper.release(s.page, s.failed)
	})
	return err
}

func (s *Session) fail(err error, msg string) *models.ScrapeError {
	s.failed = true
	return categorizeError(err, msg)
}

// bind scopes the page to ctx, bounded by the navigation timeout.
func (s *Session) bind(ctx context.Context) (*rod.Page, context.CancelFunc) {
	if s.navTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.navTimeout)
		return s.page.Context(ctx), cancel
	}
	ctx, cancel := context.WithCancel(ctx)
	return s.page.Context(ctx), cancel
}

// settle waits for load and DOM stability, best-effort: a page that keeps
// mutating is still read as is.
func (s *Session) settle(p *rod.Page) {
	if err := p.WaitLoad(); err != nil {
		slog.Debug("WaitLoad did not complete, proceeding with current DOM", "error", err)
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw rod errors into typed ScrapeErrors.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeSourceUnavailable, msg, err)
	}
}
