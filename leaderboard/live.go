package leaderboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/use-agent/leading/models"
)

const (
	// DefaultStartURL is the JRA leading-ranking index.
	DefaultStartURL = "https://www.jra.go.jp/datafile/leading/"

	// DefaultNextLabel is the pager link text that advances by one page.
	DefaultNextLabel = "次の20件"

	// DefaultPageDelay is the pause before each next-page click.
	DefaultPageDelay = time.Second
)

// Browser is the part of a live browser session the pager needs.
type Browser interface {
	// CurrentMarkup returns the serialized DOM of the current page.
	CurrentMarkup(ctx context.Context) (string, error)

	// Click activates the first link whose text contains label and waits
	// for the resulting page to settle.
	Click(ctx context.Context, label string) error

	// Wait pauses for d or until ctx is done.
	Wait(ctx context.Context, d time.Duration) error
}

// LiveSource pages through a leaderboard in a browser by following the
// next-page link until the pager no longer offers it.
type LiveSource struct {
	browser   Browser
	nextLabel string
	delay     time.Duration
	page      int
}

// NewLiveSource returns a source reading from b, which must already show
// the first leaderboard page.
func NewLiveSource(b Browser, nextLabel string, delay time.Duration) *LiveSource {
	if nextLabel == "" {
		nextLabel = DefaultNextLabel
	}
	if delay < 0 {
		delay = 0
	}
	return &LiveSource{browser: b, nextLabel: nextLabel, delay: delay}
}

// Next returns the current page on the first call. Afterwards it advances
// only when prev's pager text contains the next-page label.
func (s *LiveSource) Next(ctx context.Context, prev *Fragment) (*Fragment, error) {
	if prev != nil {
		doc, err := prev.Document()
		if err != nil {
			return nil, &models.SourceUnavailableError{Source: prev.Name, Err: err}
		}
		if !strings.Contains(doc.PagerText(), s.nextLabel) {
			return nil, nil
		}
		if err := s.browser.Wait(ctx, s.delay); err != nil {
			return nil, err
		}
		if err := s.browser.Click(ctx, s.nextLabel); err != nil {
			return nil, &models.SourceUnavailableError{Source: s.name(s.page + 1), Err: err}
		}
	}

	markup, err := s.browser.CurrentMarkup(ctx)
	if err != nil {
		return nil, &models.SourceUnavailableError{Source: s.name(s.page + 1), Err: err}
	}
	s.page++
	return &Fragment{Name: s.name(s.page), Markup: markup}, nil
}

func (s *LiveSource) name(page int) string {
	return fmt.Sprintf("page %d", page)
}
