package commands

import (
	"context"
	"log/slog"
	"sync"

	"github.com/use-agent/leading/leaderboard"
	"github.com/use-agent/leading/scraper"
)

// lazyBrowser launches Chrome on the first live session only, so snapshot
// runs never start a browser. A preset sc is used as is.
type lazyBrowser struct {
	once sync.Once
	sc   *scraper.Scraper
	err  error
}

func (b *lazyBrowser) get() (*scraper.Scraper, error) {
	b.once.Do(func() {
		if b.sc == nil {
			b.sc, b.err = scraper.NewScraper(cfg.Browser, cfg.Leading)
		}
	})
	return b.sc, b.err
}

// Open satisfies leaderboard.Opener.
func (b *lazyBrowser) Open(ctx context.Context) (leaderboard.Session, error) {
	sc, err := b.get()
	if err != nil {
		return nil, err
	}
	sess, err := sc.Open(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Close kills the browser if it was ever launched.
func (b *lazyBrowser) Close() {
	if b.sc != nil {
		b.sc.Close()
		slog.Debug("browser closed")
	}
}
