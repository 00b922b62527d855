package leaderboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/leading/models"
)

// Session is a live browser tab dedicated to one run.
type Session interface {
	Browser
	Navigate(ctx context.Context, url string) error
	Close() error
}

// Opener acquires a fresh browser session.
type Opener func(ctx context.Context) (Session, error)

// RunOptions configures one leaderboard scrape.
type RunOptions struct {
	Variant models.Variant

	// SnapshotDir selects the local strategy when it is not blank.
	SnapshotDir string

	// Opener is required for the live strategy.
	Opener Opener

	StartURL  string        // default: DefaultStartURL
	NextLabel string        // default: DefaultNextLabel
	PageDelay time.Duration // default: DefaultPageDelay; negative means no delay

	// DriftThreshold is the simhash distance above which a layout drift
	// warning is logged. 0 disables the check.
	DriftThreshold int

	// OnFragment, if set, is called for every fetched fragment before its
	// records are extracted.
	OnFragment func(index int, f *Fragment) error
}

func (o *RunOptions) defaults() {
	if o.Variant.Name == "" {
		o.Variant = models.VariantDefault
	}
	if o.StartURL == "" {
		o.StartURL = DefaultStartURL
	}
	if o.NextLabel == "" {
		o.NextLabel = DefaultNextLabel
	}
	if o.PageDelay == 0 {
		o.PageDelay = DefaultPageDelay
	}
}

// Run scrapes one leaderboard variant from a snapshot directory or, when no
// directory is given, from the live site.
//
// A result without an as-of date is returned without error; its Outcome
// tells callers why nothing should be written.
func Run(ctx context.Context, opts RunOptions) (*models.ScrapeResult, error) {
	opts.defaults()

	walkOpts := []WalkOption{
		WithVariant(opts.Variant),
		WithDriftThreshold(opts.DriftThreshold),
	}
	if opts.OnFragment != nil {
		walkOpts = append(walkOpts, WithFragmentHook(opts.OnFragment))
	}

	var (
		result *models.ScrapeResult
		err    error
	)
	if dir := strings.TrimSpace(opts.SnapshotDir); dir != "" {
		slog.Info("scraping from snapshots", "variant", opts.Variant.Name, "dir", dir)
		result, err = runLocal(ctx, dir, walkOpts)
	} else {
		slog.Info("scraping live", "variant", opts.Variant.Name, "url", opts.StartURL)
		result, err = runLive(ctx, opts, walkOpts)
	}
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case models.OutcomeComplete:
		slog.Info("scrape complete",
			"variant", opts.Variant.Name,
			"key", result.OutputKey(),
			"fragments", result.Fragments,
			"records", len(result.Records),
		)
	case models.OutcomeMissingDate:
		slog.Warn("unable to find as-of date; leaderboard layout may have changed",
			"variant", opts.Variant.Name,
			"fragments", result.Fragments,
			"records", len(result.Records),
		)
	default:
		slog.Warn("unable to find as-of date or any records",
			"variant", opts.Variant.Name,
			"fragments", result.Fragments,
		)
	}
	return result, nil
}

func runLocal(ctx context.Context, dir string, walkOpts []WalkOption) (*models.ScrapeResult, error) {
	src, err := NewLocalSource(dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("snapshot files", "dir", dir, "files", src.Files())
	return Walk(ctx, src, walkOpts...)
}

func runLive(ctx context.Context, opts RunOptions, walkOpts []WalkOption) (*models.ScrapeResult, error) {
	if opts.Opener == nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "no snapshot directory and no browser configured", nil)
	}

	session, err := opts.Opener(ctx)
	if err != nil {
		return nil, &models.SourceUnavailableError{Source: opts.StartURL, Err: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			slog.Warn("closing browser session", "error", cerr)
		}
	}()

	if err := session.Navigate(ctx, opts.StartURL); err != nil {
		return nil, &models.SourceUnavailableError{Source: opts.StartURL, Err: err}
	}
	for _, label := range opts.Variant.Labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.Debug("selecting leaderboard", "variant", opts.Variant.Name, "link", label)
		if err := session.Click(ctx, label); err != nil {
			return nil, &models.SourceUnavailableError{Source: "link " + label, Err: err}
		}
	}

	return Walk(ctx, NewLiveSource(session, opts.NextLabel, opts.PageDelay), walkOpts...)
}
