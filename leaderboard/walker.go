package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/simhash"
)

// Fragment is one unit of a leaderboard traversal.
type Fragment struct {
	// Name identifies the fragment in logs and errors: a file name or "page N".
	Name string

	Markup string

	doc *Document
}

// Document returns the parsed fragment, parsing it on first use.
func (f *Fragment) Document() (*Document, error) {
	if f.doc == nil {
		d, err := NewDocument(f.Markup)
		if err != nil {
			return nil, err
		}
		f.doc = d
	}
	return f.doc, nil
}

// Source yields the fragments of one leaderboard in order.
//
// Next receives the previously returned fragment (nil on the first call) and
// returns the following one, or nil with a nil error when the source is
// exhausted.
type Source interface {
	Next(ctx context.Context, prev *Fragment) (*Fragment, error)
}

type walkConfig struct {
	variant        models.Variant
	driftThreshold int
	onFragment     func(index int, f *Fragment) error
}

// WalkOption configures Walk.
type WalkOption func(*walkConfig)

// WithVariant labels the result with v.
func WithVariant(v models.Variant) WalkOption {
	return func(c *walkConfig) { c.variant = v }
}

// WithDriftThreshold enables a warning whenever a fragment's container
// structure is more than n simhash bits away from the first fragment's.
// n <= 0 disables the check.
func WithDriftThreshold(n int) WalkOption {
	return func(c *walkConfig) { c.driftThreshold = n }
}

// WithFragmentHook calls fn with each fragment as soon as the source yields
// it, before extraction, so a fragment that later fails to parse is still
// seen. An error from fn aborts the walk.
func WithFragmentHook(fn func(index int, f *Fragment) error) WalkOption {
	return func(c *walkConfig) { c.onFragment = fn }
}

// Walk visits every fragment of src in order, appending each fragment's
// records to the result and capturing the as-of date from the first
// fragment that carries one.
//
// Any extraction or source error aborts the walk and no result is returned.
// A missing as-of date is not an error; it is reported through the result's
// Outcome.
func Walk(ctx context.Context, src Source, opts ...WalkOption) (*models.ScrapeResult, error) {
	cfg := walkConfig{variant: models.VariantDefault}
	for _, o := range opts {
		o(&cfg)
	}

	result := &models.ScrapeResult{Variant: cfg.variant}
	var (
		prev      *Fragment
		reference uint64
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frag, err := src.Next(ctx, prev)
		if err != nil {
			return nil, err
		}
		if frag == nil {
			break
		}

		slog.Info("parsing fragment", "variant", cfg.variant.Name, "fragment", frag.Name)

		if cfg.onFragment != nil {
			if err := cfg.onFragment(result.Fragments, frag); err != nil {
				return nil, fmt.Errorf("fragment hook (%s): %w", frag.Name, err)
			}
		}

		doc, err := frag.Document()
		if err != nil {
			return nil, &models.SourceUnavailableError{Source: frag.Name, Err: err}
		}
		records, err := doc.Records()
		if err != nil {
			return nil, withSource(err, frag.Name)
		}
		result.Records = append(result.Records, records...)

		// The date is read from the leaderboard container only, for pages
		// and snapshots alike, so a captured page replays the same result.
		if result.AsOfDate == nil {
			if date, ok := ExtractDate(doc.ContainerHTML()); ok {
				result.AsOfDate = &date
				slog.Info("as-of date found", "fragment", frag.Name, "date", date.Format("2006-01-02"))
			}
		}

		if cfg.driftThreshold > 0 {
			fp := simhash.Structure(doc.ContainerHTML())
			if result.Fragments == 0 {
				reference = fp
			} else if simhash.Drifted(reference, fp, cfg.driftThreshold) {
				slog.Warn("leaderboard layout drifted from first fragment",
					"fragment", frag.Name,
					"distance", simhash.Distance(reference, fp),
					"threshold", cfg.driftThreshold,
				)
			}
		}

		result.Fragments++
		slog.Debug("fragment parsed", "fragment", frag.Name, "records", len(records), "total", len(result.Records))
		prev = frag
	}

	result.Finish()
	return result, nil
}

// withSource attaches the fragment name to extraction errors.
func withSource(err error, source string) error {
	var rowErr *models.MalformedRowError
	if errors.As(err, &rowErr) {
		rowErr.Source = source
		return err
	}
	var scrapeErr *models.ScrapeError
	if errors.As(err, &scrapeErr) {
		return models.NewScrapeError(scrapeErr.Code, source+": "+scrapeErr.Message, scrapeErr.Err)
	}
	return fmt.Errorf("%s: %w", source, err)
}
