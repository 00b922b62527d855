package models

import (
	"fmt"
	"time"
)

// Variant identifies which leaderboard is scraped. Variants differ only in
// the link labels clicked before pagination starts.
type Variant struct {
	// Name is the stable identifier used in requests and logs.
	Name string

	// Labels are the link texts clicked, in order, after the start page loads.
	Labels []string

	// KeySuffix is appended to the as-of date to form the report key.
	KeySuffix string
}

var (
	// VariantDefault is the all-ages leading sire list.
	VariantDefault = Variant{Name: "default", Labels: []string{"種牡馬"}}

	// VariantTwoYearOld is the two-year-old leading sire list.
	VariantTwoYearOld = Variant{Name: "2sai", Labels: []string{"種牡馬", "2歳"}, KeySuffix: "_2sai"}
)

// Variants lists every known variant in their canonical run order.
func Variants() []Variant {
	return []Variant{VariantDefault, VariantTwoYearOld}
}

// ParseVariant resolves a variant by name. An empty name means the default.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "", VariantDefault.Name:
		return VariantDefault, nil
	case VariantTwoYearOld.Name:
		return VariantTwoYearOld, nil
	default:
		return Variant{}, NewScrapeError(ErrCodeInvalidInput, fmt.Sprintf("unknown variant %q", name), nil)
	}
}

// OutputKey derives the report key for a leaderboard published on date,
// e.g. "2024-03-31" or "2024-03-31_2sai".
func (v Variant) OutputKey(date time.Time) string {
	return date.Format(time.DateOnly) + v.KeySuffix
}

// Outcome summarises whether a traversal produced writable output.
type Outcome string

const (
	// OutcomeComplete means the as-of date was found.
	OutcomeComplete Outcome = "complete"

	// OutcomeMissingDate means rows were extracted but no fragment carried
	// the as-of marker, which points at a changed page layout.
	OutcomeMissingDate Outcome = "missing_date"

	// OutcomeEmpty means neither rows nor a date were found.
	OutcomeEmpty Outcome = "empty"
)

// ScrapeResult is the output of one leaderboard traversal.
type ScrapeResult struct {
	Variant Variant

	// Records are in source order. Nothing is re-sorted or de-duplicated.
	Records []SireRecord

	// AsOfDate is taken from the first fragment that carries it. Nil when
	// no fragment did.
	AsOfDate *time.Time

	// Fragments is the number of pages or files visited.
	Fragments int

	Outcome Outcome
}

// Writable reports whether the result should be handed to a writer.
func (r *ScrapeResult) Writable() bool {
	return r != nil && r.AsOfDate != nil
}

// OutputKey returns the report key, or "" when there is no as-of date.
func (r *ScrapeResult) OutputKey() string {
	if !r.Writable() {
		return ""
	}
	return r.Variant.OutputKey(*r.AsOfDate)
}

// Finish derives Outcome from the collected state.
func (r *ScrapeResult) Finish() {
	switch {
	case r.AsOfDate != nil:
		r.Outcome = OutcomeComplete
	case len(r.Records) > 0:
		r.Outcome = OutcomeMissingDate
	default:
		r.Outcome = OutcomeEmpty
	}
}
