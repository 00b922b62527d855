// Package trend follows the prize money of the leading sires across saved
// reports and renders reports as console tables.
package trend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/store"
)

// Point is one sire's standing on one report date.
type Point struct {
	Date  string // YYYY-MM-DD
	Rank  int
	Prize int64
}

// Series is the prize history of one sire, oldest first. Dates on which the
// sire was not listed have no point.
type Series struct {
	Name   string
	Points []Point
}

// At returns the point for date, if any.
func (s Series) At(date string) (Point, bool) {
	for _, p := range s.Points {
		if p.Date == date {
			return p, true
		}
	}
	return Point{}, false
}

// Trend is the prize history of the top sires of the latest report.
type Trend struct {
	Variant models.Variant

	// Dates lists every report date, oldest first.
	Dates []string

	// Series holds the top sires in their latest-report rank order.
	Series []Series
}

// Latest returns the most recent report date, or "".
func (t *Trend) Latest() string {
	if len(t.Dates) == 0 {
		return ""
	}
	return t.Dates[len(t.Dates)-1]
}

// Load builds the trend for variant from every matching report in st.
func Load(st *store.Store, variant models.Variant, topN int) (*Trend, error) {
	keys, err := st.List()
	if err != nil {
		return nil, err
	}

	reports := make(map[string][]models.SireRecord)
	for _, key := range keys {
		date, ok := dateOf(key, variant)
		if !ok {
			continue
		}
		records, err := st.Read(key)
		if err != nil {
			return nil, err
		}
		reports[date] = records
	}
	return Build(variant, reports, topN), nil
}

// Build computes the trend from reports keyed by date. The top sires are the
// topN lowest ranks of the latest date.
func Build(variant models.Variant, reports map[string][]models.SireRecord, topN int) *Trend {
	t := &Trend{Variant: variant}
	for date := range reports {
		t.Dates = append(t.Dates, date)
	}
	slices.Sort(t.Dates)
	if len(t.Dates) == 0 || topN <= 0 {
		return t
	}

	latest := slices.Clone(reports[t.Latest()])
	slices.SortStableFunc(latest, func(a, b models.SireRecord) int { return a.Rank - b.Rank })
	if len(latest) > topN {
		latest = latest[:topN]
	}

	index := make(map[string]int, len(latest))
	for i, rec := range latest {
		index[rec.Name] = i
		t.Series = append(t.Series, Series{Name: rec.Name})
	}

	for _, date := range t.Dates {
		for _, rec := range reports[date] {
			i, ok := index[rec.Name]
			if !ok {
				continue
			}
			if _, dup := t.Series[i].At(date); dup {
				continue
			}
			t.Series[i].Points = append(t.Series[i].Points, Point{Date: date, Rank: rec.Rank, Prize: rec.Prize})
		}
	}
	return t
}

// dateOf extracts the date from a report key of variant.
func dateOf(key string, variant models.Variant) (string, bool) {
	if variant.KeySuffix == "" {
		return key, !strings.Contains(key, "_")
	}
	return strings.CutSuffix(key, variant.KeySuffix)
}

// Title describes the trend the way the report header shows it.
func (t *Trend) Title() string {
	return fmt.Sprintf("リーディングサイヤー賞金の推移（%s時点のTop %d, %s）", t.Latest(), len(t.Series), t.Variant.Name)
}
