package leaderboard

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/leading/models"
)

// Selectors for the JRA leaderboard markup.
var (
	containerSel = cascadia.MustCompile("#leading_horse")
	tableSel     = cascadia.MustCompile("table.basic")
	rowSel       = cascadia.MustCompile("tbody tr")
	cellSel      = cascadia.MustCompile("td")
	pagerSel     = cascadia.MustCompile("#leading_horse > div.pager_block > div")
)

// Document is one parsed leaderboard fragment: a live page or a snapshot file.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses markup. The HTML parser is lenient, so an error here
// only comes from the reader.
func NewDocument(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ExtractRecords parses markup and returns its leaderboard rows in order.
func ExtractRecords(markup string) ([]models.SireRecord, error) {
	d, err := NewDocument(markup)
	if err != nil {
		return nil, err
	}
	return d.Records()
}

func (d *Document) container() *goquery.Selection {
	return d.doc.FindMatcher(containerSel).First()
}

// Records returns every data row of the first table.basic inside the
// leaderboard container. Rows without td cells (headers, spacers) are
// skipped. The first malformed row aborts extraction.
func (d *Document) Records() ([]models.SireRecord, error) {
	container := d.container()
	if container.Length() == 0 {
		return nil, models.NewScrapeError(models.ErrCodeLayoutChanged, "leaderboard container #leading_horse not found", nil)
	}
	table := container.FindMatcher(tableSel).First()
	if table.Length() == 0 {
		return nil, models.NewScrapeError(models.ErrCodeLayoutChanged, "table.basic not found in #leading_horse", nil)
	}

	var (
		records []models.SireRecord
		rowErr  error
		dataRow int
	)
	table.FindMatcher(rowSel).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		tds := row.FindMatcher(cellSel)
		if tds.Length() == 0 {
			return true
		}

		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cellText(td))
		})

		rec, err := ParseRow(cells)
		if err != nil {
			if re, ok := err.(*models.MalformedRowError); ok {
				re.Row = dataRow
			}
			rowErr = err
			return false
		}
		records = append(records, rec)
		dataRow++
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return records, nil
}

// ContainerHTML returns the inner markup of the leaderboard container, or ""
// when the container is missing.
func (d *Document) ContainerHTML() string {
	h, err := d.container().Html()
	if err != nil {
		return ""
	}
	return h
}

// PagerText returns the whitespace-normalized text of the pager status
// block directly under the leaderboard container.
func (d *Document) PagerText() string {
	return normalizeSpace(d.doc.FindMatcher(pagerSel).Text())
}

func cellText(s *goquery.Selection) string {
	return normalizeSpace(s.Text())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
