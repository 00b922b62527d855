package trend

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/use-agent/leading/models"
)

var yen = message.NewPrinter(language.Japanese)

func formatYen(n int64) string {
	return yen.Sprintf("%d", n)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// Render writes the trend as a table with one row per date and one prize
// column per sire.
func (tr *Trend) Render(w io.Writer) {
	t := newTable(w)
	t.SetTitle(tr.Title())

	header := table.Row{"日付"}
	configs := make([]table.ColumnConfig, 0, len(tr.Series))
	for i, s := range tr.Series {
		header = append(header, s.Name)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, date := range tr.Dates {
		row := table.Row{date}
		for _, s := range tr.Series {
			if p, ok := s.At(date); ok {
				row = append(row, formatYen(p.Prize))
			} else {
				row = append(row, "-")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

// RenderRecords writes one report as a leaderboard table.
func RenderRecords(w io.Writer, title string, records []models.SireRecord) {
	t := newTable(w)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(table.Row{"順位", "種牡馬名", "生年", "毛色", "産地", "出走頭数", "勝利頭数", "出走回数", "勝利回数", "収得賞金", "1出走賞金", "1頭平均賞金", "勝馬率", "E-I"})

	numeric := []int{1, 3, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, n := range numeric {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	for _, r := range records {
		year := "-"
		if r.BirthYear != nil {
			year = strconv.Itoa(*r.BirthYear)
		}
		t.AppendRow(table.Row{
			r.Rank, r.Name, year, r.Color, r.Origin,
			r.Runners, r.Winners, r.Starts, r.Wins,
			formatYen(r.Prize), formatYen(r.PrizePerStart), formatYen(r.PrizePerHorse),
			models.FormatDecimal(r.WinRate), models.FormatDecimal(r.EarningIndex),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "", "", "", "", "", "件数", len(records)})
	t.Render()
}
