package leaderboard

import (
	"github.com/use-agent/leading/models"
)

// Column positions of the leaderboard table.
const (
	colRank = iota
	colName
	colColor
	colOrigin
	colRunners
	colWinners
	colStarts
	colWins
	colPrize
	colPrizePerStart
	colPrizePerHorse
	colWinRate
	colEarningIndex

	columnCount
)

// columnNames are the serialized field names, indexed by column.
var columnNames = [columnCount]string{
	"rank", "name", "color", "origin",
	"runners", "winners", "starts", "wins",
	"prize", "prizePerStart", "prizePerHorse",
	"winRate", "earningIndex",
}

// ParseRow maps the 13 text cells of one leaderboard row onto a SireRecord.
// Extra trailing cells are ignored.
func ParseRow(cells []string) (models.SireRecord, error) {
	if len(cells) < columnCount {
		return models.SireRecord{}, &models.MalformedRowError{Column: -1, Cells: len(cells)}
	}

	var rec models.SireRecord
	fail := func(col int, err error) (models.SireRecord, error) {
		return models.SireRecord{}, &models.MalformedRowError{
			Column: col,
			Field:  columnNames[col],
			Text:   cells[col],
			Cells:  len(cells),
			Err:    err,
		}
	}

	rank, err := ParseInteger(cells[colRank])
	if err != nil {
		return fail(colRank, err)
	}
	if rank < 1 {
		return fail(colRank, &models.MalformedCellError{Text: cells[colRank], Reason: "rank below 1"})
	}
	rec.Rank = int(rank)

	rec.Name, rec.BirthYear, err = ParseNameAndYear(cells[colName])
	if err != nil {
		return fail(colName, err)
	}
	rec.Color = cells[colColor]
	rec.Origin = cells[colOrigin]

	counts := []struct {
		col int
		dst *int
	}{
		{colRunners, &rec.Runners},
		{colWinners, &rec.Winners},
		{colStarts, &rec.Starts},
		{colWins, &rec.Wins},
	}
	for _, c := range counts {
		n, err := ParseInteger(cells[c.col])
		if err != nil {
			return fail(c.col, err)
		}
		*c.dst = int(n)
	}

	prizes := []struct {
		col int
		dst *int64
	}{
		{colPrize, &rec.Prize},
		{colPrizePerStart, &rec.PrizePerStart},
		{colPrizePerHorse, &rec.PrizePerHorse},
	}
	for _, p := range prizes {
		n, err := ParseInteger(cells[p.col])
		if err != nil {
			return fail(p.col, err)
		}
		*p.dst = n
	}

	if rec.WinRate, err = ParseDecimal(cells[colWinRate]); err != nil {
		return fail(colWinRate, err)
	}
	if rec.EarningIndex, err = ParseDecimal(cells[colEarningIndex]); err != nil {
		return fail(colEarningIndex, err)
	}
	return rec, nil
}
