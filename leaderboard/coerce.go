package leaderboard

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"

	"github.com/use-agent/leading/models"
)

// ParseInteger keeps only the ASCII digits of text and parses them as a
// base-10 integer, so "12,345頭" and "¥1,234円" are accepted.
func ParseInteger(text string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0, &models.MalformedCellError{Text: text, Reason: "no digits"}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, &models.MalformedCellError{Text: text, Reason: "not an integer", Err: err}
	}
	return n, nil
}

// ParseDecimal parses text as an exact base-10 decimal. The parsed value
// keeps its exponent, so models.FormatDecimal reproduces the printed digits.
func ParseDecimal(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Decimal{}, &models.MalformedCellError{Text: text, Reason: "not a decimal", Err: err}
	}
	return d, nil
}

// ParseNameAndYear splits a sire cell such as "ディープインパクト（2002年）"
// into the name and the optional birth year.
func ParseNameAndYear(text string) (string, *int, error) {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '（' || r == '）'
	})
	// FieldsFunc drops a leading empty segment; "（2002年）" has no name.
	if len(parts) == 0 || strings.HasPrefix(strings.TrimSpace(text), "（") {
		return "", nil, &models.MalformedCellError{Text: text, Reason: "empty name"}
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return "", nil, &models.MalformedCellError{Text: text, Reason: "empty name"}
	}
	if len(parts) < 2 {
		return name, nil, nil
	}

	// Full-width digits such as "２００２" are folded to ASCII first.
	yearText := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(width.Narrow.String(parts[1])), "年"))
	if yearText == "" {
		return name, nil, nil
	}
	if len(yearText) != 4 || strings.IndexFunc(yearText, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return "", nil, &models.MalformedCellError{Text: text, Reason: "birth year is not 4 digits"}
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return "", nil, &models.MalformedCellError{Text: text, Reason: "birth year is not a number", Err: err}
	}
	return name, &year, nil
}
