package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SireRecord is one row of the leading-sire leaderboard.
type SireRecord struct {
	Rank      int
	Name      string
	BirthYear *int // nil when the name cell carries no "(YYYY年)" suffix
	Color     string
	Origin    string

	Runners int
	Winners int
	Starts  int
	Wins    int

	// Prize amounts in yen.
	Prize         int64
	PrizePerStart int64
	PrizePerHorse int64

	WinRate      decimal.Decimal
	EarningIndex decimal.Decimal
}

// sireRecordJSON fixes the serialized field order and keeps the decimals as
// bare JSON numbers.
type sireRecordJSON struct {
	Rank          int         `json:"rank"`
	Name          string      `json:"name"`
	BirthYear     *int        `json:"birthYear,omitempty"`
	Color         string      `json:"color"`
	Origin        string      `json:"origin"`
	Runners       int         `json:"runners"`
	Winners       int         `json:"winners"`
	Starts        int         `json:"starts"`
	Wins          int         `json:"wins"`
	Prize         int64       `json:"prize"`
	PrizePerStart int64       `json:"prizePerStart"`
	PrizePerHorse int64       `json:"prizePerHorse"`
	WinRate       json.Number `json:"winRate"`
	EarningIndex  json.Number `json:"earningIndex"`
}

// MarshalJSON implements json.Marshaler.
func (r SireRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(sireRecordJSON{
		Rank:          r.Rank,
		Name:          r.Name,
		BirthYear:     r.BirthYear,
		Color:         r.Color,
		Origin:        r.Origin,
		Runners:       r.Runners,
		Winners:       r.Winners,
		Starts:        r.Starts,
		Wins:          r.Wins,
		Prize:         r.Prize,
		PrizePerStart: r.PrizePerStart,
		PrizePerHorse: r.PrizePerHorse,
		WinRate:       json.Number(FormatDecimal(r.WinRate)),
		EarningIndex:  json.Number(FormatDecimal(r.EarningIndex)),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *SireRecord) UnmarshalJSON(data []byte) error {
	var w sireRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	winRate, err := decimal.NewFromString(w.WinRate.String())
	if err != nil {
		return fmt.Errorf("winRate: %w", err)
	}
	earningIndex, err := decimal.NewFromString(w.EarningIndex.String())
	if err != nil {
		return fmt.Errorf("earningIndex: %w", err)
	}
	*r = SireRecord{
		Rank:          w.Rank,
		Name:          w.Name,
		BirthYear:     w.BirthYear,
		Color:         w.Color,
		Origin:        w.Origin,
		Runners:       w.Runners,
		Winners:       w.Winners,
		Starts:        w.Starts,
		Wins:          w.Wins,
		Prize:         w.Prize,
		PrizePerStart: w.PrizePerStart,
		PrizePerHorse: w.PrizePerHorse,
		WinRate:       winRate,
		EarningIndex:  earningIndex,
	}
	return nil
}

// FormatDecimal renders d with exactly as many fractional digits as it was
// parsed with, so "0.50" stays "0.50".
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
