package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/use-agent/leading/models"
)

func sampleRecords() []models.SireRecord {
	year := 2010
	return []models.SireRecord{
		{
			Rank: 1, Name: "キズナ", BirthYear: &year, Color: "青鹿毛", Origin: "日本",
			Runners: 150, Winners: 60, Starts: 700, Wins: 90,
			Prize: 1234567000, PrizePerStart: 1763667, PrizePerHorse: 8230447,
			WinRate: decimal.RequireFromString("0.50"), EarningIndex: decimal.RequireFromString("2.31"),
		},
		{
			Rank: 2, Name: "ロードカナロア", Color: "鹿毛", Origin: "日本",
			Runners: 140, Winners: 55, Starts: 650, Wins: 80,
			Prize: 1100000000, PrizePerStart: 1692307, PrizePerHorse: 7857142,
			WinRate: decimal.RequireFromString("0.123"), EarningIndex: decimal.RequireFromString("2.10"),
		},
	}
}

func TestWriteFormat(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "reports"))

	path, err := s.Write("2024-03-31", sampleRecords()[:1])
	if err != nil {
		t.Fatalf("Write unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := `[
  {
    "rank": 1,
    "name": "キズナ",
    "birthYear": 2010,
    "color": "青鹿毛",
    "origin": "日本",
    "runners": 150,
    "winners": 60,
    "starts": 700,
    "wins": 90,
    "prize": 1234567000,
    "prizePerStart": 1763667,
    "prizePerHorse": 8230447,
    "winRate": 0.50,
    "earningIndex": 2.31
  }
]
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteOmitsAbsentBirthYear(t *testing.T) {
	s := New(t.TempDir())
	path, err := s.Write("2024-03-31_2sai", sampleRecords()[1:])
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "birthYear") {
		t.Errorf("absent birth year serialized:\n%s", data)
	}
	if !strings.Contains(string(data), `"winRate": 0.123`) {
		t.Errorf("winRate digits not preserved:\n%s", data)
	}
}

func TestWriteReplaces(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Write("2024-03-31", sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write("2024-03-31", sampleRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := s.Read("2024-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d records after replace, want 1", len(got))
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the report", len(entries))
	}
}

func TestReadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	want := sampleRecords()
	if _, err := s.Write("2024-03-31", want); err != nil {
		t.Fatal(err)
	}

	got, err := s.Read("2024-03-31")
	if err != nil {
		t.Fatalf("Read unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if s := models.FormatDecimal(got[0].WinRate); s != "0.50" {
		t.Errorf("winRate read back as %q, want %q", s, "0.50")
	}
}

func TestReadErrors(t *testing.T) {
	s := New(t.TempDir())

	tests := []struct {
		key  string
		code string
	}{
		{"2024-01-01", models.ErrCodeNotFound},
		{"../etc/passwd", models.ErrCodeInvalidInput},
		{"latest", models.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := s.Read(tt.key)
			var scrapeErr *models.ScrapeError
			if !errors.As(err, &scrapeErr) || scrapeErr.Code != tt.code {
				t.Errorf("Read(%q) error = %v, want code %s", tt.key, err, tt.code)
			}
		})
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	for _, key := range []string{"2024-03-31_2sai", "2024-03-31", "2023-12-24"} {
		if _, err := s.Write(key, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	keys, err := s.List()
	if err != nil {
		t.Fatalf("List unexpected error: %v", err)
	}
	want := []string{"2023-12-24", "2024-03-31", "2024-03-31_2sai"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestListMissingDir(t *testing.T) {
	keys, err := New(filepath.Join(t.TempDir(), "none")).List()
	if err != nil || len(keys) != 0 {
		t.Errorf("List on missing dir = %v, %v; want empty, nil", keys, err)
	}
}

func TestSaveResult(t *testing.T) {
	s := New(t.TempDir())
	date := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	path, err := s.SaveResult(&models.ScrapeResult{Variant: models.VariantTwoYearOld, Records: sampleRecords(), AsOfDate: &date})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "2024-03-31_2sai.json" {
		t.Errorf("path = %s, want 2024-03-31_2sai.json", path)
	}

	path, err = s.SaveResult(&models.ScrapeResult{Variant: models.VariantDefault, Records: sampleRecords()})
	if err != nil || path != "" {
		t.Errorf("SaveResult without date = %q, %v; want no write", path, err)
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "capture")
	path, err := SaveSnapshot(dir, 3, "<html></html>")
	if err != nil {
		t.Fatalf("SaveSnapshot unexpected error: %v", err)
	}
	if filepath.Base(path) != "3.html" {
		t.Errorf("path = %s, want 3.html", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<html></html>" {
		t.Errorf("snapshot content = %q, %v", data, err)
	}
}
