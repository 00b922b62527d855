package leaderboard

import (
	"errors"
	"testing"

	"github.com/use-agent/leading/models"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int64
		wantErr bool
	}{
		{"plain", "42", 42, false},
		{"thousands separators", "1,234,567", 1234567, false},
		{"currency and unit", "¥12,345円", 12345, false},
		{"surrounding whitespace", "  7 \n", 7, false},
		{"large prize", "9,876,543,210", 9876543210, false},
		{"minus sign dropped", "-5", 5, false},
		{"empty", "", 0, true},
		{"no digits", "－", 0, true},
		{"full-width digits are not digits", "１２", 0, true},
		{"overflow", "99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInteger(tt.text)
			if tt.wantErr {
				var cellErr *models.MalformedCellError
				if !errors.As(err, &cellErr) {
					t.Fatalf("ParseInteger(%q) error = %v, want *MalformedCellError", tt.text, err)
				}
				if cellErr.Text != tt.text {
					t.Errorf("error text = %q, want %q", cellErr.Text, tt.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInteger(%q) unexpected error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseInteger(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		text    string
		want    string
		wantErr bool
	}{
		{"0.50", "0.50", false},
		{"2.31", "2.31", false},
		{"12", "12", false},
		{" 0.129 ", "0.129", false},
		{"1.000", "1.000", false},
		{"", "", true},
		{"abc", "", true},
		{"1,5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseDecimal(tt.text)
			if tt.wantErr {
				var cellErr *models.MalformedCellError
				if !errors.As(err, &cellErr) {
					t.Fatalf("ParseDecimal(%q) error = %v, want *MalformedCellError", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimal(%q) unexpected error: %v", tt.text, err)
			}
			if s := models.FormatDecimal(got); s != tt.want {
				t.Errorf("ParseDecimal(%q) formats as %q, want %q", tt.text, s, tt.want)
			}
		})
	}
}

func TestParseNameAndYear(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantYear int // 0 means absent
		wantErr  bool
	}{
		{"name and year", "ディープインパクト（2002年）", "ディープインパクト", 2002, false},
		{"padded", " キズナ （ 2010年 ） ", "キズナ", 2010, false},
		{"year without suffix", "モーリス（2011）", "モーリス", 2011, false},
		{"full-width year", "ディープインパクト（２００２年）", "ディープインパクト", 2002, false},
		{"full-width padded year", "キズナ（　２０１０年　）", "キズナ", 2010, false},
		{"no year", "ロードカナロア", "ロードカナロア", 0, false},
		{"empty parentheses", "ハーツクライ（）", "ハーツクライ", 0, false},
		{"bare year suffix", "オルフェーヴル（年）", "オルフェーヴル", 0, false},
		{"empty", "", "", 0, true},
		{"whitespace only", "   ", "", 0, true},
		{"year only", "（2002年）", "", 0, true},
		{"short year", "キズナ（210年）", "", 0, true},
		{"non-numeric year", "キズナ（不明）", "", 0, true},
		{"signed year", "キズナ（+202年）", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, year, err := ParseNameAndYear(tt.text)
			if tt.wantErr {
				var cellErr *models.MalformedCellError
				if !errors.As(err, &cellErr) {
					t.Fatalf("ParseNameAndYear(%q) error = %v, want *MalformedCellError", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNameAndYear(%q) unexpected error: %v", tt.text, err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			switch {
			case tt.wantYear == 0 && year != nil:
				t.Errorf("year = %d, want absent", *year)
			case tt.wantYear != 0 && year == nil:
				t.Errorf("year absent, want %d", tt.wantYear)
			case tt.wantYear != 0 && *year != tt.wantYear:
				t.Errorf("year = %d, want %d", *year, tt.wantYear)
			}
		})
	}
}
