package leaderboard

import (
	"testing"
	"time"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string // YYYY-MM-DD, empty when absent
	}{
		{"padded", "<p>2024年03月31日現在</p>", "2024-03-31"},
		{"single digits", "<p>2024年3月1日現在</p>", "2024-03-01"},
		{"first match wins", "2023年12月24日現在 … 2024年1月7日現在", "2023-12-24"},
		{"embedded in text", "集計：2019年11月3日現在（中央競馬）", "2019-11-03"},
		{"missing suffix", "2024年3月31日", ""},
		{"no marker", "<table></table>", ""},
		{"invalid day", "2024年2月30日現在", ""},
		{"invalid month", "2024年13月1日現在", ""},
		{"leap day", "2024年2月29日現在", "2024-02-29"},
		{"three digit day", "2024年3月123日現在", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.markup)
			if tt.want == "" {
				if ok {
					t.Errorf("ExtractDate(%q) = %s, want absent", tt.markup, got.Format(time.DateOnly))
				}
				return
			}
			if !ok {
				t.Fatalf("ExtractDate(%q) found nothing, want %s", tt.markup, tt.want)
			}
			if s := got.Format(time.DateOnly); s != tt.want {
				t.Errorf("ExtractDate(%q) = %s, want %s", tt.markup, s, tt.want)
			}
		})
	}
}
