package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/use-agent/leading/models"
)

const fixtureDir = "../../../api/testdata/sire"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVariantsFor(t *testing.T) {
	tests := []struct {
		name string
		want []string
		ok   bool
	}{
		{"all", []string{"default", "2sai"}, true},
		{"default", []string{"default"}, true},
		{"2sai", []string{"2sai"}, true},
		{"3sai", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := variantsFor(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("variantsFor(%q) error = %v", tt.name, err)
			}
			var names []string
			for _, v := range got {
				names = append(names, v.Name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("variants mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScrapeAndShow(t *testing.T) {
	out := t.TempDir()

	if _, err := run(t, "scrape", "--variant", "all", "--dir", fixtureDir, "--dir-2sai", fixtureDir, "--out", out); err != nil {
		t.Fatalf("scrape unexpected error: %v", err)
	}
	for _, name := range []string{"2024-03-31.json", "2024-03-31_2sai.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing report %s: %v", name, err)
		}
	}

	listing, err := run(t, "show", "--dir", out)
	if err != nil {
		t.Fatalf("show unexpected error: %v", err)
	}
	if diff := cmp.Diff("2024-03-31\n2024-03-31_2sai\n", listing); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestScrape_MissingDateWritesNothing(t *testing.T) {
	src := t.TempDir()
	data, err := os.ReadFile(filepath.Join(fixtureDir, "2.html"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "1.html"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()

	if _, err := run(t, "scrape", "--variant", "default", "--dir", src, "--out", out); err != nil {
		t.Fatalf("scrape without date should succeed, got %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("report dir has %d entries, want none", len(entries))
	}
}

func TestScrape_UnknownVariant(t *testing.T) {
	_, err := run(t, "scrape", "--variant", "3sai", "--dir", fixtureDir, "--out", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "3sai") {
		t.Errorf("error = %v, want unknown variant", err)
	}
	if code := models.Categorize(err).Code; code != models.ErrCodeInvalidInput {
		t.Errorf("code = %s, want %s", code, models.ErrCodeInvalidInput)
	}
}
