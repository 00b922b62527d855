package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Leading.StartURL != "https://www.jra.go.jp/datafile/leading/" {
		t.Errorf("StartURL = %q", cfg.Leading.StartURL)
	}
	if cfg.Leading.NextLabel != "次の20件" {
		t.Errorf("NextLabel = %q", cfg.Leading.NextLabel)
	}
	if cfg.Leading.PageDelay != time.Second {
		t.Errorf("PageDelay = %s, want 1s", cfg.Leading.PageDelay)
	}
	if cfg.Output.ReportDir != "." {
		t.Errorf("ReportDir = %q, want %q", cfg.Output.ReportDir, ".")
	}
	if diff := cmp.Diff([]string{"Image", "Font", "Media"}, cfg.Browser.BlockedResourceTypes); diff != "" {
		t.Errorf("BlockedResourceTypes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LEADING_PORT", "9090")
	t.Setenv("LEADING_PAGE_DELAY", "2500ms")
	t.Setenv("LEADING_DIR", "/data/sire")
	t.Setenv("LEADING_DIR_2SAI", "/data/sire-2sai")
	t.Setenv("LEADING_API_KEYS", " a , b,,c ")
	t.Setenv("LEADING_HEADLESS", "false")
	t.Setenv("LEADING_RATE_RPS", "1.5")
	t.Setenv("LEADING_DRIFT_THRESHOLD", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Leading.PageDelay != 2500*time.Millisecond {
		t.Errorf("PageDelay = %s, want 2.5s", cfg.Leading.PageDelay)
	}
	if cfg.Browser.Headless {
		t.Error("Headless = true, want false")
	}
	if cfg.RateLimit.RequestsPerSecond != 1.5 {
		t.Errorf("RequestsPerSecond = %v, want 1.5", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Leading.DriftThreshold != 12 {
		t.Errorf("DriftThreshold = %d, want fallback 12", cfg.Leading.DriftThreshold)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, cfg.Auth.APIKeys); diff != "" {
		t.Errorf("APIKeys mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Leading.SnapshotDirFor("2sai"); got != "/data/sire-2sai" {
		t.Errorf("SnapshotDirFor(2sai) = %q", got)
	}
	if got := cfg.Leading.SnapshotDirFor("default"); got != "/data/sire" {
		t.Errorf("SnapshotDirFor(default) = %q", got)
	}
}
