package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/leading/api"
	"github.com/use-agent/leading/cache"
	"github.com/use-agent/leading/config"
	"github.com/use-agent/leading/store"
)

const testKey = "mcp-key"

func newAPI(t *testing.T) string {
	t.Helper()
	cfg := config.Load()
	cfg.Server.Mode = gin.TestMode
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{testKey}}
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100}
	cfg.Webhook = config.WebhookConfig{}

	router := api.NewRouter(cfg, api.Deps{Store: store.New(t.TempDir()), Cache: cache.New(4)}, time.Now())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestScrapeThenGetReport(t *testing.T) {
	apiURL := newAPI(t)

	out, isErr := call(t, handleScrape(apiURL, testKey), map[string]any{
		"dir":   "../../api/testdata/sire",
		"write": true,
		"limit": float64(2),
	})
	if isErr {
		t.Fatalf("scrape failed: %s", out)
	}
	for _, want := range []string{"As of: 2024-03-31", "Rows: 5", "Report: 2024-03-31", "キズナ", "3 more rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape output missing %q:\n%s", want, out)
		}
	}

	out, isErr = call(t, handleListReports(apiURL, testKey), nil)
	if isErr || strings.TrimSpace(out) != "2024-03-31" {
		t.Errorf("list_reports = %q (error %v)", out, isErr)
	}

	out, isErr = call(t, handleGetReport(apiURL, testKey), map[string]any{"key": "2024-03-31"})
	if isErr || !strings.Contains(out, "ハーツクライ") {
		t.Errorf("get_report output:\n%s", out)
	}
}

func TestGetReport_Errors(t *testing.T) {
	apiURL := newAPI(t)
	h := handleGetReport(apiURL, testKey)

	if out, isErr := call(t, h, nil); !isErr || out != "key is required" {
		t.Errorf("missing key = %q, %v", out, isErr)
	}
	if out, isErr := call(t, h, map[string]any{"key": "2020-01-01"}); !isErr || !strings.Contains(out, "NOT_FOUND") {
		t.Errorf("unknown report = %q, %v", out, isErr)
	}
}

func TestScrape_WrongKey(t *testing.T) {
	apiURL := newAPI(t)

	out, isErr := call(t, handleScrape(apiURL, "wrong"), map[string]any{"dir": "../../api/testdata/sire"})
	if !isErr || !strings.Contains(out, "UNAUTHORIZED") {
		t.Errorf("wrong key = %q, %v", out, isErr)
	}
}

func TestNewServer(t *testing.T) {
	s := newServer("http://127.0.0.1:0", testKey)
	if s == nil {
		t.Fatal("newServer returned nil")
	}
}
