package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/trend"
)

func main() {
	apiURL := os.Getenv("LEADING_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("LEADING_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "LEADING_API_KEY is required")
		os.Exit(1)
	}

	if err := server.ServeStdio(newServer(apiURL, apiKey)); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(apiURL, apiKey string) *server.MCPServer {
	s := server.NewMCPServer(
		"leading",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape_leaderboard",
		mcp.WithDescription("Scrape the JRA leading sire leaderboard (rank, name, birth year, runners, wins, prize money, win rate, earning index) from the live site or a snapshot directory on the server."),
		mcp.WithString("variant",
			mcp.Description("Leaderboard: 'default' (all ages) or '2sai' (two-year-olds)"),
			mcp.Enum("default", "2sai"),
		),
		mcp.WithString("dir",
			mcp.Description("Snapshot directory on the server holding 1.html, 2.html, ...; omit to scrape the live site"),
		),
		mcp.WithBoolean("write",
			mcp.Description("Save the result as a dated report when the as-of date was found"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rows to show (default: 20)"),
		),
	)
	s.AddTool(scrapeTool, handleScrape(apiURL, apiKey))

	listTool := mcp.NewTool("list_reports",
		mcp.WithDescription("List the keys of saved leaderboard reports, e.g. 2024-03-31 or 2024-03-31_2sai."),
	)
	s.AddTool(listTool, handleListReports(apiURL, apiKey))

	reportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Show a saved leaderboard report as a table."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Report key: YYYY-MM-DD, optionally suffixed with _2sai"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rows to show (default: 20)"),
		),
	)
	s.AddTool(reportTool, handleGetReport(apiURL, apiKey))

	return s
}

// apiDo sends a request to the Leading API and returns the response body.
func apiDo(ctx context.Context, client *http.Client, method, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// errorText formats an API error detail for the tool result.
func errorText(fallback string, d *models.ErrorDetail) string {
	if d == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// limitArg reads the optional "limit" argument.
func limitArg(request mcp.CallToolRequest) int {
	limit := int(request.GetFloat("limit", 20))
	if limit < 1 {
		limit = 20
	}
	return limit
}

// renderRecords renders at most limit rows with a note about the remainder.
func renderRecords(title string, records []models.SireRecord, limit int) string {
	var sb strings.Builder
	shown := records
	if len(shown) > limit {
		shown = shown[:limit]
	}
	trend.RenderRecords(&sb, title, shown)
	if rest := len(records) - len(shown); rest > 0 {
		fmt.Fprintf(&sb, "\n... %d more rows\n", rest)
	}
	return sb.String()
}

func handleScrape(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqBody := models.ScrapeRequest{
			Variant: request.GetString("variant", ""),
			Dir:     request.GetString("dir", ""),
			Write:   request.GetBool("write", false),
		}

		respBody, err := apiDo(ctx, client, http.MethodPost, apiURL, apiKey, "/api/v1/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scrape request failed: %v", err)), nil
		}

		var scrapeResp models.ScrapeResponse
		if err := json.Unmarshal(respBody, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !scrapeResp.Success {
			return mcp.NewToolResultError(errorText("scrape failed", scrapeResp.Error)), nil
		}

		// Header line, then the table.
		var sb strings.Builder
		fmt.Fprintf(&sb, "Variant: %s\nAs of: %s\nOutcome: %s\nPages: %d\nRows: %d\n",
			scrapeResp.Variant, orDash(scrapeResp.AsOfDate), scrapeResp.Outcome, scrapeResp.Fragments, scrapeResp.Count)
		if scrapeResp.ReportKey != "" {
			fmt.Fprintf(&sb, "Report: %s\n", scrapeResp.ReportKey)
		}
		if scrapeResp.Outcome == string(models.OutcomeMissingDate) {
			sb.WriteString("Warning: no as-of date found; the leaderboard layout may have changed.\n")
		}
		sb.WriteString("\n")
		sb.WriteString(renderRecords(scrapeResp.AsOfDate, scrapeResp.Records, limitArg(request)))

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleListReports(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		respBody, err := apiDo(ctx, client, http.MethodGet, apiURL, apiKey, "/api/v1/reports", nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list request failed: %v", err)), nil
		}

		var listResp models.ReportsResponse
		if err := json.Unmarshal(respBody, &listResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !listResp.Success {
			return mcp.NewToolResultError(errorText("list failed", listResp.Error)), nil
		}
		if len(listResp.Keys) == 0 {
			return mcp.NewToolResultText("No reports saved yet."), nil
		}
		return mcp.NewToolResultText(strings.Join(listResp.Keys, "\n")), nil
	}
}

func handleGetReport(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := request.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError("key is required"), nil
		}

		respBody, err := apiDo(ctx, client, http.MethodGet, apiURL, apiKey, "/api/v1/reports/"+url.PathEscape(key), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report request failed: %v", err)), nil
		}

		var reportResp models.ReportResponse
		if err := json.Unmarshal(respBody, &reportResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !reportResp.Success {
			return mcp.NewToolResultError(errorText("report failed", reportResp.Error)), nil
		}

		return mcp.NewToolResultText(renderRecords(reportResp.Key, reportResp.Records, limitArg(request))), nil
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
