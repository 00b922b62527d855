package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/use-agent/leading/models"
)

// EventReportWritten is sent after a leaderboard report file was written.
const EventReportWritten = "report.written"

// SignatureHeader carries the HMAC-SHA256 of the body as "sha256=<hex>".
const SignatureHeader = "X-Leading-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string      `json:"type"`
	ReportKey string      `json:"report_key"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// ReportWritten is the data of a report.written event.
type ReportWritten struct {
	Variant  string `json:"variant"`
	AsOfDate string `json:"as_of_date"`
	Records  int    `json:"records"`
	Path     string `json:"path"`
}

// NewReportWritten builds a report.written event.
func NewReportWritten(key string, data ReportWritten) *Event {
	return &Event{
		Type:      EventReportWritten,
		ReportKey: key,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

// NotifyReport delivers report.written for a saved result in the
// background. It does nothing when url is empty.
func NotifyReport(url, secret string, result *models.ScrapeResult, path string) {
	if url == "" || !result.Writable() {
		return
	}
	DeliverAsync(url, secret, NewReportWritten(result.OutputKey(), ReportWritten{
		Variant:  result.Variant.Name,
		AsOfDate: result.AsOfDate.Format(time.DateOnly),
		Records:  len(result.Records),
		Path:     path,
	}))
}

// Sign returns the signature header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Deliver sends a webhook event synchronously.
// The request body is signed with HMAC-SHA256 if secret is non-empty.
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Leading-Webhook/1.0")

	if secret != "" {
		req.Header.Set(SignatureHeader, Sign(secret, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// retryDelays are the waits before each delivery attempt.
var retryDelays = []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second}

// DeliverAsync sends a webhook event asynchronously with up to 3 retries.
func DeliverAsync(url, secret string, event *Event) {
	go func() {
		for attempt, delay := range retryDelays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := Deliver(ctx, url, secret, event)
			cancel()
			if err == nil {
				slog.Info("webhook delivered",
					"url", url,
					"event", event.Type,
					"report_key", event.ReportKey,
					"attempt", attempt+1,
				)
				return
			}
			slog.Warn("webhook delivery failed",
				"url", url,
				"event", event.Type,
				"report_key", event.ReportKey,
				"attempt", attempt+1,
				"error", err,
			)
		}
		slog.Error("webhook delivery exhausted all retries",
			"url", url,
			"event", event.Type,
			"report_key", event.ReportKey,
		)
	}()
}
