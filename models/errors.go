package models

import (
	"context"
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeMalformedCell     = "MALFORMED_CELL"
	ErrCodeMalformedRow      = "MALFORMED_ROW"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeLayoutChanged     = "LAYOUT_CHANGED"
	ErrCodeTimeout           = "SCRAPE_TIMEOUT"
	ErrCodeBrowserCrash      = "BROWSER_CRASH"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// MalformedCellError reports cell text that cannot be coerced to its type.
type MalformedCellError struct {
	Text   string // raw cell text
	Reason string
	Err    error
}

func (e *MalformedCellError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed cell %q: %s: %v", e.Text, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed cell %q: %s", e.Text, e.Reason)
}

func (e *MalformedCellError) Unwrap() error {
	return e.Err
}

// MalformedRowError reports a leaderboard row that could not be parsed.
// Either Cells is short of the expected column count, or Column/Field/Text
// identify the offending cell and Err holds the *MalformedCellError.
type MalformedRowError struct {
	Source string // file name or "page N"; filled in by the walker
	Row    int    // 0-based index among data rows of the fragment
	Column int    // -1 when the row as a whole is malformed
	Field  string
	Text   string
	Cells  int
	Err    error
}

func (e *MalformedRowError) Error() string {
	where := fmt.Sprintf("row %d", e.Row)
	if e.Source != "" {
		where = e.Source + " " + where
	}
	if e.Column < 0 {
		return fmt.Sprintf("malformed row (%s): got %d cells", where, e.Cells)
	}
	return fmt.Sprintf("malformed row (%s): column %d (%s) %q: %v", where, e.Column, e.Field, e.Text, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

// SourceUnavailableError reports that the next fragment could not be
// produced: unreadable directory or file, failed navigation or click.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable (%s): %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// Categorize maps any error onto a *ScrapeError so callers can report a
// stable code.
func Categorize(err error) *ScrapeError {
	var scrapeErr *ScrapeError
	var rowErr *MalformedRowError
	var cellErr *MalformedCellError
	var srcErr *SourceUnavailableError

	switch {
	case errors.As(err, &rowErr):
		return NewScrapeError(ErrCodeMalformedRow, rowErr.Error(), err)
	case errors.As(err, &cellErr):
		return NewScrapeError(ErrCodeMalformedCell, cellErr.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewScrapeError(ErrCodeTimeout, "scrape timed out", err)
	case errors.Is(err, context.Canceled):
		return NewScrapeError(ErrCodeTimeout, "scrape canceled", err)
	case errors.As(err, &srcErr):
		return NewScrapeError(ErrCodeSourceUnavailable, srcErr.Error(), err)
	case errors.As(err, &scrapeErr):
		return scrapeErr
	default:
		return NewScrapeError(ErrCodeInternal, err.Error(), err)
	}
}
