// Package store persists leaderboard reports as <key>.json files and saves
// raw page snapshots for later replay.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/use-agent/leading/models"
)

const reportExt = ".json"

// keyPattern accepts report keys such as "2024-03-31" and "2024-03-31_2sai".
var keyPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}(_[a-z0-9]+)?$`)

// ValidKey reports whether key can name a report file.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Store reads and writes reports in one directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Dir returns the report directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path of the report named key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+reportExt)
}

// Write stores records as a pretty-printed JSON array under key, replacing
// any existing report. The file is replaced atomically.
func (s *Store) Write(key string, records []models.SireRecord) (string, error) {
	if !ValidKey(key) {
		return "", models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("invalid report key %q", key), nil)
	}
	if records == nil {
		records = []models.SireRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report %s: %w", key, err)
	}
	data = append(data, '\n')

	path := s.Path(key)
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("write report %s: %w", key, err)
	}
	slog.Info("report written", "key", key, "path", path, "records", len(records))
	return path, nil
}

// SaveResult writes a completed scrape. It returns "" without writing when
// the result carries no as-of date.
func (s *Store) SaveResult(result *models.ScrapeResult) (string, error) {
	if !result.Writable() {
		return "", nil
	}
	return s.Write(result.OutputKey(), result.Records)
}

// Read loads the report named key.
func (s *Store) Read(key string) ([]models.SireRecord, error) {
	if !ValidKey(key) {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("invalid report key %q", key), nil)
	}
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.NewScrapeError(models.ErrCodeNotFound, fmt.Sprintf("report %s not found", key), err)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", key, err)
	}

	var records []models.SireRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", key, err)
	}
	return records, nil
}

// List returns the keys of all reports in the directory, sorted ascending.
// A missing directory holds no reports.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		key, ok := strings.CutSuffix(e.Name(), reportExt)
		if ok && ValidKey(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// SaveSnapshot writes one captured page as <dir>/<n>.html, where n is the
// 1-based page number, so a later local run replays pages in order.
func SaveSnapshot(dir string, page int, markup string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.html", page))
	if err := writeAtomic(path, []byte(markup)); err != nil {
		return "", fmt.Errorf("write snapshot %d: %w", page, err)
	}
	return path, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	err = os.Rename(tmpName, path)
	return err
}
