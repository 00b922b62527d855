package leaderboard

import (
	"bytes"
	"cmp"
	"context"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/use-agent/leading/models"
)

const snapshotExt = ".html"

// snapshotKeyPattern extracts the page number a snapshot file name ends with.
var snapshotKeyPattern = regexp.MustCompile(`([0-9]+)\.html$`)

// SnapshotKey returns the ordering key of a snapshot file name: the run of
// digits directly before ".html", or 1 when there is none.
func SnapshotKey(name string) int {
	m := snapshotKeyPattern.FindStringSubmatch(name)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// SortSnapshots orders snapshot file names by SnapshotKey ascending. Names
// with equal keys keep their relative order.
func SortSnapshots(names []string) {
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(SnapshotKey(a), SnapshotKey(b))
	})
}

// LocalSource replays a directory of saved leaderboard pages.
type LocalSource struct {
	dir   string
	files []string
	next  int
}

// NewLocalSource lists the regular *.html files of dir in page order.
func NewLocalSource(dir string) (*LocalSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &models.SourceUnavailableError{Source: dir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		if !isRegular(dir, e) {
			continue
		}
		files = append(files, e.Name())
	}
	SortSnapshots(files)

	return &LocalSource{dir: dir, files: files}, nil
}

// Files returns the snapshot names in the order they will be visited.
func (s *LocalSource) Files() []string {
	return slices.Clone(s.files)
}

// Next reads the following snapshot. prev is unused: file order is fixed
// at construction.
func (s *LocalSource) Next(ctx context.Context, _ *Fragment) (*Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.files) {
		return nil, nil
	}
	name := s.files[s.next]
	s.next++

	markup, err := readSnapshot(filepath.Join(s.dir, name))
	if err != nil {
		return nil, &models.SourceUnavailableError{Source: name, Err: err}
	}
	return &Fragment{Name: name, Markup: markup}, nil
}

// readSnapshot reads an HTML file and decodes it to UTF-8 using its BOM or
// meta charset declaration.
func readSnapshot(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	r, err := charset.NewReader(bytes.NewReader(raw), "text/html")
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// isRegular reports whether e is a regular file, following symlinks.
func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}
