package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gifmill/internal/logging"
	"gifmill/internal/mediatypes"
	"gifmill/internal/metrics"
)

// Scanner enumerates video files under a fixed set of root directories.
type Scanner struct {
	roots []string
}

// New creates a Scanner over the given roots.
func New(roots []string) *Scanner {
	return &Scanner{roots: roots}
}

// Scan walks every root and returns the sorted list of video files present
// for this cycle. A missing root is skipped with a warning, as is any
// unreadable directory or entry; Scan itself never fails. Cancelling ctx
// aborts the walk early, returning whatever was found so far.
func (s *Scanner) Scan(ctx context.Context) []string {
	var files []string

	for _, root := range s.roots {
		info, err := os.Stat(root)
		if err != nil {
			logging.Warn("Skipping root %s: %v", root, err)
			metrics.ScanErrorsTotal.Inc()
			continue
		}
		if !info.IsDir() {
			logging.Warn("Skipping root %s: not a directory", root)
			metrics.ScanErrorsTotal.Inc()
			continue
		}
		files = append(files, s.scanRoot(ctx, root)...)
	}

	sort.Strings(files)
	return files
}

func (s *Scanner) scanRoot(ctx context.Context, root string) []string {
	var files []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			logging.Warn("Scan error under %s: %v", path, err)
			metrics.ScanErrorsTotal.Inc()
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Hidden entries are never candidates; this also keeps palette
		// scratch files out of scan results.
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if mediatypes.IsVideo(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		logging.Warn("Scan of %s aborted: %v", root, walkErr)
		metrics.ScanErrorsTotal.Inc()
	}

	return files
}
