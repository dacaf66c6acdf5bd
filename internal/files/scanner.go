package files

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// DefaultScanLimit is the maximum number of records a scan returns
	DefaultScanLimit = 50
	// DefaultMaxEntries bounds how many directory entries one scan may visit
	DefaultMaxEntries = 100000
)

// Stop reasons reported when a walk ends early
const (
	stopLimit     = "limit"
	stopMaxVisits = "max_entries"
	stopCanceled  = "canceled"
)

// ScanOptions bounds a scan
type ScanOptions struct {
	Limit      int
	MaxEntries int
}

// Scanner walks a directory tree collecting files the extension set matches
type Scanner struct {
	exts   *ExtensionSet
	opts   ScanOptions
	logger *zap.Logger
}

// NewScanner creates a new scanner. Zero option values fall back to defaults.
func NewScanner(exts *ExtensionSet, opts ScanOptions, logger *zap.Logger) *Scanner {
	if opts.Limit <= 0 {
		opts.Limit = DefaultScanLimit
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		exts:   exts,
		opts:   opts,
		logger: logger,
	}
}

// Limit returns the maximum number of records per scan
func (s *Scanner) Limit() int {
	return s.opts.Limit
}

// Scan returns up to Limit matching files under root in traversal order.
// A root that does not exist yields an empty slice. Unreadable entries are
// logged and skipped, and the walk stops as soon as the limit is reached.
func (s *Scanner) Scan(ctx context.Context, root string) []FileRecord {
	return s.walk(ctx, root).files
}

type walkResult struct {
	files   []FileRecord
	visited int
	stopped string
}

func (s *Scanner) walk(ctx context.Context, root string) walkResult {
	res := walkResult{files: []FileRecord{}}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		s.logger.Warn("Invalid scan path", zap.String("path", root), zap.Error(err))
		return res
	}

	s.logger.Debug("Scanning path", zap.String("path", absRoot))

	info, err := os.Stat(absRoot)
	if err != nil {
		s.logger.Info("Path does not exist", zap.String("path", absRoot), zap.Error(err))
		return res
	}

	walkRoot := absRoot
	if linfo, err := os.Lstat(absRoot); err == nil && linfo.Mode()&fs.ModeSymlink != 0 && info.IsDir() {
		// A trailing separator makes WalkDir descend into a symlinked root (e.g. /sdcard)
		walkRoot = absRoot + string(filepath.Separator)
	}

	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.stopped = stopCanceled
			return filepath.SkipAll
		}

		res.visited++
		if res.visited > s.opts.MaxEntries {
			res.stopped = stopMaxVisits
			return filepath.SkipAll
		}

		if err != nil {
			// Directory contents (or the entry itself) could not be read
			s.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}

		if d.IsDir() || !s.exts.Match(d.Name()) {
			return nil
		}

		size, ok := s.fileSize(path, d)
		if !ok {
			return nil
		}

		res.files = append(res.files, FileRecord{
			Name: d.Name(),
			Path: path,
			Size: size,
		})

		if len(res.files) >= s.opts.Limit {
			res.stopped = stopLimit
			return filepath.SkipAll
		}
		return nil
	})

	switch res.stopped {
	case stopMaxVisits, stopCanceled:
		s.logger.Warn("Scan truncated",
			zap.String("path", absRoot),
			zap.String("reason", res.stopped),
			zap.Int("visited", res.visited),
			zap.Int("found", len(res.files)))
	default:
		s.logger.Info("Scan finished",
			zap.String("path", absRoot),
			zap.Int("visited", res.visited),
			zap.Int("found", len(res.files)),
			zap.Bool("limit_reached", res.stopped == stopLimit))
	}

	return res
}

// fileSize returns the byte size of a regular file or of a symlink's target.
// Anything else, including broken links, is skipped.
func (s *Scanner) fileSize(path string, d fs.DirEntry) (int64, bool) {
	var (
		info fs.FileInfo
		err  error
	)
	if d.Type()&fs.ModeSymlink != 0 {
		info, err = os.Stat(path)
	} else {
		info, err = d.Info()
	}
	if err != nil {
		s.logger.Warn("Error accessing file", zap.String("path", path), zap.Error(err))
		return 0, false
	}
	if !info.Mode().IsRegular() {
		return 0, false
	}
	return info.Size(), true
}
