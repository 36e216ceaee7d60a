// This file contains the main logic for scanning a library directory.
// It walks the directory tree, picks out supported book files and reads
// them with a bounded pool of workers.

package library

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/config"
	"github.com/vrsandeep/mango-meta/internal/formats"
	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/util"
)

// Report is the outcome of a scan. Books and BadFiles are ordered naturally
// by path.
type Report struct {
	Books    []*Result        `json:"books"`
	BadFiles []models.BadFile `json:"bad_files"`
}

// Scanner reads every supported book below a directory.
type Scanner struct {
	cfg *config.Config
	log *zap.Logger
}

// NewScanner creates a new Scanner instance.
func NewScanner(cfg *config.Config, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{cfg: cfg, log: log.Named("scanner")}
}

// Scan reads every supported file below root.
func (s *Scanner) Scan(ctx context.Context, root string) (*Report, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && formats.IsSupported(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Discovered book files", zap.String("root", root), zap.Int("files", len(paths)))
	return s.ScanPaths(ctx, root, paths)
}

// ScanPaths reads the given files. root is used for the folder hints only.
func (s *Scanner) ScanPaths(ctx context.Context, root string, paths []string) (*Report, error) {
	workers := s.cfg.Scan.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = max(len(paths), 1)
	}

	report := &Report{Books: []*Result{}, BadFiles: []models.BadFile{}}
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan string)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				res, err := ReadBook(ctx, path)
				if ctx.Err() != nil {
					continue
				}

				mu.Lock()
				if err != nil {
					bf := NewBadFile(path, err)
					s.log.Warn("Skipping unreadable book",
						zap.String("path", path),
						zap.String("category", string(bf.Error)),
						zap.Error(err))
					report.BadFiles = append(report.BadFiles, bf)
				} else {
					res.Folder, res.FileName = ExtractMetadataFromPath(path, root)
					s.log.Debug("Read book", zap.String("path", path), zap.String("format", res.Format.ID))
					report.Books = append(report.Books, res)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(report.Books, func(i, j int) bool {
		return util.NaturalSortLess(report.Books[i].Path, report.Books[j].Path)
	})
	sort.Slice(report.BadFiles, func(i, j int) bool {
		return util.NaturalSortLess(report.BadFiles[i].Path, report.BadFiles[j].Path)
	})

	s.log.Info("Scan finished",
		zap.Int("books", len(report.Books)),
		zap.Int("bad_files", len(report.BadFiles)))
	return report, nil
}
