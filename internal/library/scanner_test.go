// This file tests the library scanner.

package library_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vrsandeep/mango-meta/internal/config"
	"github.com/vrsandeep/mango-meta/internal/library"
	"github.com/vrsandeep/mango-meta/internal/models"
)

func testConfig(root string, workers int) *config.Config {
	cfg := &config.Config{}
	cfg.Library.Path = root
	cfg.Scan.Workers = workers
	return cfg
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	series := filepath.Join(root, "Series A")
	require.NoError(t, os.MkdirAll(series, 0o755))

	createComic(t, series, "Vol 10.cbz")
	createComic(t, series, "Vol 2.cbz")
	createEPUB(t, root, "novel.epub")
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.cbz"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))

	for _, workers := range []int{1, 4} {
		s := library.NewScanner(testConfig(root, workers), zaptest.NewLogger(t))
		report, err := s.Scan(context.Background(), root)
		require.NoError(t, err)

		var paths []string
		for _, b := range report.Books {
			paths = append(paths, b.Path)
		}
		assert.Equal(t, []string{
			filepath.Join(root, "novel.epub"),
			filepath.Join(series, "Vol 2.cbz"),
			filepath.Join(series, "Vol 10.cbz"),
		}, paths)

		assert.Equal(t, "Unknown Series", report.Books[0].Folder)
		assert.Equal(t, "Series A", report.Books[1].Folder)
		assert.Equal(t, "Vol 2.cbz", report.Books[1].FileName)

		require.Len(t, report.BadFiles, 1)
		assert.Equal(t, "broken.cbz", report.BadFiles[0].FileName)
		assert.Equal(t, models.ErrorCorruptedArchive, report.BadFiles[0].Error)
	}
}

func TestScanPaths(t *testing.T) {
	root := t.TempDir()
	s := library.NewScanner(testConfig(root, 2), nil)

	t.Run("No paths", func(t *testing.T) {
		report, err := s.ScanPaths(context.Background(), root, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Books)
		assert.Empty(t, report.BadFiles)
	})

	t.Run("Removed file is reported", func(t *testing.T) {
		kept := createComic(t, root, "kept.cbz")
		gone := filepath.Join(root, "gone.cbz")

		report, err := s.ScanPaths(context.Background(), root, []string{gone, kept})
		require.NoError(t, err)
		require.Len(t, report.Books, 1)
		assert.Equal(t, kept, report.Books[0].Path)
		require.Len(t, report.BadFiles, 1)
		assert.Equal(t, models.ErrorIOError, report.BadFiles[0].Error)
	})
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	createComic(t, root, "a.cbz")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := library.NewScanner(testConfig(root, 2), nil)
	_, err := s.Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.ScanPaths(ctx, root, []string{filepath.Join(root, "a.cbz")})
	assert.ErrorIs(t, err, context.Canceled)
}
