// Package container gives read access to the entries of a book file: the
// members of a comic or EPUB archive, or the single entry of a plain
// document such as a PDF.
package container

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/util"
)

// ErrEntryNotFound is returned by ReadEntry for names the container does not hold.
var ErrEntryNotFound = errors.New("container: entry not found")

// ErrEmpty is returned when an archive holds no files at all.
var ErrEmpty = errors.New("container: archive is empty")

// Container is an opened book file.
type Container struct {
	name    string
	entries []string
	archive bool
	read    func(name string) ([]byte, error)
}

// Open opens the book file at path. Archives (zip, rar, 7z, tar and their
// comic aliases) expose their members; any other file is exposed as a single
// entry named after the file.
func Open(ctx context.Context, filePath string) (*Container, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open %s: is a directory", filePath)
	}

	isArchive, err := identify(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if !isArchive {
		return single(filePath), nil
	}

	fsys, err := archives.FileSystem(ctx, filePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", filePath, err)
	}
	c, err := New(filepath.Base(filePath), fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", filePath, err)
	}
	return c, nil
}

// identify reports whether the file is an archive that can be listed.
func identify(ctx context.Context, filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	format, _, err := archives.Identify(ctx, filepath.Base(filePath), f)
	if errors.Is(err, archives.NoMatch) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to identify %s: %w", filePath, err)
	}
	_, ok := format.(archives.Extractor)
	return ok, nil
}

// New lists every regular file of fsys. Entries are ordered naturally by
// path, so "page2.jpg" comes before "page10.jpg".
func New(name string, fsys fs.FS) (*Container, error) {
	var entries []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && d.Name() == "__MACOSX" {
				return fs.SkipDir
			}
			return nil
		}
		if !util.IsJunkEntry(p) {
			entries = append(entries, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	util.SortEntries(entries)

	return &Container{
		name:    name,
		entries: entries,
		archive: true,
		read: func(entry string) ([]byte, error) {
			data, err := fs.ReadFile(fsys, entry)
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
			}
			return data, err
		},
	}, nil
}

func single(filePath string) *Container {
	base := filepath.Base(filePath)
	return &Container{
		name:    base,
		entries: []string{base},
		read: func(entry string) ([]byte, error) {
			if entry != base {
				return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
			}
			return os.ReadFile(filePath)
		},
	}
}

// Name is the base name of the opened file.
func (c *Container) Name() string { return c.name }

// IsArchive reports whether the entries come from an archive rather than a
// plain file exposed as its own single entry.
func (c *Container) IsArchive() bool { return c.archive }

// Entries returns the entry names in reading order.
func (c *Container) Entries() []string {
	return append([]string(nil), c.entries...)
}

// ReadEntry returns the content of the named entry.
func (c *Container) ReadEntry(name string) ([]byte, error) {
	return c.read(strings.TrimPrefix(name, "/"))
}

// Find returns the entry whose base name matches name, ignoring case. When
// several match, the one closest to the root wins.
func (c *Container) Find(name string) (string, bool) {
	return FindEntry(c.entries, name)
}

// FindEntry is Find over a plain list of entry names.
func FindEntry(entries []string, name string) (string, bool) {
	best, bestDepth := "", -1
	for _, e := range entries {
		if !strings.EqualFold(path.Base(e), name) {
			continue
		}
		depth := strings.Count(e, "/")
		if bestDepth < 0 || depth < bestDepth {
			best, bestDepth = e, depth
		}
	}
	return best, bestDepth >= 0
}

// Pages returns the image entries in reading order.
func (c *Container) Pages() []*models.Page {
	return ImagePages(c.entries)
}

// ImagePages picks the image entries out of entries, keeping their order.
func ImagePages(entries []string) []*models.Page {
	var pages []*models.Page
	for _, e := range entries {
		if !IsImageFile(e) {
			continue
		}
		pages = append(pages, &models.Page{FileName: e, Index: len(pages)})
	}
	return pages
}

// IsImageFile checks if a filename has a common image file extension.
func IsImageFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".bmp":
		return true
	}
	return false
}

// MediaType returns the image media type implied by the entry's extension.
func MediaType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	case ".bmp":
		return "image/bmp"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
