// This file reads a single book file: it picks the format from the file
// extension, opens the container and maps the format's metadata onto a Book.

package library

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"path/filepath"

	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/formats"
	"github.com/vrsandeep/mango-meta/internal/formats/pdf"
	"github.com/vrsandeep/mango-meta/internal/models"
)

// ErrNotArchive is returned when a file whose format lives in an archive
// (a comic or an EPUB) cannot be read as one.
var ErrNotArchive = errors.New("not a valid archive")

// ErrNoCover is returned by ReadCover for books without a cover.
var ErrNoCover = errors.New("book has no cover")

// Result is everything read from one book file.
type Result struct {
	Path     string
	Format   models.FormatInfo
	Book     *models.Book
	Cover    *models.CoverRequest
	Metadata models.OrderedMap
	// Hash identifies the book by its cover bytes and file name, so a moved
	// file keeps its hash.
	Hash string
	// Folder and FileName are hints derived from the path during a scan.
	Folder   string
	FileName string
}

// ToMap returns the result as an ordered key/value list.
func (r *Result) ToMap() models.OrderedMap {
	m := models.OrderedMap{
		{Key: "path", Value: r.Path},
		{Key: "format", Value: r.Format.ID},
		{Key: "hash", Value: r.Hash},
		{Key: "book", Value: r.Book.ToMap()},
		{Key: "cover", Value: r.Cover},
		{Key: "metadata", Value: r.Metadata},
	}
	if r.Folder != "" {
		m = append(m, models.Field{Key: "folder", Value: r.Folder})
	}
	if r.FileName != "" {
		m = append(m, models.Field{Key: "fileName", Value: r.FileName})
	}
	return m
}

// MarshalJSON encodes the result in ToMap order.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

type openedBook struct {
	format    models.Format
	container *container.Container
	module    models.Module
}

func openBook(ctx context.Context, filePath string) (*openedBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := formats.ForPath(filePath)
	if err != nil {
		return nil, err
	}
	c, err := container.Open(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if f.GetInfo().Archive && !c.IsArchive() {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, ErrNotArchive)
	}
	m, err := f.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return &openedBook{format: f, container: c, module: m}, nil
}

// ReadBook reads the metadata, counts and cover location of the book at
// filePath.
func ReadBook(ctx context.Context, filePath string) (*Result, error) {
	b, err := openBook(ctx, filePath)
	if err != nil {
		return nil, err
	}

	book := b.module.ToBook()
	book.ApplyCounts(b.module.ToCounts())
	cover := b.module.ToCover()

	var coverData []byte
	if cover != nil {
		// A cover that cannot be read still leaves a usable hash.
		coverData, _ = b.container.ReadEntry(cover.Entry)
	}

	return &Result{
		Path:     filePath,
		Format:   b.format.GetInfo(),
		Book:     book,
		Cover:    cover,
		Metadata: b.module.ToMap(),
		Hash:     generateContentHash(coverData, filepath.Base(filePath)),
	}, nil
}

// ReadCover decodes the cover image of the book at filePath. Document covers
// are rendered from their page.
func ReadCover(ctx context.Context, filePath string) (image.Image, *models.CoverRequest, error) {
	b, err := openBook(ctx, filePath)
	if err != nil {
		return nil, nil, err
	}
	cover := b.module.ToCover()
	if cover == nil {
		return nil, nil, ErrNoCover
	}

	data, err := b.container.ReadEntry(cover.Entry)
	if err != nil {
		return nil, cover, fmt.Errorf("failed to read cover %s: %w", cover.Entry, err)
	}

	var img image.Image
	if cover.MediaType == pdf.MediaType {
		img, err = pdf.RenderPage(data, cover.Page)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, cover, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, cover, nil
}

func generateContentHash(data []byte, filename string) string {
	hasher := sha1.New()
	hasher.Write(data)
	hasher.Write([]byte(filename))
	return hex.EncodeToString(hasher.Sum(nil))
}
