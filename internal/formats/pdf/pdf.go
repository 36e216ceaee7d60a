// Package pdf reads PDF documents through MuPDF.
package pdf

import (
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/metadata"
	"github.com/vrsandeep/mango-meta/internal/models"
)

// MediaType is the media type of cover requests that name a PDF page.
const MediaType = "application/pdf"

// Format opens PDF documents.
type Format struct{}

// New returns the PDF format.
func New() *Format {
	return &Format{}
}

// GetInfo returns the format's static information.
func (f *Format) GetInfo() models.FormatInfo {
	return models.FormatInfo{
		ID:         "pdf",
		Name:       "PDF",
		Extensions: []string{".pdf"},
	}
}

// Open reads the document's info dictionary, page count and page text.
func (f *Format) Open(c models.Container) (models.Module, error) {
	log := zap.L().Named("pdf")

	entry, err := documentEntry(c.Entries())
	if err != nil {
		return nil, err
	}
	data, err := c.ReadEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("pdf: read %s: %w", entry, err)
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("pdf: open %s: %w", entry, err)
	}
	defer doc.Close()

	m := &Module{
		entry: entry,
		info:  metadata.ParsePDFInfo(doc.Metadata()),
		pages: doc.NumPage(),
	}
	for i := 0; i < m.pages; i++ {
		text, err := doc.Text(i)
		if err != nil {
			log.Debug("Skipping page without extractable text", zap.Int("page", i), zap.Error(err))
			continue
		}
		m.words += len(strings.Fields(text))
	}
	return m, nil
}

// documentEntry picks the PDF inside the container; a single-entry container
// is taken as is.
func documentEntry(entries []string) (string, error) {
	for _, e := range entries {
		if strings.EqualFold(path.Ext(e), ".pdf") {
			return e, nil
		}
	}
	if len(entries) == 1 {
		return entries[0], nil
	}
	return "", fmt.Errorf("pdf: no document among %d entries", len(entries))
}

// Module is one opened PDF document.
type Module struct {
	entry string
	info  metadata.PDFInfo
	pages int
	words int
}

// ToBook maps the info dictionary onto a Book.
func (m *Module) ToBook() *models.Book {
	b := models.NewBook()
	b.Title = models.ClonePtr(m.info.Title)
	b.Summary = models.ClonePtr(m.info.Subject)
	b.Date = models.ClonePtr(m.info.Created)
	b.Writers = append(b.Writers, m.info.Authors...)
	b.Genres = append(b.Genres, m.info.Keywords...)

	if m.info.Creator != nil {
		b.Extras["creator"] = *m.info.Creator
	}
	if m.info.Producer != nil {
		b.Extras["producer"] = *m.info.Producer
	}
	if m.info.Modified != nil {
		b.Extras["modified"] = *m.info.Modified
	}
	return b
}

// ToCover names the first page of the document.
func (m *Module) ToCover() *models.CoverRequest {
	if m.pages == 0 {
		return nil
	}
	return &models.CoverRequest{Entry: m.entry, MediaType: MediaType, Page: 0}
}

// ToCounts reports the page count and the words of the extractable text.
func (m *Module) ToCounts() *models.Book {
	b := models.NewBook()
	pages, words := m.pages, m.words
	b.PageCount = &pages
	b.WordCount = &words
	return b
}

// ToMap returns the parsed info dictionary.
func (m *Module) ToMap() models.OrderedMap {
	return m.info.ToMap()
}

// RenderPage rasterizes one page of a PDF document.
func RenderPage(data []byte, page int) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("pdf: open: %w", err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("pdf: page %d out of range (%d pages)", page, doc.NumPage())
	}
	img, err := doc.Image(page)
	if err != nil {
		return nil, fmt.Errorf("pdf: render page %d: %w", page, err)
	}
	return img, nil
}
