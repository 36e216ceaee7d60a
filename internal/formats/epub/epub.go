// Package epub reads EPUB 2 and EPUB 3 books through their OPF package
// document.
package epub

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/metadata"
	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/xmltree"
)

// ErrNoPackage is returned when a book has neither a usable
// META-INF/container.xml nor any .opf entry.
var ErrNoPackage = errors.New("epub: no package document")

const (
	containerPath = "META-INF/container.xml"
	packageType   = "application/oebps-package+xml"

	// wordsPerPage turns a word count into an estimated page count.
	wordsPerPage = 250
)

// Format opens EPUB books.
type Format struct{}

// New returns the EPUB format.
func New() *Format {
	return &Format{}
}

// GetInfo returns the format's static information.
func (f *Format) GetInfo() models.FormatInfo {
	return models.FormatInfo{
		ID:         "epub",
		Name:       "EPUB",
		Extensions: []string{".epub"},
		Archive:    true,
	}
}

// Open locates and parses the package document, then resolves the cover and
// counts the words of the reading order.
func (f *Format) Open(c models.Container) (models.Module, error) {
	m := &Module{
		c:       c,
		entries: c.Entries(),
		log:     zap.L().Named("epub"),
	}

	opfPath, err := m.packagePath()
	if err != nil {
		return nil, err
	}
	data, err := m.read(opfPath)
	if err != nil {
		return nil, fmt.Errorf("epub: read %s: %w", opfPath, err)
	}
	tree, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("epub: decode %s: %w", opfPath, err)
	}

	m.opfPath = opfPath
	m.opfDir = path.Dir(opfPath)
	m.pkg = metadata.ParsePackage(tree, m.log)
	m.cover = m.findCover()
	m.words = m.countWords()
	return m, nil
}

// Module is one opened EPUB book.
type Module struct {
	c       models.Container
	entries []string
	log     *zap.Logger

	opfPath string
	opfDir  string
	pkg     metadata.Package
	cover   *models.CoverRequest
	words   int
}

// packagePath finds the OPF through container.xml, preferring the rootfile
// with the OEBPS package media type, and falls back to the first .opf entry.
func (m *Module) packagePath() (string, error) {
	if name, ok := m.lookup(containerPath); ok {
		data, err := m.c.ReadEntry(name)
		if err != nil {
			return "", fmt.Errorf("epub: read %s: %w", name, err)
		}
		tree, err := xmltree.Parse(data)
		if err != nil {
			return "", fmt.Errorf("epub: decode %s: %w", name, err)
		}

		var fallback string
		for _, rf := range tree.FindAll(".//rootfile") {
			fullPath := strings.TrimSpace(rf.SelectAttrValue("full-path", ""))
			if fullPath == "" {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(rf.SelectAttrValue("media-type", "")), packageType) {
				return fullPath, nil
			}
			if fallback == "" {
				fallback = fullPath
			}
		}
		if fallback != "" {
			return fallback, nil
		}
		m.log.Debug("container.xml lists no rootfile")
	}

	for _, e := range m.entries {
		if strings.HasSuffix(strings.ToLower(e), ".opf") {
			return e, nil
		}
	}
	return "", ErrNoPackage
}

// lookup resolves an entry name, ignoring case when there is no exact match.
func (m *Module) lookup(name string) (string, bool) {
	for _, e := range m.entries {
		if e == name {
			return e, true
		}
	}
	for _, e := range m.entries {
		if strings.EqualFold(e, name) {
			return e, true
		}
	}
	return "", false
}

func (m *Module) read(name string) ([]byte, error) {
	if resolved, ok := m.lookup(name); ok {
		name = resolved
	}
	return m.c.ReadEntry(name)
}

// resolve turns an href relative to base (a directory inside the book) into
// an entry name.
func resolve(base, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimPrefix(path.Clean(href), "/")
	}
	return path.Join(base, href)
}

func (m *Module) manifestEntry(item metadata.ManifestItem) string {
	return resolve(m.opfDir, item.Href)
}

// findCover tries, in order: the EPUB 3 cover-image property, the EPUB 2
// cover meta, the guide's cover page, a manifest image named like a cover,
// and the first image of the first spine document.
func (m *Module) findCover() *models.CoverRequest {
	for _, item := range m.pkg.Manifest {
		if !slices.Contains(item.Properties, "cover-image") {
			continue
		}
		if cover := m.imageCover(m.manifestEntry(item)); cover != nil {
			return cover
		}
	}

	if m.pkg.CoverID != "" {
		if item, ok := m.pkg.ManifestByID(m.pkg.CoverID); ok {
			var cover *models.CoverRequest
			if isImageMediaType(item.MediaType) {
				cover = m.imageCover(m.manifestEntry(item))
			} else {
				cover = m.coverFromPage(m.manifestEntry(item))
			}
			if cover != nil {
				return cover
			}
		}
	}

	for _, ref := range m.pkg.Guide {
		if !strings.EqualFold(ref.Type, "cover") {
			continue
		}
		if cover := m.coverFromPage(resolve(m.opfDir, ref.Href)); cover != nil {
			return cover
		}
	}

	for _, item := range m.pkg.Manifest {
		if !isImageMediaType(item.MediaType) {
			continue
		}
		if !containsFold(item.ID, "cover") && !containsFold(item.Href, "cover") {
			continue
		}
		if cover := m.imageCover(m.manifestEntry(item)); cover != nil {
			return cover
		}
	}

	if len(m.pkg.Spine) > 0 {
		if item, ok := m.pkg.ManifestByID(m.pkg.Spine[0].IDRef); ok {
			return m.coverFromPage(m.manifestEntry(item))
		}
	}
	return nil
}

// coverFromPage returns the first image referenced by an XHTML page.
func (m *Module) coverFromPage(page string) *models.CoverRequest {
	data, err := m.read(page)
	if err != nil {
		m.log.Debug("Cover page unreadable", zap.String("entry", page), zap.Error(err))
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	var src string
	doc.Find("img, image").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"src", "href"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				src = strings.TrimSpace(v)
				return false
			}
		}
		return true
	})
	if src == "" {
		return nil
	}
	return m.imageCover(resolve(path.Dir(page), src))
}

func (m *Module) imageCover(entry string) *models.CoverRequest {
	resolved, ok := m.lookup(entry)
	if !ok {
		m.log.Debug("Cover image missing from archive", zap.String("entry", entry))
		return nil
	}
	mediaType := container.MediaType(resolved)
	for _, item := range m.pkg.Manifest {
		if strings.EqualFold(m.manifestEntry(item), resolved) && item.MediaType != "" {
			mediaType = item.MediaType
			break
		}
	}
	return &models.CoverRequest{Entry: resolved, MediaType: mediaType}
}

// countWords counts the words in the body text of every linear spine
// document.
func (m *Module) countWords() int {
	total := 0
	for _, ref := range m.pkg.Spine {
		if !ref.Linear {
			continue
		}
		item, ok := m.pkg.ManifestByID(ref.IDRef)
		if !ok || !isDocumentMediaType(item.MediaType) {
			continue
		}
		data, err := m.read(m.manifestEntry(item))
		if err != nil {
			m.log.Debug("Skipping unreadable spine document", zap.String("href", item.Href), zap.Error(err))
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
		if err != nil {
			continue
		}
		doc.Find("script, style").Remove()
		total += len(strings.Fields(doc.Find("body").Text()))
	}
	return total
}

// ToBook maps the package metadata onto a Book.
func (m *Module) ToBook() *models.Book {
	p := m.pkg
	b := models.NewBook()

	b.Title = models.ClonePtr(p.Title)
	b.Summary = models.ClonePtr(p.Summary)
	b.Publisher = models.ClonePtr(p.Publisher)
	b.Language = models.ClonePtr(p.Language)
	b.Series = models.ClonePtr(p.Series)
	b.Number = models.ClonePtr(p.SeriesIndex)
	b.Volume = models.ClonePtr(p.SeriesIndex)
	b.CommunityRating = models.ClonePtr(p.Rating)
	b.Date = models.ClonePtr(p.Date)

	b.Writers = slices.Clone(p.Writers)
	b.Translators = slices.Clone(p.Translators)
	b.Editors = slices.Clone(p.Editors)
	b.Pencillers = slices.Clone(p.Illustrators)
	b.CoverArtists = slices.Clone(p.CoverArtists)
	b.Genres = slices.Clone(p.Subjects)

	schemes := map[string]string{}
	for _, id := range p.Identifiers {
		b.Identifiers = append(b.Identifiers, id.Value)
		key := id.Scheme
		if key == "" {
			key = id.ID
		}
		if key == "" {
			key = "unknown"
		}
		if _, exists := schemes[key]; !exists {
			schemes[key] = id.Value
		}
	}
	if len(schemes) > 0 {
		b.Extras["identifiers"] = schemes
	}
	if p.Rights != nil {
		b.Extras["rights"] = *p.Rights
	}
	if len(p.Contributors) > 0 {
		b.Extras["contributors"] = slices.Clone(p.Contributors)
	}
	return b
}

// ToCover returns the resolved cover image, if any.
func (m *Module) ToCover() *models.CoverRequest {
	if m.cover == nil {
		return nil
	}
	cover := *m.cover
	return &cover
}

// ToCounts reports the word count and the page count estimated from it.
func (m *Module) ToCounts() *models.Book {
	b := models.NewBook()
	words := m.words
	pages := int(math.Ceil(float64(words) / wordsPerPage))
	b.WordCount = &words
	b.PageCount = &pages
	return b
}

// ToMap returns the parsed package fields along with where they came from.
func (m *Module) ToMap() models.OrderedMap {
	out := models.OrderedMap{{Key: "packagePath", Value: m.opfPath}}
	return append(out, m.pkg.ToMap()...)
}

// Package exposes the parsed package document.
func (m *Module) Package() metadata.Package { return m.pkg }

func isImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

func isDocumentMediaType(mediaType string) bool {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
