// Package cba reads comic book archives (.cbz, .cbr, .cb7, .cbt) and their
// ComicInfo.xml sidecar.
package cba

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/metadata"
	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/xmltree"
)

// Format opens comic book archives.
type Format struct{}

// New returns the comic archive format.
func New() *Format {
	return &Format{}
}

// GetInfo returns the format's static information.
func (f *Format) GetInfo() models.FormatInfo {
	return models.FormatInfo{
		ID:         "cba",
		Name:       "Comic Book Archive",
		Extensions: []string{".cbz", ".cbr", ".cb7", ".cbt"},
		Archive:    true,
	}
}

// Open reads the ComicInfo.xml of c, if it has one, and lists its pages.
func (f *Format) Open(c models.Container) (models.Module, error) {
	log := zap.L().Named("cba")
	entries := c.Entries()

	m := &Module{pages: container.ImagePages(entries)}

	var tree *xmltree.Tree
	if name, ok := container.FindEntry(entries, metadata.ComicInfoFilename); ok {
		data, err := c.ReadEntry(name)
		if err != nil {
			return nil, fmt.Errorf("cba: read %s: %w", name, err)
		}
		tree, err = xmltree.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("cba: decode %s: %w", name, err)
		}
		m.source = name
	} else {
		log.Debug("Archive has no ComicInfo.xml", zap.Int("pages", len(m.pages)))
	}

	m.info = metadata.ParseComicInfo(tree, log)
	return m, nil
}

// Module is one opened comic archive.
type Module struct {
	info   metadata.ComicInfo
	pages  []*models.Page
	source string
}

// ToBook maps the ComicInfo fields onto a Book.
func (m *Module) ToBook() *models.Book {
	i := m.info
	b := models.NewBook()

	b.Title = models.ClonePtr(i.Title)
	b.Series = models.ClonePtr(i.Series)
	b.Number = models.ClonePtr(i.Number)
	b.Count = models.ClonePtr(i.Count)
	b.Volume = models.ClonePtr(i.Volume)
	b.AlternateSeries = models.ClonePtr(i.AlternateSeries)
	b.AlternateNumber = models.ClonePtr(i.AlternateNumber)
	b.AlternateCount = models.ClonePtr(i.AlternateCount)
	b.Summary = models.ClonePtr(i.Summary)
	b.Notes = models.ClonePtr(i.Notes)
	b.Date = models.ClonePtr(i.Date)
	b.Publisher = models.ClonePtr(i.Publisher)
	b.Imprint = models.ClonePtr(i.Imprint)
	b.Web = models.ClonePtr(i.Web)
	b.PageCount = models.ClonePtr(i.PageCount)
	b.Language = models.ClonePtr(i.Language)
	b.Format = models.ClonePtr(i.Format)
	b.IsBlackAndWhite = i.BlackAndWhite
	b.Manga = models.ClonePtr(i.Manga)
	b.AgeRating = i.AgeRating
	b.ScanInformation = models.ClonePtr(i.ScanInformation)
	b.StoryArc = models.ClonePtr(i.StoryArc)
	b.StoryArcNumber = models.ClonePtr(i.StoryArcNumber)
	b.SeriesGroup = models.ClonePtr(i.SeriesGroup)
	b.CommunityRating = models.ClonePtr(i.CommunityRating)
	b.MainCharacterOrTeam = models.ClonePtr(i.MainCharacterOrTeam)
	b.Review = models.ClonePtr(i.Review)

	b.Writers = slices.Clone(i.Writers)
	b.Pencillers = slices.Clone(i.Pencillers)
	b.Inkers = slices.Clone(i.Inkers)
	b.Colorists = slices.Clone(i.Colorists)
	b.Letterers = slices.Clone(i.Letterers)
	b.CoverArtists = slices.Clone(i.CoverArtists)
	b.Translators = slices.Clone(i.Translators)
	b.Editors = slices.Clone(i.Editors)
	b.Genres = slices.Clone(i.Genres)
	b.Characters = slices.Clone(i.Characters)
	b.Teams = slices.Clone(i.Teams)
	b.Locations = slices.Clone(i.Locations)
	b.Identifiers = slices.Clone(i.GTIN)

	b.Extras = maps.Clone(i.Extras)
	if pages, ok := i.Extras["pages"].([]map[string]string); ok {
		copied := make([]map[string]string, len(pages))
		for n, page := range pages {
			copied[n] = maps.Clone(page)
		}
		b.Extras["pages"] = copied
	}
	return b
}

// ToCover points at the first page in reading order.
func (m *Module) ToCover() *models.CoverRequest {
	if len(m.pages) == 0 {
		return nil
	}
	return &models.CoverRequest{
		Entry:     m.pages[0].FileName,
		MediaType: container.MediaType(m.pages[0].FileName),
	}
}

// ToCounts reports the number of image pages. Archives carry no text, so
// WordCount stays nil.
func (m *Module) ToCounts() *models.Book {
	b := models.NewBook()
	n := len(m.pages)
	b.PageCount = &n
	return b
}

// ToMap returns the parsed ComicInfo fields followed by the archive pages.
func (m *Module) ToMap() models.OrderedMap {
	return append(m.info.ToMap(), models.Field{Key: "archivePages", Value: m.pages})
}

// Source is the archive entry the metadata was read from, or "".
func (m *Module) Source() string { return m.source }
