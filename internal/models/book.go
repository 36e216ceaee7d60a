// This file defines the canonical book entity every format module produces.
// Optional values are pointers; nil means the source did not provide them.

package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vrsandeep/mango-meta/internal/vocab"
)

// Book is the unified, format-agnostic metadata of a single book.
type Book struct {
	Title     *string `json:"title"`
	Series    *string `json:"series"`
	Summary   *string `json:"summary"`
	Publisher *string `json:"publisher"`
	Imprint   *string `json:"imprint"`
	Language  *string `json:"language"`
	Format    *string `json:"format"`
	Web       *string `json:"web"`
	Notes     *string `json:"notes"`
	Review    *string `json:"review"`
	StoryArc  *string `json:"storyArc"`

	Number          *int     `json:"number"`
	Count           *int     `json:"count"`
	Volume          *int     `json:"volume"`
	StoryArcNumber  *int     `json:"storyArcNumber"`
	PageCount       *int     `json:"pageCount"`
	CommunityRating *float64 `json:"communityRating"` // 0-5, two decimals by convention of the source
	AlternateNumber *int     `json:"alternateNumber"`
	AlternateCount  *int     `json:"alternateCount"`

	IsBlackAndWhite bool            `json:"isBlackAndWhite"`
	Manga           *vocab.Manga    `json:"manga"`
	AgeRating       vocab.AgeRating `json:"ageRating"`

	Writers      []string `json:"writers"`
	Pencillers   []string `json:"pencillers"`
	Inkers       []string `json:"inkers"`
	Colorists    []string `json:"colorists"`
	Letterers    []string `json:"letterers"`
	CoverArtists []string `json:"coverArtists"`
	Translators  []string `json:"translators"`
	Editors      []string `json:"editors"`
	Genres       []string `json:"genres"`
	Characters   []string `json:"characters"`
	Teams        []string `json:"teams"`
	Locations    []string `json:"locations"`
	Identifiers  []string `json:"identifiers"`

	Date *time.Time `json:"date"`

	AlternateSeries     *string `json:"alternateSeries"`
	SeriesGroup         *string `json:"seriesGroup"`
	MainCharacterOrTeam *string `json:"mainCharacterOrTeam"`
	ScanInformation     *string `json:"scanInformation"`
	WordCount           *int    `json:"wordCount"`

	// Extras holds auxiliary values with no dedicated field, such as the raw
	// year/month/day tokens or the per-page attributes of a comic.
	Extras map[string]any `json:"extras"`
}

// NewBook returns a book with every field at its default: nil optionals,
// empty lists, an empty extras map and an unknown age rating.
func NewBook() *Book {
	return &Book{
		AgeRating:    vocab.AgeRatingUnknown,
		Writers:      []string{},
		Pencillers:   []string{},
		Inkers:       []string{},
		Colorists:    []string{},
		Letterers:    []string{},
		CoverArtists: []string{},
		Translators:  []string{},
		Editors:      []string{},
		Genres:       []string{},
		Characters:   []string{},
		Teams:        []string{},
		Locations:    []string{},
		Identifiers:  []string{},
		Extras:       map[string]any{},
	}
}

// ClonePtr returns a pointer to a copy of *p, or nil when p is nil.
func ClonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ApplyCounts copies the count fields set on counts onto b.
func (b *Book) ApplyCounts(counts *Book) {
	if counts == nil {
		return
	}
	if counts.PageCount != nil {
		b.PageCount = ClonePtr(counts.PageCount)
	}
	if counts.WordCount != nil {
		b.WordCount = ClonePtr(counts.WordCount)
	}
}

// ToMap returns the book as an ordered key/value list. Absent values are nil.
func (b *Book) ToMap() OrderedMap {
	var manga any
	if b.Manga != nil {
		manga = string(*b.Manga)
	}
	var date any
	if b.Date != nil {
		date = *b.Date
	}

	return OrderedMap{
		{"title", str(b.Title)},
		{"series", str(b.Series)},
		{"summary", str(b.Summary)},
		{"publisher", str(b.Publisher)},
		{"imprint", str(b.Imprint)},
		{"language", str(b.Language)},
		{"format", str(b.Format)},
		{"web", str(b.Web)},
		{"notes", str(b.Notes)},
		{"review", str(b.Review)},
		{"storyArc", str(b.StoryArc)},
		{"number", num(b.Number)},
		{"count", num(b.Count)},
		{"volume", num(b.Volume)},
		{"storyArcNumber", num(b.StoryArcNumber)},
		{"pageCount", num(b.PageCount)},
		{"communityRating", float(b.CommunityRating)},
		{"alternateNumber", num(b.AlternateNumber)},
		{"alternateCount", num(b.AlternateCount)},
		{"isBlackAndWhite", b.IsBlackAndWhite},
		{"manga", manga},
		{"ageRating", string(b.AgeRating)},
		{"writers", b.Writers},
		{"pencillers", b.Pencillers},
		{"inkers", b.Inkers},
		{"colorists", b.Colorists},
		{"letterers", b.Letterers},
		{"coverArtists", b.CoverArtists},
		{"translators", b.Translators},
		{"editors", b.Editors},
		{"genres", b.Genres},
		{"characters", b.Characters},
		{"teams", b.Teams},
		{"locations", b.Locations},
		{"identifiers", b.Identifiers},
		{"date", date},
		{"alternateSeries", str(b.AlternateSeries)},
		{"seriesGroup", str(b.SeriesGroup)},
		{"mainCharacterOrTeam", str(b.MainCharacterOrTeam)},
		{"scanInformation", str(b.ScanInformation)},
		{"wordCount", num(b.WordCount)},
		{"extras", b.Extras},
	}
}

// String renders "{title} ({series} #{number})"; absent parts are empty.
func (b *Book) String() string {
	number := ""
	if b.Number != nil {
		number = strconv.Itoa(*b.Number)
	}
	title, series := "", ""
	if b.Title != nil {
		title = *b.Title
	}
	if b.Series != nil {
		series = *b.Series
	}
	return fmt.Sprintf("%s (%s #%s)", title, series, number)
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func num(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func float(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
