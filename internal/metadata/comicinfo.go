package metadata

import (
	"time"

	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/util"
	"github.com/vrsandeep/mango-meta/internal/vocab"
	"github.com/vrsandeep/mango-meta/internal/xmltree"
)

// ComicInfoFilename is the sidecar file comic archives carry their metadata in.
const ComicInfoFilename = "ComicInfo.xml"

// ComicInfo is a parsed ComicInfo.xml (schema v2.0 and v2.1).
// See https://anansi-project.github.io/docs/comicinfo/schemas/v2.0
type ComicInfo struct {
	Title               *string
	Series              *string
	Number              *int
	Count               *int
	Volume              *int
	AlternateSeries     *string
	AlternateNumber     *int
	AlternateCount      *int
	Summary             *string
	Notes               *string
	Date                *time.Time
	Writers             []string
	Pencillers          []string
	Inkers              []string
	Colorists           []string
	Letterers           []string
	CoverArtists        []string
	Translators         []string
	Editors             []string
	Publisher           *string
	Imprint             *string
	Genres              []string
	Web                 *string
	PageCount           *int
	Language            *string
	Format              *string
	BlackAndWhite       bool
	Manga               *vocab.Manga
	Characters          []string
	Teams               []string
	Locations           []string
	ScanInformation     *string
	StoryArc            *string
	StoryArcNumber      *int
	SeriesGroup         *string
	AgeRating           vocab.AgeRating
	CommunityRating     *float64 // 0-5 with two decimals per the schema; not enforced here
	MainCharacterOrTeam *string
	Review              *string
	GTIN                []string

	// Extras holds the raw year/month/day values and, when the file lists
	// them, the attributes of every <Page> in document order under "pages".
	Extras map[string]any
}

// ParseComicInfo extracts every known ComicInfo field from tree. A nil tree
// yields a ComicInfo with all fields at their defaults.
func ParseComicInfo(tree *xmltree.Tree, log *zap.Logger) ComicInfo {
	e := NewExtractor(tree, log)

	c := ComicInfo{
		Title:           e.String("Title"),
		Series:          e.String("Series"),
		Number:          e.Int("Number"),
		Count:           e.Int("Count"),
		Volume:          e.Int("Volume"),
		AlternateSeries: e.String("AlternateSeries"),
		AlternateNumber: e.Int("AlternateNumber"),
		AlternateCount:  e.Int("AlternateCount"),
		Summary:         e.RichText("Summary"),
		Notes:           e.String("Notes"),
		Writers:         e.List("Writer"),
		Pencillers:      e.List("Penciller"),
		Inkers:          e.List("Inker"),
		Colorists:       e.List("Colorist"),
		Letterers:       e.List("Letterer"),
		CoverArtists:    e.List("CoverArtist"),
		Translators:     e.List("Translator"),
		Editors:         e.List("Editor"),
		Publisher:       e.String("Publisher"),
		Imprint:         e.String("Imprint"),
		Genres:          e.List("Genre"),
		Web:             e.String("Web"),
		PageCount:       e.Int("PageCount"),
		Format:          e.String("Format"),
		Characters:      e.List("Characters"),
		Teams:           e.List("Teams"),
		Locations:       e.List("Locations"),
		ScanInformation: e.String("ScanInformation"),
		StoryArc:        e.String("StoryArc"),
		StoryArcNumber:  e.Int("StoryArcNumber"),
		SeriesGroup:     e.String("SeriesGroup"),
		CommunityRating: e.Float("CommunityRating"),
		Review:          e.String("Review"),
		GTIN:            e.List("GTIN"),
		AgeRating:       vocab.AgeRatingUnknown,
		Extras:          map[string]any{},
	}

	c.MainCharacterOrTeam = e.String("MainCharacterOrTeam")

	if lang := e.String("LanguageISO"); lang != nil {
		c.Language = optional(util.NormalizeLanguage(*lang))
	}

	if bw := e.String("BlackAndWhite"); bw != nil {
		c.BlackAndWhite = vocab.IsYes(*bw)
	}

	if token := e.String("Manga"); token != nil {
		if m, ok := vocab.ParseManga(*token); ok {
			c.Manga = &m
		} else {
			e.log.Debug("Unrecognized Manga value", zap.String("value", *token))
		}
	}

	if token := e.String("AgeRating"); token != nil {
		if r, ok := vocab.ParseAgeRating(*token); ok {
			c.AgeRating = r
		} else {
			e.log.Debug("Unrecognized AgeRating value", zap.String("value", *token))
		}
	}

	year, month, day := e.Int("Year"), e.Int("Month"), e.Int("Day")
	if year != nil {
		c.Extras["year"] = *year
	}
	if month != nil {
		c.Extras["month"] = *month
	}
	if day != nil {
		c.Extras["day"] = *day
	}
	c.Date = composeDate(year, month, day)
	if year != nil && c.Date == nil {
		e.log.Debug("Ignoring impossible date", zap.Intp("year", year), zap.Intp("month", month), zap.Intp("day", day))
	}

	if pages := tree.FindAll("./Pages/Page"); len(pages) > 0 {
		items := make([]map[string]string, 0, len(pages))
		for _, p := range pages {
			if len(p.Attr) == 0 {
				continue
			}
			items = append(items, xmltree.Attributes(p))
		}
		c.Extras["pages"] = items
	}

	return c
}

// composeDate builds a date from separate tokens. Without a year there is
// no date; a missing month or day means the first one of the period.
func composeDate(year, month, day *int) *time.Time {
	if year == nil {
		return nil
	}
	m, d := 1, 1
	if month != nil {
		m = *month
	}
	if day != nil {
		d = *day
	}
	if *year < 1 || *year > 9999 || m < 1 || m > 12 || d < 1 || d > daysIn(time.Month(m), *year) {
		return nil
	}
	date := time.Date(*year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &date
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ToMap lists the parsed fields under their ComicInfo-derived names.
func (c ComicInfo) ToMap() models.OrderedMap {
	var manga any
	if c.Manga != nil {
		manga = string(*c.Manga)
	}
	var date any
	if c.Date != nil {
		date = *c.Date
	}
	return models.OrderedMap{
		{Key: "title", Value: deref(c.Title)},
		{Key: "series", Value: deref(c.Series)},
		{Key: "number", Value: deref(c.Number)},
		{Key: "summary", Value: deref(c.Summary)},
		{Key: "date", Value: date},
		{Key: "pageCount", Value: deref(c.PageCount)},
		{Key: "language", Value: deref(c.Language)},
		{Key: "editors", Value: c.Editors},
		{Key: "publisher", Value: deref(c.Publisher)},
		{Key: "imprint", Value: deref(c.Imprint)},
		{Key: "communityRating", Value: deref(c.CommunityRating)},
		{Key: "isBlackAndWhite", Value: c.BlackAndWhite},
		{Key: "manga", Value: manga},
		{Key: "ageRating", Value: string(c.AgeRating)},
		{Key: "review", Value: deref(c.Review)},
		{Key: "mainCharacterOrTeam", Value: deref(c.MainCharacterOrTeam)},
		{Key: "alternateSeries", Value: deref(c.AlternateSeries)},
		{Key: "alternateNumber", Value: deref(c.AlternateNumber)},
		{Key: "alternateCount", Value: deref(c.AlternateCount)},
		{Key: "count", Value: deref(c.Count)},
		{Key: "volume", Value: deref(c.Volume)},
		{Key: "storyArc", Value: deref(c.StoryArc)},
		{Key: "storyArcNumber", Value: deref(c.StoryArcNumber)},
		{Key: "seriesGroup", Value: deref(c.SeriesGroup)},
		{Key: "notes", Value: deref(c.Notes)},
		{Key: "scanInformation", Value: deref(c.ScanInformation)},
		{Key: "web", Value: deref(c.Web)},
		{Key: "format", Value: deref(c.Format)},
		{Key: "writers", Value: c.Writers},
		{Key: "pencillers", Value: c.Pencillers},
		{Key: "inkers", Value: c.Inkers},
		{Key: "colorists", Value: c.Colorists},
		{Key: "letterers", Value: c.Letterers},
		{Key: "coverArtists", Value: c.CoverArtists},
		{Key: "translators", Value: c.Translators},
		{Key: "genres", Value: c.Genres},
		{Key: "characters", Value: c.Characters},
		{Key: "teams", Value: c.Teams},
		{Key: "locations", Value: c.Locations},
		{Key: "gtin", Value: c.GTIN},
		{Key: "extras", Value: c.Extras},
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
