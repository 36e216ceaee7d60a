package metadata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/mango-meta/internal/metadata"
	"github.com/vrsandeep/mango-meta/internal/vocab"
)

func TestParseComicInfoMinimal(t *testing.T) {
	tree := mustParse(t, `<ComicInfo><Title>Sample</Title><Series>Arc</Series><Number>3</Number><Writer>A, B</Writer></ComicInfo>`)
	c := metadata.ParseComicInfo(tree, nil)

	require.NotNil(t, c.Title)
	assert.Equal(t, "Sample", *c.Title)
	require.NotNil(t, c.Series)
	assert.Equal(t, "Arc", *c.Series)
	require.NotNil(t, c.Number)
	assert.Equal(t, 3, *c.Number)
	assert.Equal(t, []string{"A", "B"}, c.Writers)

	assert.Nil(t, c.Summary)
	assert.Nil(t, c.Date)
	assert.Nil(t, c.Manga)
	assert.Equal(t, vocab.AgeRatingUnknown, c.AgeRating)
	assert.False(t, c.BlackAndWhite)
	assert.Empty(t, c.Pencillers)
	assert.NotContains(t, c.Extras, "year")
	assert.NotContains(t, c.Extras, "pages")
}

func TestParseComicInfoNilTree(t *testing.T) {
	c := metadata.ParseComicInfo(nil, nil)

	assert.Nil(t, c.Title)
	assert.Equal(t, vocab.AgeRatingUnknown, c.AgeRating)
	assert.NotNil(t, c.Writers)
	assert.NotNil(t, c.Extras)
}

func TestParseComicInfoDate(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   *time.Time
		extras map[string]any
	}{
		{
			name:   "full date",
			fields: "<Year>1999</Year><Month>7</Month><Day>14</Day>",
			want:   datePtr(1999, time.July, 14),
			extras: map[string]any{"year": 1999, "month": 7, "day": 14},
		},
		{
			name:   "year only defaults to january first",
			fields: "<Year>2020</Year>",
			want:   datePtr(2020, time.January, 1),
			extras: map[string]any{"year": 2020},
		},
		{
			name:   "no year means no date",
			fields: "<Month>5</Month><Day>2</Day>",
			want:   nil,
			extras: map[string]any{"month": 5, "day": 2},
		},
		{
			name:   "impossible month",
			fields: "<Year>2020</Year><Month>13</Month>",
			want:   nil,
			extras: map[string]any{"year": 2020, "month": 13},
		},
		{
			name:   "impossible day",
			fields: "<Year>2021</Year><Month>2</Month><Day>29</Day>",
			want:   nil,
			extras: map[string]any{"year": 2021, "month": 2, "day": 29},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := metadata.ParseComicInfo(mustParse(t, "<ComicInfo>"+tt.fields+"</ComicInfo>"), nil)
			assert.Equal(t, tt.want, c.Date)
			assert.Equal(t, tt.extras, c.Extras)
		})
	}
}

func TestParseComicInfoVocabularies(t *testing.T) {
	tests := []struct {
		name      string
		fields    string
		manga     *vocab.Manga
		ageRating vocab.AgeRating
		bw        bool
	}{
		{
			name:      "defaults",
			fields:    "",
			manga:     nil,
			ageRating: vocab.AgeRatingUnknown,
		},
		{
			name:      "recognized tokens",
			fields:    "<Manga>YesAndRightToLeft</Manga><AgeRating>Teen</AgeRating><BlackAndWhite>Yes</BlackAndWhite>",
			manga:     mangaPtr(vocab.MangaYesRightToLeft),
			ageRating: vocab.AgeRatingTeen,
			bw:        true,
		},
		{
			name:      "case-insensitive tokens",
			fields:    "<Manga>yes</Manga><AgeRating>mature 17+</AgeRating><BlackAndWhite>YES</BlackAndWhite>",
			manga:     mangaPtr(vocab.MangaYes),
			ageRating: vocab.AgeRatingMature17,
			bw:        true,
		},
		{
			name:      "unrecognized tokens",
			fields:    "<Manga>sometimes</Manga><AgeRating>bogus</AgeRating><BlackAndWhite>No</BlackAndWhite>",
			manga:     nil,
			ageRating: vocab.AgeRatingUnknown,
		},
		{
			name:      "black and white is only true for yes",
			fields:    "<BlackAndWhite>Unknown</BlackAndWhite>",
			ageRating: vocab.AgeRatingUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := metadata.ParseComicInfo(mustParse(t, "<ComicInfo>"+tt.fields+"</ComicInfo>"), nil)
			assert.Equal(t, tt.manga, c.Manga)
			assert.Equal(t, tt.ageRating, c.AgeRating)
			assert.Equal(t, tt.bw, c.BlackAndWhite)
		})
	}
}

func TestParseComicInfoFull(t *testing.T) {
	tree := mustParse(t, `<?xml version="1.0"?>
<ComicInfo xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <Title>The Beginning</Title>
  <Series>Saga</Series>
  <Number>1</Number>
  <Count>54</Count>
  <Volume>2012</Volume>
  <AlternateSeries>Image Firsts</AlternateSeries>
  <AlternateNumber>7</AlternateNumber>
  <Summary><![CDATA[<p>A <em>space</em> opera.</p><img src="x.png">]]></Summary>
  <Notes>Tagged by hand</Notes>
  <Penciller>Fiona Staples</Penciller>
  <Letterer>Fonografiks</Letterer>
  <Publisher>Image</Publisher>
  <Genre>Sci-Fi, Fantasy</Genre>
  <Web>https://example.com/saga/1</Web>
  <PageCount>44</PageCount>
  <LanguageISO>en_US</LanguageISO>
  <Characters>Alana, Marko</Characters>
  <StoryArc>Chapter One</StoryArc>
  <StoryArcNumber>1</StoryArcNumber>
  <CommunityRating>4.50</CommunityRating>
  <MainCharacterOrTeam>Hazel</MainCharacterOrTeam>
  <GTIN>9781607066019</GTIN>
  <Pages>
    <Page Image="0" Type="FrontCover" ImageWidth="1988"/>
    <Page Image="1"/>
    <Page/>
  </Pages>
</ComicInfo>`)
	c := metadata.ParseComicInfo(tree, nil)

	assert.Equal(t, "The Beginning", *c.Title)
	assert.Equal(t, 54, *c.Count)
	assert.Equal(t, 2012, *c.Volume)
	assert.Equal(t, "Image Firsts", *c.AlternateSeries)
	assert.Equal(t, 7, *c.AlternateNumber)
	assert.Nil(t, c.AlternateCount)
	assert.Equal(t, "<p>A <em>space</em> opera.</p>", *c.Summary)
	assert.Equal(t, []string{"Fiona Staples"}, c.Pencillers)
	assert.Equal(t, []string{"Sci-Fi", "Fantasy"}, c.Genres)
	assert.Equal(t, 44, *c.PageCount)
	assert.Equal(t, "en-US", *c.Language)
	assert.Equal(t, []string{"Alana", "Marko"}, c.Characters)
	assert.Equal(t, 4.5, *c.CommunityRating)
	assert.Equal(t, "Hazel", *c.MainCharacterOrTeam)
	assert.Equal(t, []string{"9781607066019"}, c.GTIN)

	assert.Equal(t, []map[string]string{
		{"Image": "0", "Type": "FrontCover", "ImageWidth": "1988"},
		{"Image": "1"},
	}, c.Extras["pages"])
}

func TestComicInfoRatingOutOfRange(t *testing.T) {
	c := metadata.ParseComicInfo(mustParse(t, "<ComicInfo><CommunityRating>9.9</CommunityRating></ComicInfo>"), nil)
	require.NotNil(t, c.CommunityRating)
	assert.Equal(t, 9.9, *c.CommunityRating)
}

func TestComicInfoToMap(t *testing.T) {
	c := metadata.ParseComicInfo(mustParse(t, "<ComicInfo><Title>Sample</Title><Manga>No</Manga></ComicInfo>"), nil)
	m := c.ToMap()

	keys := m.Keys()
	assert.Equal(t, "title", keys[0])
	assert.Equal(t, "extras", keys[len(keys)-1])

	v, _ := m.Get("title")
	assert.Equal(t, "Sample", v)
	v, _ = m.Get("manga")
	assert.Equal(t, "No", v)
	v, _ = m.Get("ageRating")
	assert.Equal(t, "Unknown", v)
	v, _ = m.Get("number")
	assert.Nil(t, v)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func mangaPtr(m vocab.Manga) *vocab.Manga { return &m }
