package cba_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/formats/cba"
	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/vocab"
)

func open(t *testing.T, files fstest.MapFS) models.Module {
	t.Helper()
	c, err := container.New("test.cbz", files)
	require.NoError(t, err)
	m, err := cba.New().Open(c)
	require.NoError(t, err)
	return m
}

func TestGetInfo(t *testing.T) {
	info := cba.New().GetInfo()
	assert.Equal(t, "cba", info.ID)
	assert.ElementsMatch(t, []string{".cbz", ".cbr", ".cb7", ".cbt"}, info.Extensions)
}

func TestOpenWithComicInfo(t *testing.T) {
	m := open(t, fstest.MapFS{
		"ComicInfo.xml": {Data: []byte(`<?xml version="1.0"?>
<ComicInfo>
  <Title>Sample</Title>
  <Series>Arc</Series>
  <Number>3</Number>
  <Writer>A, B</Writer>
  <Year>2001</Year>
  <Manga>Yes</Manga>
  <AgeRating>Teen</AgeRating>
  <GTIN>0123456789012</GTIN>
  <PageCount>40</PageCount>
</ComicInfo>`)},
		"010.jpg": {Data: []byte("x")},
		"002.jpg": {Data: []byte("x")},
		"001.png": {Data: []byte("x")},
	})

	b := m.ToBook()
	assert.Equal(t, "Sample (Arc #3)", b.String())
	assert.Equal(t, []string{"A", "B"}, b.Writers)
	assert.Equal(t, 2001, b.Date.Year())
	assert.Equal(t, vocab.MangaYes, *b.Manga)
	assert.Equal(t, vocab.AgeRatingTeen, b.AgeRating)
	assert.Equal(t, []string{"0123456789012"}, b.Identifiers)
	assert.Equal(t, 40, *b.PageCount)
	assert.Equal(t, 2001, b.Extras["year"])

	cover := m.ToCover()
	require.NotNil(t, cover)
	assert.Equal(t, &models.CoverRequest{Entry: "001.png", MediaType: "image/png"}, cover)

	counts := m.ToCounts()
	require.NotNil(t, counts.PageCount)
	assert.Equal(t, 3, *counts.PageCount)
	assert.Nil(t, counts.WordCount)

	title, ok := m.ToMap().Get("title")
	assert.True(t, ok)
	assert.Equal(t, "Sample", title)
}

func TestOpenWithoutComicInfo(t *testing.T) {
	m := open(t, fstest.MapFS{
		"pages/1.jpg": {Data: []byte("x")},
	})

	b := m.ToBook()
	assert.Equal(t, models.NewBook(), b)
	assert.Equal(t, "pages/1.jpg", m.ToCover().Entry)

	pages, ok := m.ToMap().Get("archivePages")
	require.True(t, ok)
	assert.Equal(t, []*models.Page{{FileName: "pages/1.jpg", Index: 0}}, pages)
}

func TestOpenFindsNestedComicInfo(t *testing.T) {
	m := open(t, fstest.MapFS{
		"Vol 1/comicinfo.XML": {Data: []byte(`<ComicInfo><Title>Nested</Title></ComicInfo>`)},
		"Vol 1/001.jpg":       {Data: []byte("x")},
	})

	assert.Equal(t, "Nested", *m.ToBook().Title)
	assert.Equal(t, "Vol 1/comicinfo.XML", m.(*cba.Module).Source())
}

func TestOpenWithoutImages(t *testing.T) {
	m := open(t, fstest.MapFS{"readme.txt": {Data: []byte("x")}})

	assert.Nil(t, m.ToCover())
	assert.Equal(t, 0, *m.ToCounts().PageCount)
}

func TestOpenMalformedComicInfo(t *testing.T) {
	c, err := container.New("bad.cbz", fstest.MapFS{
		"ComicInfo.xml": {Data: []byte("")},
		"001.jpg":       {Data: []byte("x")},
	})
	require.NoError(t, err)

	_, err = cba.New().Open(c)
	assert.Error(t, err)
}

func TestToBookReturnsIndependentCopies(t *testing.T) {
	m := open(t, fstest.MapFS{
		"ComicInfo.xml": {Data: []byte(`<ComicInfo>
  <Title>Pilot</Title>
  <Number>3</Number>
  <Manga>Yes</Manga>
  <Genre>Drama</Genre>
  <Pages><Page Image="0" Type="FrontCover"/></Pages>
</ComicInfo>`)},
	})

	first := m.ToBook()
	first.Genres[0] = "changed"
	first.Extras["x"] = 1
	*first.Title = "changed"
	*first.Number = 99
	*first.Manga = vocab.MangaNo
	first.Extras["pages"].([]map[string]string)[0]["Type"] = "changed"

	second := m.ToBook()
	assert.Equal(t, []string{"Drama"}, second.Genres)
	assert.NotContains(t, second.Extras, "x")
	assert.Equal(t, "Pilot", *second.Title)
	assert.Equal(t, 3, *second.Number)
	assert.Equal(t, vocab.MangaYes, *second.Manga)
	assert.Equal(t, "FrontCover", second.Extras["pages"].([]map[string]string)[0]["Type"])
}
