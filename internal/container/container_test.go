package container_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/testutil"
)

func TestNewOrdersEntriesNaturally(t *testing.T) {
	fsys := fstest.MapFS{
		"page10.jpg":             {Data: []byte("x")},
		"page2.jpg":              {Data: []byte("x")},
		"page1.png":              {Data: []byte("x")},
		"ComicInfo.xml":          {Data: []byte("<ComicInfo/>")},
		"__MACOSX/._page1.png":   {Data: []byte("x")},
		"._page2.jpg":            {Data: []byte("x")},
		".DS_Store":              {Data: []byte("x")},
		"extras/notes.txt":       {Data: []byte("x")},
		"extras/deep/cover.webp": {Data: []byte("x")},
	}
	c, err := container.New("book.cbz", fsys)
	require.NoError(t, err)

	assert.Equal(t, "book.cbz", c.Name())
	assert.Equal(t, []string{
		"ComicInfo.xml",
		"extras/deep/cover.webp",
		"extras/notes.txt",
		"page1.png",
		"page2.jpg",
		"page10.jpg",
	}, c.Entries())

	pages := c.Pages()
	require.Len(t, pages, 4)
	assert.Equal(t, "extras/deep/cover.webp", pages[0].FileName)
	assert.Equal(t, "page1.png", pages[1].FileName)
	assert.Equal(t, 1, pages[1].Index)
	assert.Equal(t, "page10.jpg", pages[3].FileName)
	assert.Equal(t, 3, pages[3].Index)
}

func TestNewEmpty(t *testing.T) {
	_, err := container.New("empty.cbz", fstest.MapFS{})
	assert.ErrorIs(t, err, container.ErrEmpty)
}

func TestReadEntry(t *testing.T) {
	c, err := container.New("book.cbz", fstest.MapFS{
		"a/ComicInfo.xml": {Data: []byte("<ComicInfo/>")},
	})
	require.NoError(t, err)

	data, err := c.ReadEntry("a/ComicInfo.xml")
	require.NoError(t, err)
	assert.Equal(t, "<ComicInfo/>", string(data))

	_, err = c.ReadEntry("missing.xml")
	assert.ErrorIs(t, err, container.ErrEntryNotFound)
}

func TestFind(t *testing.T) {
	c, err := container.New("book.cbz", fstest.MapFS{
		"vol1/chapter/comicinfo.xml": {Data: []byte("deep")},
		"vol1/COMICINFO.XML":         {Data: []byte("shallow")},
		"001.jpg":                    {Data: []byte("x")},
	})
	require.NoError(t, err)

	name, ok := c.Find("ComicInfo.xml")
	assert.True(t, ok)
	assert.Equal(t, "vol1/COMICINFO.XML", name)

	_, ok = c.Find("content.opf")
	assert.False(t, ok)
}

func TestOpenArchive(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateTestArchive(t, dir, "test.cbz", []testutil.Entry{
		{Name: "02.jpeg", Content: []byte("two")},
		{Name: "01.jpg", Content: []byte("one")},
		{Name: "notes.txt", Content: []byte("text")},
	})

	c, err := container.Open(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "test.cbz", c.Name())
	assert.True(t, c.IsArchive())
	assert.Equal(t, []string{"01.jpg", "02.jpeg", "notes.txt"}, c.Entries())
	assert.Len(t, c.Pages(), 2)

	data, err := c.ReadEntry("02.jpeg")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestOpenPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7\n%fake"), 0o644))

	c, err := container.Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"report.pdf"}, c.Entries())
	assert.False(t, c.IsArchive())
	assert.Empty(t, c.Pages())

	data, err := c.ReadEntry("report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7\n%fake", string(data))

	_, err = c.ReadEntry("other.pdf")
	assert.ErrorIs(t, err, container.ErrEntryNotFound)
}

func TestOpenErrors(t *testing.T) {
	_, err := container.Open(context.Background(), filepath.Join(t.TempDir(), "missing.cbz"))
	assert.Error(t, err)

	_, err = container.Open(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"page.JPG", true},
		{"dir/page.webp", true},
		{"cover.png", true},
		{"ComicInfo.xml", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, container.IsImageFile(tt.name))
		})
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/jpeg", container.MediaType("a/b.JPEG"))
	assert.Equal(t, "image/png", container.MediaType("x.png"))
	assert.Equal(t, "application/pdf", container.MediaType("doc.pdf"))
	assert.Equal(t, "application/octet-stream", container.MediaType("doc.txt"))
}
