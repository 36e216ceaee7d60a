package formats

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/mango-meta/internal/container"
	"github.com/vrsandeep/mango-meta/internal/formats/cba"
	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/testutil"
	"github.com/vrsandeep/mango-meta/internal/vocab"
)

// resetRegistry is a helper to ensure a clean state for each test run.
func resetRegistry() {
	registry = make(map[string]models.Format)
	defaultsOnce = sync.Once{}
}

func TestFormatRegistry(t *testing.T) {
	resetRegistry()
	Register(cba.New())

	t.Run("Get All Formats", func(t *testing.T) {
		all := GetAll()
		require.Len(t, all, 1)
		assert.Equal(t, "cba", all[0].ID)
	})

	t.Run("Get Existing Format", func(t *testing.T) {
		f, ok := Get("cba")
		require.True(t, ok)
		assert.Equal(t, "Comic Book Archive", f.GetInfo().Name)
	})

	t.Run("Get Non-existent Format", func(t *testing.T) {
		_, ok := Get("nonexistent")
		assert.False(t, ok)
	})

	t.Run("Panic on Duplicate Registration", func(t *testing.T) {
		assert.Panics(t, func() { Register(cba.New()) })
	})
}

func TestRegisterDefaults(t *testing.T) {
	resetRegistry()
	RegisterDefaults()
	RegisterDefaults()

	var ids []string
	for _, info := range GetAll() {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"cba", "epub", "pdf"}, ids)
}

func TestForPath(t *testing.T) {
	resetRegistry()
	RegisterDefaults()

	tests := []struct {
		path string
		want string
	}{
		{"/library/Saga 001.cbz", "cba"},
		{"Saga 002.CBR", "cba"},
		{"a.cb7", "cba"},
		{"a.cbt", "cba"},
		{"novel.epub", "epub"},
		{"paper.PDF", "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.GetInfo().ID)
			assert.True(t, IsSupported(tt.path))
		})
	}

	for _, path := range []string{"notes.txt", "noext", "archive.zip"} {
		_, err := ForPath(path)
		assert.ErrorIs(t, err, ErrUnsupported, path)
		assert.False(t, IsSupported(path))
	}
}

// Every module must honour the same contract whatever its format: a Book
// with all lists initialised, a known age rating and an ordered dump.
func TestModuleContract(t *testing.T) {
	resetRegistry()
	RegisterDefaults()

	books := map[string]fstest.MapFS{
		"book.cbz": {
			"ComicInfo.xml": {Data: []byte(`<ComicInfo><Title>Sample</Title></ComicInfo>`)},
			"001.jpg":       {Data: []byte("x")},
		},
		"book.epub": {
			"content.opf": {Data: []byte(`<package version="3.0" xmlns:dc="http://purl.org/dc/elements/1.1/"><metadata><dc:title>Sample</dc:title></metadata></package>`)},
		},
		"book.pdf": {
			"book.pdf": {Data: testutil.BuildPDF(testutil.PDFDoc{Title: "Sample", Text: "one two"})},
		},
	}
	for name, files := range books {
		t.Run(name, func(t *testing.T) {
			f, err := ForPath(name)
			require.NoError(t, err)
			c, err := container.New(name, files)
			require.NoError(t, err)
			m, err := f.Open(c)
			require.NoError(t, err)

			b := m.ToBook()
			require.NotNil(t, b.Title)
			assert.Equal(t, "Sample", *b.Title)
			assert.Equal(t, vocab.AgeRatingUnknown, b.AgeRating)
			assert.NotNil(t, b.Writers)
			assert.NotNil(t, b.Identifiers)
			assert.NotNil(t, b.Extras)
			assert.Equal(t, "Sample ( #)", b.String())

			counts := m.ToCounts()
			require.NotNil(t, counts)
			assert.NotNil(t, counts.PageCount)
			assert.Nil(t, counts.Title)

			assert.NotEmpty(t, m.ToMap())
		})
	}
}
