package util

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalCompare(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want int
	}{
		{"page numbers by value", "page2.jpg", "page10.jpg", -1},
		{"case folded", "Page10.JPG", "page2.jpg", 1},
		{"zero padded", "001.png", "02.png", -1},
		{"chapter folders", "ch 2/001.jpg", "ch 10/001.jpg", -1},
		{"folder before its pages", "ch1", "ch1/001.jpg", -1},
		{"segments compare first", "a/z.jpg", "a.b/a.jpg", -1},
		{"digits before text", "000.jpg", "cover.jpg", -1},
		{"prefix first", "page", "page1", -1},
		{"dotted versions", "v1.2", "v1.10", -1},
		{"long digit runs", "scan_99999999999999999999.jpg", "scan_100000000000000000000.jpg", -1},
		{"windows separators", `vol 2\p1.jpg`, `vol 10\p1.jpg`, -1},
		{"equal", "ComicInfo.xml", "ComicInfo.xml", 0},
		{"case tie broken by bytes", "Page1.jpg", "page1.jpg", -1},
		{"padding tie broken by bytes", "01.jpg", "1.jpg", -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NaturalCompare(tc.a, tc.b))
			assert.Equal(t, -tc.want, NaturalCompare(tc.b, tc.a))
			assert.Equal(t, tc.want < 0, NaturalSortLess(tc.a, tc.b))
		})
	}
}

func TestSortEntries(t *testing.T) {
	want := []string{
		"ComicInfo.xml",
		"Vol 1/Ch 2/page1.jpg",
		"Vol 1/Ch 2/Page2.jpg",
		"Vol 1/Ch 2/page10.jpg",
		"Vol 1/Ch 10/page1.jpg",
		"Vol 2/001.jpg",
		"Vol 2/cover.jpg",
		"Vol 10/001.jpg",
	}

	r := rand.New(rand.NewSource(1))
	for range 5 {
		entries := append([]string(nil), want...)
		r.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		SortEntries(entries)
		assert.Equal(t, want, entries)
	}
}

func TestIsJunkEntry(t *testing.T) {
	testCases := []struct {
		entry string
		want  bool
	}{
		{"page1.jpg", false},
		{"OEBPS/content.opf", false},
		{"__MACOSX/page1.jpg", true},
		{"Vol 1/__MACOSX/._page1.jpg", true},
		{"._page1.jpg", true},
		{"Vol 1/.DS_Store", true},
		{"thumbs.db", true},
		{".hidden.jpg", false},
		{"", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsJunkEntry(tc.entry), "IsJunkEntry(%q)", tc.entry)
	}
}
