package util

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NaturalCompare orders archive entries and library paths the way a reader
// expects pages to follow each other: path segments are compared one by one,
// digit runs compare by value ("page2" < "page10") and letters compare
// without case ("Page10.JPG" > "page2.jpg"). Names that only differ in case
// or leading zeros fall back to byte order, so the order is total.
func NaturalCompare(a, b string) int {
	sa, sb := splitPath(a), splitPath(b)
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if c := compareSegment(sa[i], sb[i]); c != 0 {
			return c
		}
	}
	if len(sa) != len(sb) {
		// "ch1" sorts before "ch1/001.jpg".
		if len(sa) < len(sb) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// NaturalSortLess reports whether a sorts before b under NaturalCompare.
func NaturalSortLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// SortEntries sorts paths in place with NaturalCompare.
func SortEntries(paths []string) {
	slices.SortFunc(paths, NaturalCompare)
}

// IsJunkEntry reports whether an archive entry is operating system clutter
// rather than book content: resource forks under __MACOSX, AppleDouble
// "._" files, .DS_Store and Thumbs.db.
func IsJunkEntry(p string) bool {
	segs := splitPath(p)
	if len(segs) == 0 {
		return false
	}
	if slices.Contains(segs, "__MACOSX") {
		return true
	}
	base := segs[len(segs)-1]
	return strings.HasPrefix(base, "._") ||
		strings.EqualFold(base, ".DS_Store") ||
		strings.EqualFold(base, "Thumbs.db")
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
}

// compareSegment compares one path segment. Digit runs sort before text
// runs at the same position.
func compareSegment(a, b string) int {
	for a != "" && b != "" {
		ra, _ := utf8.DecodeRuneInString(a)
		rb, _ := utf8.DecodeRuneInString(b)
		da, db := isDigit(ra), isDigit(rb)
		switch {
		case da && db:
			na, restA := digitRun(a)
			nb, restB := digitRun(b)
			if c := compareNumbers(na, nb); c != 0 {
				return c
			}
			a, b = restA, restB
		case da:
			return -1
		case db:
			return 1
		default:
			ta, restA := textRun(a)
			tb, restB := textRun(b)
			if c := strings.Compare(fold(ta), fold(tb)); c != 0 {
				return c
			}
			a, b = restA, restB
		}
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitRun(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return s[:i], s[i:]
}

func textRun(s string) (string, string) {
	i := strings.IndexFunc(s, isDigit)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// compareNumbers compares two digit runs by value without converting them,
// so runs longer than an int still order correctly.
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}
