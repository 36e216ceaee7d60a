// Package metadata turns decoded metadata sources (ComicInfo.xml, OPF
// package documents, PDF info dictionaries) into typed, normalized values.
//
// Every parser in this package is total: missing keys, malformed values and
// unknown vocabulary tokens degrade to the field's absent or default value
// and are never reported as errors.
package metadata

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/util"
	"github.com/vrsandeep/mango-meta/internal/xmltree"
)

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// Extractor reads normalized fields out of an XML tree.
type Extractor struct {
	tree *xmltree.Tree
	log  *zap.Logger
}

// NewExtractor returns an extractor over tree. A nil tree reads as an empty
// source and a nil logger discards output.
func NewExtractor(tree *xmltree.Tree, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{tree: tree, log: log}
}

// String returns the normalized text stored under key, or nil.
func (e *Extractor) String(key string) *string {
	return textOf(e.tree.Find(key))
}

// RichText is String for descriptive fields. Unescaped child elements are
// kept as markup and anything outside the rich-text allow-list is removed.
func (e *Extractor) RichText(key string) *string {
	return richTextOf(e.tree.Find(key))
}

// Int parses the leading integer of the value under key.
func (e *Extractor) Int(key string) *int {
	s := e.String(key)
	if s == nil {
		return nil
	}
	n, ok := parseLeadingInt(*s)
	if !ok {
		e.log.Debug("Ignoring non-numeric value", zap.String("key", key), zap.String("value", *s))
		return nil
	}
	return &n
}

// Float parses the value under key as a finite decimal.
func (e *Extractor) Float(key string) *float64 {
	s := e.String(key)
	if s == nil {
		return nil
	}
	f, ok := parseFloat(*s)
	if !ok {
		e.log.Debug("Ignoring non-decimal value", zap.String("key", key), zap.String("value", *s))
		return nil
	}
	return &f
}

// List splits the value under key on commas. It never returns nil.
func (e *Extractor) List(key string) []string {
	return splitList(e.String(key))
}

func textOf(v xmltree.Value) *string {
	s, ok := xmltree.TextContent(v)
	if !ok {
		return nil
	}
	return optional(util.NormalizeText(s))
}

func richTextOf(v xmltree.Value) *string {
	s, ok := xmltree.InnerMarkup(v)
	if !ok {
		return nil
	}
	return optional(util.SanitizeHTML(s))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseLeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func splitList(s *string) []string {
	items := []string{}
	if s == nil {
		return items
	}
	for _, part := range strings.Split(*s, ",") {
		if item := util.NormalizeText(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
