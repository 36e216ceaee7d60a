package metadata

import (
	"strconv"
	"strings"
	"time"

	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/util"
)

// pdfDateLayouts maps the digit count of a PDF date to its layout.
var pdfDateLayouts = map[int]string{
	4:  "2006",
	6:  "200601",
	8:  "20060102",
	10: "2006010215",
	12: "200601021504",
	14: "20060102150405",
}

// PDFInfo is a parsed PDF document information dictionary.
type PDFInfo struct {
	Title    *string
	Authors  []string
	Subject  *string
	Keywords []string
	Creator  *string
	Producer *string
	Created  *time.Time
	Modified *time.Time
}

// ParsePDFInfo reads the info dictionary keys reported by the PDF renderer
// (title, author, subject, keywords, creator, producer, creationDate,
// modDate). Unknown keys are ignored.
func ParsePDFInfo(info map[string]string) PDFInfo {
	get := func(key string) *string {
		return optional(util.NormalizeText(info[key]))
	}
	return PDFInfo{
		Title:    get("title"),
		Authors:  splitList(get("author")),
		Subject:  optional(util.HTMLToText(info["subject"])),
		Keywords: splitKeywords(info["keywords"]),
		Creator:  get("creator"),
		Producer: get("producer"),
		Created:  parsePDFDate(info["creationDate"]),
		Modified: parsePDFDate(info["modDate"]),
	}
}

// ToMap lists the parsed info dictionary.
func (p PDFInfo) ToMap() models.OrderedMap {
	var created, modified any
	if p.Created != nil {
		created = *p.Created
	}
	if p.Modified != nil {
		modified = *p.Modified
	}
	return models.OrderedMap{
		{Key: "title", Value: deref(p.Title)},
		{Key: "authors", Value: p.Authors},
		{Key: "subject", Value: deref(p.Subject)},
		{Key: "keywords", Value: p.Keywords},
		{Key: "creator", Value: deref(p.Creator)},
		{Key: "producer", Value: deref(p.Producer)},
		{Key: "creationDate", Value: created},
		{Key: "modDate", Value: modified},
	}
}

// splitKeywords accepts both comma and semicolon separated keyword lists.
func splitKeywords(s string) []string {
	s = strings.ReplaceAll(s, ";", ",")
	return splitList(&s)
}

// parsePDFDate parses "D:YYYYMMDDHHmmSSOHH'mm'" and its truncated forms.
func parsePDFDate(s string) *time.Time {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	layout, ok := pdfDateLayouts[n]
	if !ok {
		return nil
	}
	t, err := time.ParseInLocation(layout, s[:n], pdfZone(s[n:]))
	if err != nil {
		return nil
	}
	return &t
}

// pdfZone reads the "Z", "+HH'mm'" or "-HH'mm'" suffix of a PDF date.
func pdfZone(s string) *time.Location {
	if len(s) < 3 || (s[0] != '+' && s[0] != '-') {
		return time.UTC
	}
	parts := strings.Split(strings.TrimSuffix(s[1:], "'"), "'")
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.UTC
	}
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	offset := hours*3600 + minutes*60
	if s[0] == '-' {
		offset = -offset
	}
	return time.FixedZone("", offset)
}
