package metadata

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/models"
	"github.com/vrsandeep/mango-meta/internal/util"
	"github.com/vrsandeep/mango-meta/internal/xmltree"
)

const dcNamespace = "http://purl.org/dc/elements/1.1/"

// dateLayouts are the dc:date shapes seen in the wild, most precise first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Package is a parsed OPF package document (EPUB 2 and EPUB 3).
type Package struct {
	Version          string
	UniqueIdentifier string

	Title        *string
	Writers      []string
	Translators  []string
	Editors      []string
	Illustrators []string
	CoverArtists []string
	Contributors []string
	Summary      *string
	Publisher    *string
	Language     *string
	Subjects     []string
	Identifiers  []Identifier
	Date         *time.Time
	Rights       *string
	Series       *string
	SeriesIndex  *int
	Rating       *float64 // calibre:rating, kept as found

	// CoverID is the manifest id named by <meta name="cover">.
	CoverID  string
	Manifest []ManifestItem
	Spine    []SpineItem
	Guide    []GuideReference
}

// Identifier is a dc:identifier with its scheme, when one is known.
type Identifier struct {
	Value  string
	Scheme string
	ID     string
}

// ManifestItem is an <item> of the manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// SpineItem is an <itemref> of the spine.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// GuideReference is a <reference> of the EPUB 2 guide.
type GuideReference struct {
	Type  string
	Title string
	Href  string
}

// ParsePackage extracts the metadata, manifest, spine and guide of an OPF
// document. A nil tree yields an empty Package.
func ParsePackage(tree *xmltree.Tree, log *zap.Logger) Package {
	e := NewExtractor(tree, log)

	p := Package{
		Writers:      []string{},
		Translators:  []string{},
		Editors:      []string{},
		Illustrators: []string{},
		CoverArtists: []string{},
		Contributors: []string{},
		Subjects:     []string{},
		Identifiers:  []Identifier{},
	}

	root := tree.Root()
	if root == nil {
		return p
	}
	p.Version = root.SelectAttrValue("version", "2.0")
	p.UniqueIdentifier = root.SelectAttrValue("unique-identifier", "")

	metadata := firstChild(root, "metadata")
	if metadata == nil {
		metadata = root
	}

	p.Title = textOf(dcValue(metadata, "title"))
	p.Summary = richTextOf(dcValue(metadata, "description"))
	p.Publisher = textOf(dcValue(metadata, "publisher"))
	p.Rights = textOf(dcValue(metadata, "rights"))
	if lang := textOf(dcValue(metadata, "language")); lang != nil {
		p.Language = optional(util.NormalizeLanguage(*lang))
	}
	metas := children(metadata, "meta")
	refines := refinesByID(metas)

	for _, el := range dcElements(metadata, "creator") {
		p.addContributor(el, refines, "aut")
	}
	for _, el := range dcElements(metadata, "contributor") {
		p.addContributor(el, refines, "")
	}

	for _, el := range dcElements(metadata, "subject") {
		if s := util.NormalizeText(el.Text()); s != "" {
			p.Subjects = append(p.Subjects, s)
		}
	}

	for _, el := range dcElements(metadata, "identifier") {
		value := util.NormalizeText(el.Text())
		if value == "" {
			continue
		}
		id := Identifier{
			Value:  value,
			Scheme: attr(el, "scheme"),
			ID:     el.SelectAttrValue("id", ""),
		}
		if id.Scheme == "" && id.ID != "" {
			id.Scheme = refines.find(id.ID, "identifier-type")
		}
		id.Value, id.Scheme = splitURN(id.Value, id.Scheme)
		p.Identifiers = append(p.Identifiers, id)
	}

	for _, el := range dcElements(metadata, "date") {
		if d := parseDate(el.Text()); d != nil {
			p.Date = d
			break
		}
		e.log.Debug("Ignoring unparseable dc:date", zap.String("value", el.Text()))
	}

	p.parseMetas(metas, refines, e.log)

	if manifest := firstChild(root, "manifest"); manifest != nil {
		for _, el := range children(manifest, "item") {
			p.Manifest = append(p.Manifest, ManifestItem{
				ID:         el.SelectAttrValue("id", ""),
				Href:       el.SelectAttrValue("href", ""),
				MediaType:  el.SelectAttrValue("media-type", ""),
				Properties: strings.Fields(el.SelectAttrValue("properties", "")),
			})
		}
	}
	if spine := firstChild(root, "spine"); spine != nil {
		for _, el := range children(spine, "itemref") {
			p.Spine = append(p.Spine, SpineItem{
				IDRef:  el.SelectAttrValue("idref", ""),
				Linear: el.SelectAttrValue("linear", "yes") != "no",
			})
		}
	}
	if guide := firstChild(root, "guide"); guide != nil {
		for _, el := range children(guide, "reference") {
			p.Guide = append(p.Guide, GuideReference{
				Type:  el.SelectAttrValue("type", ""),
				Title: el.SelectAttrValue("title", ""),
				Href:  el.SelectAttrValue("href", ""),
			})
		}
	}

	return p
}

func (p *Package) addContributor(el *etree.Element, refines refineMap, defaultRole string) {
	name := util.NormalizeText(el.Text())
	if name == "" {
		return
	}
	role := attr(el, "role")
	if role == "" {
		if id := el.SelectAttrValue("id", ""); id != "" {
			role = refines.find(id, "role")
		}
	}
	if role == "" {
		role = defaultRole
	}

	switch strings.ToLower(role) {
	case "aut":
		p.Writers = append(p.Writers, name)
	case "trl":
		p.Translators = append(p.Translators, name)
	case "edt":
		p.Editors = append(p.Editors, name)
	case "ill":
		p.Illustrators = append(p.Illustrators, name)
	case "cov", "art":
		p.CoverArtists = append(p.CoverArtists, name)
	default:
		p.Contributors = append(p.Contributors, name)
	}
}

// parseMetas reads calibre's name/content pairs and the EPUB 3 collection
// properties.
func (p *Package) parseMetas(metas []*etree.Element, refines refineMap, log *zap.Logger) {
	for _, m := range metas {
		name := m.SelectAttrValue("name", "")
		content := util.NormalizeText(m.SelectAttrValue("content", ""))

		switch name {
		case "cover":
			p.CoverID = content
		case "calibre:series":
			if content != "" {
				p.Series = &content
			}
		case "calibre:series_index":
			if n, ok := parseLeadingInt(content); ok {
				p.SeriesIndex = &n
			}
		case "calibre:rating":
			if f, ok := parseFloat(content); ok {
				p.Rating = &f
			} else if content != "" {
				log.Debug("Ignoring non-decimal calibre:rating", zap.String("value", content))
			}
		}

		if m.SelectAttrValue("property", "") == "belongs-to-collection" && p.Series == nil {
			if series := util.NormalizeText(m.Text()); series != "" {
				p.Series = &series
				if id := m.SelectAttrValue("id", ""); id != "" {
					if n, ok := parseLeadingInt(refines.find(id, "group-position")); ok {
						p.SeriesIndex = &n
					}
				}
			}
		}
	}
}

// ToMap lists the parsed package metadata.
func (p Package) ToMap() models.OrderedMap {
	identifiers := make([]map[string]string, 0, len(p.Identifiers))
	for _, id := range p.Identifiers {
		identifiers = append(identifiers, map[string]string{"value": id.Value, "scheme": id.Scheme, "id": id.ID})
	}
	var date any
	if p.Date != nil {
		date = *p.Date
	}
	return models.OrderedMap{
		{Key: "version", Value: p.Version},
		{Key: "uniqueIdentifier", Value: p.UniqueIdentifier},
		{Key: "title", Value: deref(p.Title)},
		{Key: "writers", Value: p.Writers},
		{Key: "translators", Value: p.Translators},
		{Key: "editors", Value: p.Editors},
		{Key: "illustrators", Value: p.Illustrators},
		{Key: "coverArtists", Value: p.CoverArtists},
		{Key: "contributors", Value: p.Contributors},
		{Key: "summary", Value: deref(p.Summary)},
		{Key: "publisher", Value: deref(p.Publisher)},
		{Key: "language", Value: deref(p.Language)},
		{Key: "subjects", Value: p.Subjects},
		{Key: "identifiers", Value: identifiers},
		{Key: "date", Value: date},
		{Key: "rights", Value: deref(p.Rights)},
		{Key: "series", Value: deref(p.Series)},
		{Key: "seriesIndex", Value: deref(p.SeriesIndex)},
		{Key: "rating", Value: deref(p.Rating)},
		{Key: "coverId", Value: p.CoverID},
	}
}

// ManifestByID returns the manifest item with the given id.
func (p Package) ManifestByID(id string) (ManifestItem, bool) {
	for _, item := range p.Manifest {
		if item.ID == id {
			return item, true
		}
	}
	return ManifestItem{}, false
}

func parseDate(s string) *time.Time {
	s = util.NormalizeText(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// splitURN turns "urn:isbn:978..." into ("978...", "isbn") when no scheme
// was declared.
func splitURN(value, scheme string) (string, string) {
	lower := strings.ToLower(value)
	for _, prefix := range []string{"urn:isbn:", "urn:uuid:", "isbn:", "uuid:"} {
		if strings.HasPrefix(lower, prefix) {
			if scheme == "" {
				scheme = strings.TrimSuffix(strings.TrimPrefix(prefix, "urn:"), ":")
			}
			return value[len(prefix):], strings.ToLower(scheme)
		}
	}
	return value, strings.ToLower(scheme)
}

type refineMap map[string][]*etree.Element

func refinesByID(metas []*etree.Element) refineMap {
	m := refineMap{}
	for _, meta := range metas {
		ref := meta.SelectAttrValue("refines", "")
		if !strings.HasPrefix(ref, "#") {
			continue
		}
		m[ref[1:]] = append(m[ref[1:]], meta)
	}
	return m
}

func (m refineMap) find(id, property string) string {
	for _, meta := range m[id] {
		if meta.SelectAttrValue("property", "") == property {
			return util.NormalizeText(meta.Text())
		}
	}
	return ""
}

// attr reads an OPF attribute that may or may not carry the opf: prefix.
func attr(el *etree.Element, key string) string {
	if v := el.SelectAttrValue("opf:"+key, ""); v != "" {
		return v
	}
	return el.SelectAttrValue(key, "")
}

// dcValue returns the first Dublin Core element named tag that has text.
func dcValue(el *etree.Element, tag string) xmltree.Value {
	for _, c := range dcElements(el, tag) {
		v := xmltree.ValueOf(c)
		if _, ok := xmltree.TextContent(v); ok {
			return v
		}
	}
	return xmltree.Value{}
}

// dcElements returns the Dublin Core children of el named tag.
func dcElements(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag && (c.Space == "dc" || c.NamespaceURI() == dcNamespace) {
			out = append(out, c)
		}
	}
	return out
}

// children returns the children of el whose local name is tag, whatever
// prefix the document uses.
func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func firstChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
