// Package xmltree is the thin XML decoding layer the metadata parsers sit on.
// It wraps an etree document and answers one question: what is stored under
// a key, and is it plain text or a nested node?
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Kind tags a lookup result.
type Kind int

const (
	// Absent means the key was not found.
	Absent Kind = iota
	// Scalar is a leaf element without attributes; Text holds its content.
	Scalar
	// Node is an element with child elements or attributes.
	Node
)

// Value is the result of a key lookup.
type Value struct {
	Kind    Kind
	Text    string
	Element *etree.Element
}

// Tree is a decoded XML document.
type Tree struct {
	doc *etree.Document
}

// Parse decodes raw XML bytes. Non UTF-8 documents are transcoded using the
// encoding named in the XML declaration, and HTML named entities such as
// &nbsp; are accepted.
func Parse(data []byte) (*Tree, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("xmltree: parse: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("xmltree: document has no root element")
	}
	return &Tree{doc: doc}, nil
}

// Root returns the document element. It is nil for a nil tree.
func (t *Tree) Root() *etree.Element {
	if t == nil {
		return nil
	}
	return t.doc.Root()
}

// Find looks key up among the root's children first and then anywhere in
// the document. Namespaced keys use their prefix, e.g. "dc:title".
func (t *Tree) Find(key string) Value {
	root := t.Root()
	if root == nil || key == "" {
		return Value{}
	}
	el := findElement(root, "./"+key)
	if el == nil {
		el = findElement(root, ".//"+key)
	}
	return ValueOf(el)
}

// FindAll returns every element matching an etree path relative to the root.
func (t *Tree) FindAll(path string) []*etree.Element {
	root := t.Root()
	if root == nil {
		return nil
	}
	p, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	return root.FindElementsPath(p)
}

func findElement(root *etree.Element, path string) *etree.Element {
	p, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	return root.FindElementPath(p)
}

// ValueOf classifies an element found by other means than Find. A nil
// element is Absent.
func ValueOf(el *etree.Element) Value {
	if el == nil {
		return Value{}
	}
	if len(el.ChildElements()) == 0 && len(el.Attr) == 0 {
		return Value{Kind: Scalar, Text: directText(el), Element: el}
	}
	return Value{Kind: Node, Element: el}
}

// TextContent unwraps a value to its text. Nodes yield the character data
// of all their descendants in document order.
func TextContent(v Value) (string, bool) {
	switch v.Kind {
	case Scalar:
		return v.Text, v.Text != ""
	case Node:
		text := deepText(v.Element)
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		return text, true
	default:
		return "", false
	}
}

// InnerMarkup is TextContent with the child elements of a node kept as
// tags, so "<Summary>a <b>b</b></Summary>" yields "a <b>b</b>". Character
// data is written unescaped, the same way a Scalar's Text is.
func InnerMarkup(v Value) (string, bool) {
	if v.Kind != Node {
		return TextContent(v)
	}
	var b strings.Builder
	writeMarkup(&b, v.Element.Child)
	if strings.TrimSpace(deepText(v.Element)) == "" {
		return "", false
	}
	return b.String(), true
}

var markupSettings = etree.WriteSettings{}

func writeMarkup(b *strings.Builder, tokens []etree.Token) {
	for _, tok := range tokens {
		switch tok := tok.(type) {
		case *etree.CharData:
			b.WriteString(tok.Data)
		case *etree.Element:
			b.WriteByte('<')
			b.WriteString(tok.FullTag())
			for _, a := range tok.Attr {
				b.WriteByte(' ')
				a.WriteTo(b, &markupSettings)
			}
			if len(tok.Child) == 0 {
				b.WriteString("/>")
				continue
			}
			b.WriteByte('>')
			writeMarkup(b, tok.Child)
			b.WriteString("</")
			b.WriteString(tok.FullTag())
			b.WriteByte('>')
		}
	}
}

// Attributes returns the element's attributes keyed by their full name.
func Attributes(el *etree.Element) map[string]string {
	attrs := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		attrs[a.FullKey()] = a.Value
	}
	return attrs
}

func directText(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}

func deepText(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch tok := tok.(type) {
		case *etree.CharData:
			b.WriteString(tok.Data)
		case *etree.Element:
			b.WriteString(deepText(tok))
		}
	}
	return b.String()
}
