// This file holds the string normalizers used by every metadata parser.
// Plain fields go through NormalizeText, descriptive fields that may carry
// markup go through SanitizeHTML or HTMLToText.

package util

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
)

// richTextTags are the only tags SanitizeHTML lets through.
var richTextTags = map[atom.Atom]bool{
	atom.Div:    true,
	atom.P:      true,
	atom.Br:     true,
	atom.B:      true,
	atom.I:      true,
	atom.U:      true,
	atom.Strong: true,
	atom.Em:     true,
}

// NormalizeText collapses every run of whitespace (tabs, newlines and
// carriage returns included) into a single space and trims the result.
// Other control characters are dropped. An empty return means "absent".
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(dropControl(s)), " ")
}

// dropControl removes control characters other than whitespace.
func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeHTML removes every tag except div, p, br, b, i, u, strong and em,
// then normalizes whitespace. Script and style bodies are dropped entirely.
func SanitizeHTML(s string) string {
	return stripTags(s, richTextTags)
}

// HTMLToText removes all markup and returns normalized plain text.
func HTMLToText(s string) string {
	return stripTags(s, nil)
}

func stripTags(s string, allowed map[atom.Atom]bool) string {
	if s == "" {
		return ""
	}

	// Control characters must go before tokenizing, or "<\x01b>" would only
	// turn into a tag on the next pass.
	s = dropControl(s)

	var b strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error, either way we're done.
			return NormalizeText(b.String())
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				switch tt {
				case html.StartTagToken:
					skipDepth++
				case html.EndTagToken:
					if skipDepth > 0 {
						skipDepth--
					}
				}
				continue
			}
			if skipDepth == 0 && allowed[a] {
				b.Write(z.Raw())
			}
		}
	}
}

// NormalizeLanguage returns the canonical BCP 47 form of a language code
// ("EN" -> "en", "pt_br" -> "pt-BR"). Unparseable codes are returned
// normalized but otherwise untouched.
func NormalizeLanguage(s string) string {
	s = NormalizeText(s)
	if s == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return s
	}
	return tag.String()
}
