// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// anyTag matches a single markup tag for the plain-text fallback.
var anyTag = regexp.MustCompile(`<[^>]+>`)

// Paragraph is a top-level <p> element of a fragment: its class attribute
// ("" when absent) and its flattened text.
type Paragraph struct {
	Class string
	Text  string
}

// ExtractParagraphs parses a sanitized fragment under a synthetic root and
// returns its direct <p> children in document order. When the fragment is
// still not well-formed, it degrades to plain text: tags become line breaks
// and every non-empty trimmed line is a paragraph without a class.
func ExtractParagraphs(fragment string, log *zap.Logger) []Paragraph {
	paras, err := parseParagraphs(fragment)
	if err == nil {
		return paras
	}
	if log != nil {
		log.Debug("fragment is not well-formed, extracting plain text", zap.Error(err))
	}
	return plainParagraphs(fragment)
}

// Paragraphs sanitizes an HTML fragment and extracts its paragraphs.
func Paragraphs(fragment string, log *zap.Logger) []Paragraph {
	return ExtractParagraphs(Sanitize(fragment), log)
}

func parseParagraphs(fragment string) ([]Paragraph, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<root>" + fragment + "</root>"); err != nil {
		return nil, err
	}

	var paras []Paragraph
	for _, el := range doc.Root().ChildElements() {
		if el.FullTag() != "p" {
			continue
		}
		paras = append(paras, Paragraph{
			Class: el.SelectAttrValue("class", ""),
			Text:  TextContent(el),
		})
	}
	return paras, nil
}

func plainParagraphs(fragment string) []Paragraph {
	var paras []Paragraph
	for _, line := range strings.Split(anyTag.ReplaceAllString(fragment, "\n"), "\n") {
		line = strings.TrimSpace(html.UnescapeString(line))
		if line != "" {
			paras = append(paras, Paragraph{Text: line})
		}
	}
	return paras
}

// TextContent concatenates the character data of e and all its descendants.
func TextContent(e *etree.Element) string {
	var b strings.Builder
	writeText(&b, e)
	return b.String()
}

func writeText(b *strings.Builder, e *etree.Element) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeText(b, t)
		}
	}
}
