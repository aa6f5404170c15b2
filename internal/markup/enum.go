// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"regexp"
	"strings"
)

// enumMarker matches "12.", "a)", or "(iv)" at the start of a paragraph.
// (?s) lets the body run across embedded line breaks. The separator also
// takes Unicode spaces since &nbsp; reaches here as U+00A0.
var enumMarker = regexp.MustCompile(`(?s)^(\d+\.|[a-z]\)|\([ivx]+\))[\s\p{Zs}]*(.*)$`)

// indentClasses are checked in order; the first one found in a class
// attribute sets the level.
var indentClasses = []struct {
	class string
	level int
}{
	{"indent-1", 1},
	{"indent-2", 2},
	{"indent-3", 3},
}

// EnumeratedParagraph is a paragraph split into its enumeration marker and
// body. Marker is empty when the text carries no marker, in which case Body
// is the original text.
type EnumeratedParagraph struct {
	Marker string
	Body   string
	Level  int
}

// Enumerated reports whether a marker was found.
func (p EnumeratedParagraph) Enumerated() bool {
	return p.Marker != ""
}

// DetectEnumeration splits a leading enumeration marker and the whitespace
// after it from text. ok is false when text does not start with a marker.
func DetectEnumeration(text string) (marker, body string, ok bool) {
	m := enumMarker.FindStringSubmatch(text)
	if m == nil {
		return "", text, false
	}
	return m[1], m[2], true
}

// IndentLevel maps a class attribute to a nesting level from 0 to 3.
func IndentLevel(class string) int {
	for _, ic := range indentClasses {
		if strings.Contains(class, ic.class) {
			return ic.level
		}
	}
	return 0
}

// Enumerate runs DetectEnumeration on p and attaches its indent level.
func Enumerate(p Paragraph) EnumeratedParagraph {
	marker, body, _ := DetectEnumeration(p.Text)
	return EnumeratedParagraph{
		Marker: marker,
		Body:   body,
		Level:  IndentLevel(p.Class),
	}
}
