// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup turns the HTML fragments embedded in treaty JSON into
// ordered paragraphs: it repairs void tags and stray ampersands so the
// fragment parses as XML, extracts the top-level <p> elements, and splits
// leading enumeration markers from paragraph text.
package markup

import (
	"regexp"
	"strings"
)

var (
	// voidEndTag matches explicit closers of void elements, which are
	// dropped before the open tags are rewritten into pairs.
	voidEndTag = regexp.MustCompile(`(?i)</(?:br|hr|img)\s*>`)
	brTag      = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTag      = regexp.MustCompile(`(?i)<hr\s*/?>`)
	imgTag     = regexp.MustCompile(`(?i)<img(\s[^>]*?)?\s*/?>`)

	// ampersand matches every '&' together with the entity it already
	// starts, if any. A bare match is a stray ampersand.
	ampersand = regexp.MustCompile(`&(?:amp;|lt;|gt;|quot;|apos;|#[0-9]+;|#[xX][0-9a-fA-F]+;)?`)
)

// Sanitize rewrites <br>, <hr>, and <img> (with or without a self-closing
// slash, any case) into explicit open and close pairs, replaces &nbsp; with
// &#160;, and escapes bare ampersands. Existing entity references and
// numeric character references are left as they are.
func Sanitize(fragment string) string {
	if fragment == "" {
		return fragment
	}

	s := voidEndTag.ReplaceAllString(fragment, "")
	s = brTag.ReplaceAllString(s, "<br></br>")
	s = hrTag.ReplaceAllString(s, "<hr></hr>")
	s = imgTag.ReplaceAllString(s, "<img$1></img>")

	s = strings.ReplaceAll(s, "&nbsp;", "&#160;")
	s = ampersand.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
	return s
}
