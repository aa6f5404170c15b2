// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package text implements title casing for treaty names.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// prepositions stay lowercase unless they open the title.
var prepositions = map[string]bool{
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "from": true, "by": true, "about": true,
	"as": true, "into": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "between": true, "under": true,
	"over": true,
}

// NormalizeTitle title-cases s: each whitespace-separated word gets an upper
// case first letter and a lower case remainder, except prepositions after
// the first word, which are lowered entirely. Words are rejoined with single
// spaces. Empty or whitespace-only input is returned unchanged.
func NormalizeTitle(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	lower := cases.Lower(language.English)

	for i, w := range words {
		lw := lower.String(w)
		if i > 0 && prepositions[lw] {
			words[i] = lw
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}
