// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pluto

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/treaty-xml/internal/markup"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

// paraTags maps an indent level to its paragraph element.
var paraTags = [...]string{"para1", "para2", "para3", "para4"}

func (c *Converter) appendPreamble(parent *etree.Element, initials string) {
	preamble := leg(parent, "preamble")
	if initials == "" {
		return
	}
	for _, p := range markup.Paragraphs(initials, c.log) {
		leg(preamble, paraTags[0]).SetText(strings.TrimSpace(p.Text))
	}
}

func (c *Converter) appendMain(parent *etree.Element, articles []types.Article) {
	main := leg(parent, "main")
	for _, a := range articles {
		c.appendProvision(main, a)
	}
}

func (c *Converter) appendProvision(parent *etree.Element, a types.Article) {
	provision := leg(parent, "provision")

	desig := core(provision, "desig")
	desig.CreateAttr("value", a.Number)
	desig.SetText(a.Number)

	core(provision, "title").SetText(a.Title)

	if a.Description == "" {
		return
	}
	for _, p := range markup.Paragraphs(a.Description, c.log) {
		appendParagraph(provision, p)
	}
}

// appendParagraph emits an enumerated paragraph at its indent level with a
// core:enum marker, or a para1 holding the raw text when there is no marker.
func appendParagraph(parent *etree.Element, p markup.Paragraph) {
	ep := markup.Enumerate(p)
	if !ep.Enumerated() {
		leg(parent, paraTags[0]).SetText(p.Text)
		return
	}

	el := leg(parent, paraTags[ep.Level])
	core(el, "enum").SetText(ep.Marker)
	if ep.Body != "" {
		el.CreateText(ep.Body)
	}
}
