// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pluto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/pdiddy/treaty-xml/internal/dates"
	"github.com/pdiddy/treaty-xml/internal/text"
	"github.com/pdiddy/treaty-xml/pkg/types"
)

const effectiveDateLabel = "Effective Date: "

func (c *Converter) appendPrelims(parent *etree.Element, t *types.Treaty) {
	prelims := leg(parent, "prelims")

	core(leg(prelims, "officialname"), "title").SetText(text.NormalizeTitle(t.Title))
	leg(prelims, "approval").SetText("Status: " + t.Status)

	if t.SignatureDate != "" {
		c.appendDated(prelims, "laid", "Signature Date: ", t.SignatureDate)
	}
	if t.EntryIntoForce != "" {
		c.appendDated(prelims, "made", "Entry into Force: ", t.EntryIntoForce)
	}
	if t.EffectiveDate != "" {
		c.appendEffectiveDates(leg(prelims, "operation"), t.EffectiveDate)
	}
}

// appendDated emits <lnb-leg:tag>label<core:date ...>value</core:date>.
// An unreadable value still gets a date element carrying the fallback.
func (c *Converter) appendDated(parent *etree.Element, tag, label, value string) {
	el := leg(parent, tag)
	el.CreateText(label)

	d := dates.Parse(value)
	if ce := c.log.Check(zap.DebugLevel, "date not recognised, using fallback"); ce != nil {
		if _, ok := dates.Find(value); !ok {
			ce.Write(zap.String("element", tag), zap.String("value", value))
		}
	}
	dateElement(el, d, value)
}

// appendEffectiveDates fills the operation element from a semicolon
// separated list of "date [note]" phrases. The label precedes the first
// date only and a note after a date follows it as its own text run. A
// segment without a date qualifies the date before it; with no date before
// it, the segment is dropped.
func (c *Converter) appendEffectiveDates(op *etree.Element, value string) {
	labelled := false
	for _, part := range strings.Split(value, ";") {
		seg := strings.TrimSpace(part)
		if seg == "" {
			continue
		}

		m, ok := dates.Find(seg)
		if !ok {
			if !labelled {
				c.log.Debug("effective date segment has no date, dropping", zap.String("segment", seg))
				continue
			}
			op.CreateText(" " + seg)
			continue
		}

		if !labelled {
			op.CreateText(effectiveDateLabel)
			labelled = true
		}
		dateElement(op, m.Date, fmt.Sprintf("%d %s %d", m.Day, m.MonthWord, m.Year))

		if note := strings.TrimSpace(seg[m.End:]); note != "" {
			op.CreateText(" " + note)
		}
	}
}

func dateElement(parent *etree.Element, d dates.Date, content string) *etree.Element {
	el := core(parent, "date")
	el.CreateAttr("day", strconv.Itoa(d.Day))
	el.CreateAttr("month", d.Month)
	el.CreateAttr("year", strconv.Itoa(d.Year))
	el.SetText(content)
	return el
}
