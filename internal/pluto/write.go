// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pluto

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// WriteOptions controls document serialization.
type WriteOptions struct {
	// Indent is the number of spaces per nesting level; 0 writes the tree
	// as built.
	Indent int

	// Declaration writes a UTF-8 XML declaration before the DOCTYPE.
	Declaration bool
}

// Write serializes doc to w. Indentation never touches elements with mixed
// content, so paragraph text and its enum markers keep their exact spacing.
// doc itself is not modified.
func Write(w io.Writer, doc *etree.Document, opts WriteOptions) error {
	out := doc.Copy()

	if opts.Indent > 0 && out.Root() != nil {
		indent(out.Root(), 0, strings.Repeat(" ", opts.Indent))
	}
	if opts.Declaration {
		out.InsertChildAt(0, &etree.ProcInst{Target: "xml", Inst: `version="1.0" encoding="UTF-8"`})
	}

	// One prolog token per line.
	for i := len(out.Child) - 1; i > 0; i-- {
		out.InsertChildAt(i, &etree.CharData{Data: "\n"})
	}
	out.CreateText("\n")

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// WriteString serializes doc with opts and returns the text.
func WriteString(doc *etree.Document, opts WriteOptions) (string, error) {
	var b strings.Builder
	if err := Write(&b, doc, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func indent(e *etree.Element, depth int, unit string) {
	if len(e.ChildElements()) == 0 || hasText(e) {
		return
	}

	for _, tok := range append([]etree.Token(nil), e.Child...) {
		if cd, ok := tok.(*etree.CharData); ok {
			e.RemoveChild(cd)
		}
	}

	pad := "\n" + strings.Repeat(unit, depth+1)
	for i := len(e.Child) - 1; i >= 0; i-- {
		if child, ok := e.Child[i].(*etree.Element); ok {
			indent(child, depth+1, unit)
		}
		e.InsertChildAt(i, &etree.CharData{Data: pad})
	}
	e.CreateText("\n" + strings.Repeat(unit, depth))
}

// hasText reports whether e has non-whitespace character data of its own.
func hasText(e *etree.Element) bool {
	for _, tok := range e.Child {
		if cd, ok := tok.(*etree.CharData); ok && !cd.IsWhitespace() {
			return true
		}
	}
	return false
}
