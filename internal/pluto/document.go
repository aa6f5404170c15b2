// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pluto assembles PLUTO international-agreement documents from
// treaty records. The output is an etree document with a DOCTYPE directive
// and a tr:ch root that binds every schema prefix. Record fields are
// normalized on the way in and placed into the namespaced tree.
package pluto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/pdiddy/treaty-xml/pkg/types"
)

// DOCTYPE declaration constants.
const (
	RootName = "tr:ch"
	PublicID = "-//LEXISNEXIS//DTD PLUTO v018//EN//XML"
	SystemID = `C:\Neptune\NeptuneEditor\doctypes\plutoV018-0000\plutoV018-0000.dtd`
)

var (
	// ErrEmptyInput is returned when the JSON text is empty or whitespace.
	ErrEmptyInput = errors.New("treaty JSON is empty")

	// ErrNilRecord is returned when there is no treaty record to convert,
	// including JSON that decodes to null.
	ErrNilRecord = errors.New("treaty record is nil")
)

// Converter turns treaty JSON into PLUTO documents. It holds no state
// between conversions and is safe for concurrent use.
type Converter struct {
	log *zap.Logger
}

// NewConverter creates a Converter that reports degraded fields to log at
// debug level. A nil logger discards them.
func NewConverter(log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{log: log}
}

// Convert decodes treaty JSON and assembles its document. Field names are
// matched case-insensitively. Empty input, null, and undecodable JSON fail
// before any XML is built.
func (c *Converter) Convert(data []byte) (*etree.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	var treaty *types.Treaty
	if err := json.Unmarshal(data, &treaty); err != nil {
		return nil, fmt.Errorf("decoding treaty JSON: %w", err)
	}
	return c.ConvertTreaty(treaty)
}

// ConvertTreaty assembles the document for t. Field-level problems such as
// unreadable dates or malformed HTML degrade the output but never fail.
func (c *Converter) ConvertTreaty(t *types.Treaty) (*etree.Document, error) {
	if t == nil {
		return nil, ErrNilRecord
	}

	root := newRoot("ch")
	core(root, "no-title")

	legislation := leg(root, "legislation")
	agreement := leg(leg(legislation, "international-legislation"), "international-agreement")

	c.appendPrelims(agreement, t)
	c.appendPreamble(agreement, t.Initials)
	c.appendMain(agreement, t.Articles)

	doc := etree.NewDocument()
	doc.CreateDirective(fmt.Sprintf(`DOCTYPE %s PUBLIC "%s" "%s"`, RootName, PublicID, SystemID))
	doc.SetRoot(root)
	return doc, nil
}

// Summary describes a converted document for status reporting.
type Summary struct {
	Title      string
	Provisions int
}

// Summarize reads the official title and provision count back out of doc.
func Summarize(doc *etree.Document) Summary {
	var s Summary
	if el := doc.FindElement("//officialname/title"); el != nil {
		s.Title = el.Text()
	}
	s.Provisions = len(doc.FindElements("//main/provision"))
	return s
}
