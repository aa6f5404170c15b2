// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pluto

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/treaty-xml/pkg/types"
)

func sampleDoc(t *testing.T) *etree.Document {
	t.Helper()
	return convert(t, &types.Treaty{
		Title:         "treaty of friendship",
		Status:        "In Force",
		SignatureDate: "1 January 2020",
		Articles: []types.Article{
			{Number: "1", Title: "Scope", Description: `<p class="indent-1">a) applies &amp; binds</p>`},
		},
	})
}

func TestWrite_Prolog(t *testing.T) {
	out, err := WriteString(sampleDoc(t), WriteOptions{Indent: 2, Declaration: true})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>`, lines[0])
	assert.Equal(t,
		`<!DOCTYPE tr:ch PUBLIC "-//LEXISNEXIS//DTD PLUTO v018//EN//XML" "C:\Neptune\NeptuneEditor\doctypes\plutoV018-0000\plutoV018-0000.dtd">`,
		lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `<tr:ch xmlns:core="http://www.lexisnexis.com/namespace/sslrp/core"`))
	assert.True(t, strings.HasSuffix(out, "</tr:ch>\n"))
}

func TestWrite_NoDeclaration(t *testing.T) {
	out, err := WriteString(sampleDoc(t), WriteOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE tr:ch"))
	assert.NotContains(t, out, "<?xml")
}

func TestWrite_MixedContentKeepsSpacing(t *testing.T) {
	out, err := WriteString(sampleDoc(t), WriteOptions{Indent: 2})
	require.NoError(t, err)

	assert.Contains(t, out, "<lnb-leg:para2><core:enum>a)</core:enum>applies &amp; binds</lnb-leg:para2>")
	assert.Contains(t, out, `<lnb-leg:laid>Signature Date: <core:date day="1" month="Jan" year="2020">1 January 2020</core:date></lnb-leg:laid>`)
	assert.Contains(t, out, "\n        <lnb-leg:prelims>\n")
}

func TestWrite_DoesNotModifyDocument(t *testing.T) {
	doc := sampleDoc(t)
	before, err := doc.WriteToString()
	require.NoError(t, err)

	_, err = WriteString(doc, WriteOptions{Indent: 4, Declaration: true})
	require.NoError(t, err)

	after, err := doc.WriteToString()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWrite_RoundTrip(t *testing.T) {
	out, err := WriteString(sampleDoc(t), WriteOptions{Indent: 2, Declaration: true})
	require.NoError(t, err)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromString(out))
	assert.Equal(t, "Treaty of Friendship", parsed.FindElement("//officialname/title").Text())
	assert.Equal(t, "a)", parsed.FindElement("//provision/para2/enum").Text())
}
