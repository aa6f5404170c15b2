// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtractParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Paragraph
	}{
		{
			name: "class and order",
			in:   `<p class="a">Hello</p><p>World</p>`,
			want: []Paragraph{{Class: "a", Text: "Hello"}, {Class: "", Text: "World"}},
		},
		{
			name: "nested markup flattened",
			in:   `<p>The <b>Contracting</b> <i>States</i></p>`,
			want: []Paragraph{{Text: "The Contracting States"}},
		},
		{
			name: "non-paragraph children ignored",
			in:   `<div>skip</div><p>keep</p><ul><li>skip</li></ul>`,
			want: []Paragraph{{Text: "keep"}},
		},
		{
			name: "entities decoded",
			in:   `<p>Tom &amp; Jerry&#160;Ltd</p>`,
			want: []Paragraph{{Text: "Tom & Jerry\u00a0Ltd"}},
		},
		{
			name: "text is not trimmed",
			in:   "<p>  padded  </p>",
			want: []Paragraph{{Text: "  padded  "}},
		},
		{
			name: "no paragraphs",
			in:   "plain text only",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractParagraphs(tt.in, zap.NewNop()))
		})
	}
}

func TestExtractParagraphs_Fallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	// Unclosed <p> cannot be parsed strictly.
	in := "<p class=\"indent-1\">first line<p>second &amp; last\n\n   "
	got := ExtractParagraphs(in, log)

	assert.Equal(t, []Paragraph{{Text: "first line"}, {Text: "second & last"}}, got)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "not well-formed")
}

func TestExtractParagraphs_NilLogger(t *testing.T) {
	got := ExtractParagraphs("<p>unclosed", nil)
	assert.Equal(t, []Paragraph{{Text: "unclosed"}}, got)
}

func TestParagraphs_SanitizesFirst(t *testing.T) {
	got := Paragraphs(`<p>one<br>two &nbsp;three & four<img src="x"></p>`, zap.NewNop())
	require.Len(t, got, 1)
	assert.Equal(t, "onetwo \u00a0three & four", got[0].Text)
}

func TestParagraphs_NoBreakSpaceAfterMarker(t *testing.T) {
	got := Paragraphs(`<p>1.&nbsp;First item</p><p class="indent-1">a)&nbsp;&nbsp;second</p>`, zap.NewNop())
	require.Len(t, got, 2)

	first := Enumerate(got[0])
	assert.Equal(t, EnumeratedParagraph{Marker: "1.", Body: "First item", Level: 0}, first)

	second := Enumerate(got[1])
	assert.Equal(t, EnumeratedParagraph{Marker: "a)", Body: "second", Level: 1}, second)
}
