// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/navigation"
)

func testDocument() *content.Document {
	return &content.Document{
		ID:          42,
		Title:       "Hello",
		Permalink:   "https://example.com/hello",
		Author:      "Jane Doe",
		Body:        "<p>Hi <b>there</b></p>",
		Categories:  []string{"News"},
		Tags:        nil,
		PublishedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		ModifiedAt:  time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
	}
}

func TestConvertMetadataHeader(t *testing.T) {
	c := NewConverter(EngineLegacy)
	out := c.Convert(testDocument(), Options{}, navigation.Chrome{})

	require.True(t, strings.HasPrefix(out, "# Hello\n\n"), "output must begin with the title heading, got: %q", out)
	assert.Contains(t, out, "**URL:** https://example.com/hello\n")
	assert.Contains(t, out, "**Date:** 2024-03-05\n")
	assert.Contains(t, out, "**Author:** Jane Doe\n")
	assert.Contains(t, out, "\n---\n")
}

func TestConvertEndToEnd(t *testing.T) {
	c := NewConverter(EngineLegacy)
	opts := Options{IncludeCategories: true, IncludeTags: true}

	out := c.Convert(testDocument(), opts, navigation.Chrome{})

	assert.Contains(t, out, "# Hello")
	assert.Contains(t, out, "Hi **there**")
	assert.Contains(t, out, "## Categories\n\n- News\n")
	assert.NotContains(t, out, "## Tags", "empty tag list must omit the whole section")

	// Section order is fixed: metadata/body before categories.
	require.Less(t, strings.Index(out, "Hi **there**"), strings.Index(out, "## Categories"))
}

func TestConvertCustomMarkdownOverride(t *testing.T) {
	c := NewConverter(EngineLegacy)
	doc := testDocument()
	doc.CustomMarkdown = "# Hand-written\n\nExactly as authored."

	out := c.Convert(doc, Options{IncludeCategories: true}, navigation.Chrome{})

	require.True(t, strings.HasPrefix(out, "# Hand-written\n\nExactly as authored.\n\n"))
	assert.NotContains(t, out, "**URL:**", "override must skip the metadata block")
	assert.NotContains(t, out, "Hi **there**", "override must skip body conversion")
	assert.Contains(t, out, "## Categories", "sections are still appended after an override")
}

func TestConvertIdempotent(t *testing.T) {
	c := NewConverter(EngineLegacy)
	doc := testDocument()
	chrome := navigation.Chrome{Header: []navigation.Link{{Text: "Home", URL: "/"}}}
	opts := DefaultOptions()

	first := c.Convert(doc, opts, chrome)
	second := c.Convert(doc, opts, chrome)
	require.Equal(t, first, second, "conversion must be a pure function of its inputs")
}

func TestConvertNavigationAndFooterSections(t *testing.T) {
	c := NewConverter(EngineLegacy)
	chrome := navigation.Chrome{
		Header: []navigation.Link{{Text: "About", URL: "/about"}},
		Footer: []navigation.Link{{Text: "Privacy", URL: "/privacy"}},
	}

	out := c.Convert(testDocument(), DefaultOptions(), chrome)

	assert.Contains(t, out, "## Navigation\n\n- [About](/about)\n")
	assert.Contains(t, out, "## Footer Links\n\n- [Privacy](/privacy)\n")
	require.Less(t, strings.Index(out, "## Navigation"), strings.Index(out, "## Categories"))
	require.Less(t, strings.Index(out, "## Categories"), strings.Index(out, "## Footer Links"))

	// Disabled switches drop their sections even with chrome data present.
	out = c.Convert(testDocument(), Options{IncludeCategories: true}, chrome)
	assert.NotContains(t, out, "## Navigation")
	assert.NotContains(t, out, "## Footer Links")
}

func TestConvertEmptyChromeOmitsSections(t *testing.T) {
	c := NewConverter(EngineLegacy)
	out := c.Convert(testDocument(), DefaultOptions(), navigation.Chrome{})

	assert.NotContains(t, out, "## Navigation")
	assert.NotContains(t, out, "## Footer Links")
}

func TestHTMLToMarkdownCascade(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "<h2>Section</h2>", "## Section"},
		{"bold", "<p>Hi <b>there</b></p>", "Hi **there**"},
		{"strong", "<strong>loud</strong>", "**loud**"},
		{"italic", "<em>soft</em>", "*soft*"},
		{"link", `<a href="/x">X</a>`, "[X](/x)"},
		{"image with alt", `<img src="/i.png" alt="Logo">`, "![Logo](/i.png)"},
		{"image without alt", `<img src="/i.png">`, "![](/i.png)"},
		{"list", "<ul><li>One</li><li>Two</li></ul>", "- One\n- Two"},
		{"blockquote", "<blockquote>Wise words</blockquote>", "> Wise words"},
		{"inline code", "<code>go run</code>", "`go run`"},
		{"pre block", "<pre>x := 1</pre>", "```\nx := 1\n```"},
		{"script removed", "<script>alert(1)</script><p>ok</p>", "ok"},
		{"style removed", "<style>.a{}</style>plain", "plain"},
		{"form removed", `<form><input name="q"></form>after`, "after"},
		{"unknown tags stripped", `<div class="wrap"><span>text</span></div>`, "text"},
		{"entities decoded", "Caf&eacute; &amp; more", "Café & more"},
		{"newlines collapsed", "<p>a</p><p>b</p>", "a\n\nb"},
		{"line break", "one<br>two", "one\ntwo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, htmlToMarkdown(tc.in))
		})
	}
}

func TestDOMEngine(t *testing.T) {
	c := NewConverter(EngineDOM)
	require.Equal(t, EngineDOM, c.Engine())

	out := c.Convert(testDocument(), Options{}, navigation.Chrome{})
	assert.Contains(t, out, "**there**")
}

func TestNewConverterUnknownEngineFallsBackToLegacy(t *testing.T) {
	require.Equal(t, EngineLegacy, NewConverter("something-else").Engine())
}

func TestManifest(t *testing.T) {
	c := NewConverter(EngineLegacy)
	site := content.SiteInfo{
		Name:        "Example Blog",
		Description: "Notes on things",
		URL:         "https://example.com",
		Contact:     "admin@example.com",
	}
	recent := []content.Document{
		{Title: "First", Permalink: "https://example.com/first", Body: "<p>" + strings.Repeat("word ", 30) + "</p>"},
		{Title: "Second", Permalink: "https://example.com/second", Excerpt: "Short summary"},
	}
	pages := []content.Document{
		{Title: "About", Permalink: "https://example.com/about"},
	}
	chrome := navigation.Chrome{
		Header: []navigation.Link{{Text: "Home", URL: "/"}},
		Footer: []navigation.Link{{Text: "Terms", URL: "/terms"}},
	}

	out := c.Manifest(site, recent, pages, chrome)

	require.True(t, strings.HasPrefix(out, "# Example Blog\n> Notes on things\n"))
	assert.Contains(t, out, "## Site Information\n")
	assert.Contains(t, out, "- **Website**: [Example Blog](https://example.com)\n")
	assert.Contains(t, out, "- **Contact**: admin@example.com\n")
	assert.Contains(t, out, "## Recent Content\n")
	assert.Contains(t, out, "- [Second](https://example.com/second): Short summary\n")
	assert.Contains(t, out, "## Main Pages\n- [About](https://example.com/about)\n")
	assert.Contains(t, out, "## Navigation\n\n- [Home](/)\n")
	assert.Contains(t, out, "## Footer Links\n\n- [Terms](/terms)\n")
	assert.Contains(t, out, "## Additional Information\n")

	// 30-word body is cut to 20 words plus ellipsis.
	first := out[strings.Index(out, "- [First]"):]
	first = first[:strings.Index(first, "\n")]
	require.Equal(t, excerptWords, len(strings.Fields(strings.SplitN(first, ": ", 2)[1])))
	assert.True(t, strings.HasSuffix(first, "…"))
}

func TestManifestOmitsEmptySections(t *testing.T) {
	c := NewConverter(EngineLegacy)
	site := content.SiteInfo{Name: "Bare", URL: "https://bare.example", Contact: "x@bare.example"}

	out := c.Manifest(site, nil, nil, navigation.Chrome{})

	assert.NotContains(t, out, "## Recent Content")
	assert.NotContains(t, out, "## Main Pages")
	assert.NotContains(t, out, "## Navigation")
	assert.NotContains(t, out, "## Footer Links")
	assert.NotContains(t, out, "> ", "no description line when description is empty")
}

func TestTrimWords(t *testing.T) {
	require.Equal(t, "", trimWords("   ", 5))
	require.Equal(t, "a b c", trimWords("a b c", 5))
	require.Equal(t, "a b c…", trimWords("a b c d", 3))
}
