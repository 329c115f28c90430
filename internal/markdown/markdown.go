// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package markdown

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/navigation"
)

// Conversion engines. The legacy engine is a single-pass regex cascade that
// reproduces the historical output byte for byte, including its known failure
// modes on nested or malformed markup. The DOM engine is a real parser-backed
// converter; its output differs and it is only selected explicitly.
const (
	EngineLegacy = "legacy"
	EngineDOM    = "dom"
)

// Options controls which trailing sections Convert appends. Section order is
// fixed: navigation, categories, tags, footer.
type Options struct {
	IncludeNavigation bool
	IncludeCategories bool
	IncludeTags       bool
	IncludeFooter     bool
}

// DefaultOptions enables every section.
func DefaultOptions() Options {
	return Options{
		IncludeNavigation: true,
		IncludeCategories: true,
		IncludeTags:       true,
		IncludeFooter:     true,
	}
}

type Converter struct {
	engine string
}

func NewConverter(engine string) *Converter {
	if engine != EngineDOM {
		engine = EngineLegacy
	}
	return &Converter{engine: engine}
}

func (c *Converter) Engine() string { return c.engine }

// Convert renders one document as Markdown. A non-empty CustomMarkdown
// override replaces the whole generated body block (title, metadata and
// converted content); the configured trailing sections are appended either
// way. The output depends only on the inputs, never on the clock.
func (c *Converter) Convert(doc *content.Document, opts Options, chrome navigation.Chrome) string {
	var b strings.Builder

	if doc.CustomMarkdown != "" {
		b.WriteString(doc.CustomMarkdown)
		b.WriteString("\n\n")
	} else {
		b.WriteString("# " + doc.Title + "\n\n")
		b.WriteString("**URL:** " + doc.Permalink + "\n")
		b.WriteString("**Date:** " + doc.PublishedAt.Format("2006-01-02") + "\n")
		b.WriteString("**Author:** " + doc.Author + "\n\n")
		b.WriteString("---\n\n")
		b.WriteString(c.convertBody(doc.Body))
		b.WriteString("\n\n")
	}

	if opts.IncludeNavigation && len(chrome.Header) > 0 {
		b.WriteString("---\n\n")
		b.WriteString(linkSection("Navigation", chrome.Header))
	}
	if opts.IncludeCategories && len(doc.Categories) > 0 {
		b.WriteString(nameSection("Categories", doc.Categories))
	}
	if opts.IncludeTags && len(doc.Tags) > 0 {
		b.WriteString(nameSection("Tags", doc.Tags))
	}
	if opts.IncludeFooter && len(chrome.Footer) > 0 {
		b.WriteString("---\n\n")
		b.WriteString(linkSection("Footer Links", chrome.Footer))
	}

	return b.String()
}

func (c *Converter) convertBody(body string) string {
	if c.engine == EngineDOM {
		md, err := htmltomarkdown.ConvertString(body)
		if err == nil {
			return strings.TrimSpace(md)
		}
		slog.Warn("DOM conversion failed, using legacy cascade", "error", err)
	}
	return htmlToMarkdown(body)
}

func linkSection(title string, links []navigation.Link) string {
	var b strings.Builder
	b.WriteString("## " + title + "\n\n")
	for _, l := range links {
		b.WriteString(fmt.Sprintf("- [%s](%s)\n", l.Text, l.URL))
	}
	b.WriteString("\n")
	return b.String()
}

func nameSection(title string, names []string) string {
	var b strings.Builder
	b.WriteString("## " + title + "\n\n")
	for _, n := range names {
		b.WriteString("- " + n + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// The legacy HTML→Markdown transform: an ordered regex cascade, not a DOM
// parse. Tag matching is non-greedy and case-insensitive; only blockquote,
// pre and the block strippers span newlines, matching the historical flags.
// Nested or malformed markup can produce wrong output. That is accepted
// behavior, not something to correct here.
var (
	bodyScriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	bodyStyleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	bodyFormRe   = regexp.MustCompile(`(?is)<form\b[^>]*>.*?</form>`)

	h1Re = regexp.MustCompile(`(?i)<h1[^>]*>(.*?)</h1>`)
	h2Re = regexp.MustCompile(`(?i)<h2[^>]*>(.*?)</h2>`)
	h3Re = regexp.MustCompile(`(?i)<h3[^>]*>(.*?)</h3>`)
	h4Re = regexp.MustCompile(`(?i)<h4[^>]*>(.*?)</h4>`)
	h5Re = regexp.MustCompile(`(?i)<h5[^>]*>(.*?)</h5>`)
	h6Re = regexp.MustCompile(`(?i)<h6[^>]*>(.*?)</h6>`)

	boldRe   = regexp.MustCompile(`(?i)<(strong|b)[^>]*>(.*?)</(strong|b)>`)
	italicRe = regexp.MustCompile(`(?i)<(em|i)[^>]*>(.*?)</(em|i)>`)

	linkRe      = regexp.MustCompile(`(?i)<a[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	imgAltRe    = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"[^>]*alt="([^"]*)"[^>]*>`)
	imgNoAltRe  = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"[^>]*>`)
	liRe        = regexp.MustCompile(`(?i)<li[^>]*>(.*?)</li>`)
	ulRe        = regexp.MustCompile(`(?i)</?ul[^>]*>`)
	olRe        = regexp.MustCompile(`(?i)</?ol[^>]*>`)
	pRe         = regexp.MustCompile(`(?i)<p[^>]*>(.*?)</p>`)
	brRe        = regexp.MustCompile(`(?i)<br[^>]*>`)
	quoteRe     = regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`)
	codeRe      = regexp.MustCompile(`(?i)<code[^>]*>(.*?)</code>`)
	preRe       = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	anyTagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	newlineRunRe = regexp.MustCompile(`\n\s*\n\s*\n`)
)

func htmlToMarkdown(s string) string {
	s = bodyScriptRe.ReplaceAllString(s, "")
	s = bodyStyleRe.ReplaceAllString(s, "")
	s = bodyFormRe.ReplaceAllString(s, "")

	s = h1Re.ReplaceAllString(s, "\n# ${1}\n")
	s = h2Re.ReplaceAllString(s, "\n## ${1}\n")
	s = h3Re.ReplaceAllString(s, "\n### ${1}\n")
	s = h4Re.ReplaceAllString(s, "\n#### ${1}\n")
	s = h5Re.ReplaceAllString(s, "\n##### ${1}\n")
	s = h6Re.ReplaceAllString(s, "\n###### ${1}\n")

	s = boldRe.ReplaceAllString(s, "**${2}**")
	s = italicRe.ReplaceAllString(s, "*${2}*")

	s = linkRe.ReplaceAllString(s, "[${2}](${1})")

	s = imgAltRe.ReplaceAllString(s, "![${2}](${1})")
	s = imgNoAltRe.ReplaceAllString(s, "![](${1})")

	s = liRe.ReplaceAllString(s, "- ${1}\n")
	s = ulRe.ReplaceAllString(s, "\n")
	s = olRe.ReplaceAllString(s, "\n")

	s = pRe.ReplaceAllString(s, "${1}\n\n")
	s = brRe.ReplaceAllString(s, "\n")

	s = quoteRe.ReplaceAllString(s, "> ${1}\n")

	s = codeRe.ReplaceAllString(s, "`${1}`")
	s = preRe.ReplaceAllString(s, "```\n${1}\n```\n")

	s = anyTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
