// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package markdown

import (
	"fmt"
	"html"
	"strings"

	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/navigation"
)

const excerptWords = 20

// Manifest builds the default llms.txt document from site identity, the most
// recent published documents, the top-level static pages and the site chrome.
// It is used whenever no manual manifest override is configured.
func (c *Converter) Manifest(site content.SiteInfo, recent, pages []content.Document, chrome navigation.Chrome) string {
	var b strings.Builder

	b.WriteString("# " + site.Name + "\n")
	if site.Description != "" {
		b.WriteString("> " + site.Description + "\n\n")
	}
	b.WriteString(fmt.Sprintf("This file provides structured information about %s for AI bots and LLM crawlers.\n\n", site.Name))

	b.WriteString("## Site Information\n")
	b.WriteString(fmt.Sprintf("- **Website**: [%s](%s)\n", site.Name, site.URL))
	if site.Description != "" {
		b.WriteString("- **Description**: " + site.Description + "\n")
	}
	b.WriteString("- **Contact**: " + site.Contact + "\n\n")

	if len(recent) > 0 {
		b.WriteString("## Recent Content\n")
		for _, doc := range recent {
			b.WriteString(fmt.Sprintf("- [%s](%s)", doc.Title, doc.Permalink))
			if ex := documentExcerpt(doc); ex != "" {
				b.WriteString(": " + ex)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(pages) > 0 {
		b.WriteString("## Main Pages\n")
		for _, page := range pages {
			b.WriteString(fmt.Sprintf("- [%s](%s)\n", page.Title, page.Permalink))
		}
		b.WriteString("\n")
	}

	if len(chrome.Header) > 0 {
		b.WriteString("---\n\n")
		b.WriteString(linkSection("Navigation", chrome.Header))
	}
	if len(chrome.Footer) > 0 {
		b.WriteString("---\n\n")
		b.WriteString(linkSection("Footer Links", chrome.Footer))
	}

	b.WriteString("---\n\n## Additional Information\n")
	b.WriteString(fmt.Sprintf("For more information about our content and structure, please explore the links above or visit our homepage at %s.\n", site.URL))

	return b.String()
}

func documentExcerpt(doc content.Document) string {
	source := doc.Excerpt
	if source == "" {
		source = doc.Body
	}
	text := html.UnescapeString(anyTagRe.ReplaceAllString(source, ""))
	return trimWords(text, excerptWords)
}

// trimWords truncates text to at most n whitespace-separated words, appending
// an ellipsis when anything was cut.
func trimWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}
