// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package navigation

import (
	"regexp"
	"strings"
)

// Link is one navigable anchor extracted from site chrome.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Chrome holds the site-wide header and footer link lists. It is derived
// once per site (not per document) and cached separately.
type Chrome struct {
	Header []Link `json:"header"`
	Footer []Link `json:"footer"`
}

// maxLinkTextLen filters out long-text anchors that are unlikely to be
// navigation (e.g. inline article links).
const maxLinkTextLen = 100

// Pattern-substitution extraction, not a DOM parse. Script, style and form
// blocks are removed first because they can carry anchor-like text that must
// not be read as links.
var (
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	formRe   = regexp.MustCompile(`(?is)<form\b[^>]*>.*?</form>`)
	anchorRe = regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']+)["'][^>]*>(.*?)</a>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Extract parses raw header and footer markup into the site chrome. The two
// fragments are processed independently; link order within each fragment is
// preserved.
func Extract(headerHTML, footerHTML string) Chrome {
	return Chrome{
		Header: parseFragment(headerHTML),
		Footer: parseFragment(footerHTML),
	}
}

func parseFragment(html string) []Link {
	html = scriptRe.ReplaceAllString(html, "")
	html = styleRe.ReplaceAllString(html, "")
	html = formRe.ReplaceAllString(html, "")

	var links []Link
	seen := make(map[string]bool)

	for _, m := range anchorRe.FindAllStringSubmatch(html, -1) {
		url := m[1]
		text := tagRe.ReplaceAllString(m[2], "")
		text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

		if text == "" || strings.HasPrefix(url, "#") || strings.HasPrefix(url, "javascript:") ||
			len(text) > maxLinkTextLen {
			continue
		}
		if seen[url] {
			continue
		}
		seen[url] = true
		links = append(links, Link{Text: text, URL: url})
	}

	return links
}
