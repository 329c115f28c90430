// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package botdetect

import "strings"

// Detection is the result of classifying one request's User-Agent header.
type Detection struct {
	Bot   bool
	Label string
}

// Filter rewrites the configured label list before it is installed on a
// Detector. Filters run in registration order; they are the extension point
// for deployments that tune the agent list programmatically.
type Filter func(labels []string) []string

// Known AI crawler user-agent substrings, in match-priority order.
//
// Claude https://support.claude.com/en/articles/8896518-does-anthropic-crawl-data-from-the-web-and-how-can-site-owners-block-the-crawler
// ChatGPT https://platform.openai.com/docs/bots/overview-of-openai-crawlers
// Perplexity https://docs.perplexity.ai/guides/bots
// Google https://developers.google.com/crawling/docs/crawlers-fetchers/google-common-crawlers
var defaultAgents = []string{
	"oai-searchbot",
	"gptbot",
	"chatgpt-user",
	"mistralai-user",
	"deepseekbot",
	"chatglm",
	"claudebot",
	"claude-user",
	"anthropic-ai",
	"meta-externalagent",
	"ccbot",
	"perplexitybot",
	"perplexity-user",
	"google-extended",
	"applebot-extended",
	"cohere-training-data-crawler",
	"cohere-ai",
}

// DefaultAgents returns a copy of the built-in crawler label list.
func DefaultAgents() []string {
	out := make([]string, len(defaultAgents))
	copy(out, defaultAgents)
	return out
}

type Detector struct {
	labels []string
}

// New builds a Detector over the given label list. A nil or empty list falls
// back to the built-in agents. Filters are applied to the resolved list in
// order.
func New(labels []string, filters ...Filter) *Detector {
	if len(labels) == 0 {
		labels = DefaultAgents()
	}
	for _, f := range filters {
		labels = f(labels)
	}
	lowered := make([]string, len(labels))
	for i, l := range labels {
		lowered[i] = strings.ToLower(l)
	}
	return &Detector{labels: lowered}
}

// Labels returns the active label list in match order.
func (d *Detector) Labels() []string {
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

// Classify reports whether the user agent belongs to a known AI crawler.
// Matching is a case-insensitive substring scan, first label wins. This is a
// deliberately crude heuristic: no user-agent grammar, no word boundaries.
func (d *Detector) Classify(userAgent string) Detection {
	if userAgent == "" {
		return Detection{}
	}
	ua := strings.ToLower(userAgent)
	for _, label := range d.labels {
		if strings.Contains(ua, label) {
			return Detection{Bot: true, Label: label}
		}
	}
	return Detection{}
}
