// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package botdetect_test

import (
	"testing"

	"github.com/erikyo/md4ai/internal/botdetect"
)

func TestClassifyKnownCrawlers(t *testing.T) {
	d := botdetect.New(nil)

	cases := []struct {
		name      string
		userAgent string
		wantBot   bool
		wantLabel string
	}{
		{"gptbot", "Mozilla/5.0 AppleWebKit/537.36 (compatible; GPTBot/1.1; +https://openai.com/gptbot)", true, "gptbot"},
		{"claudebot", "Mozilla/5.0 (compatible; ClaudeBot/1.0; +claudebot@anthropic.com)", true, "claudebot"},
		{"perplexity", "Mozilla/5.0 (compatible; PerplexityBot/1.0; +https://perplexity.ai/perplexitybot)", true, "perplexitybot"},
		{"ccbot", "CCBot/2.0 (https://commoncrawl.org/faq/)", true, "ccbot"},
		{"browser", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Safari/605.1.15", false, ""},
		{"googlebot is not an ai agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", false, ""},
		{"empty", "", false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Classify(tc.userAgent)
			if got.Bot != tc.wantBot {
				t.Errorf("Classify(%q).Bot = %v, want %v", tc.userAgent, got.Bot, tc.wantBot)
			}
			if got.Label != tc.wantLabel {
				t.Errorf("Classify(%q).Label = %q, want %q", tc.userAgent, got.Label, tc.wantLabel)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	d := botdetect.New([]string{"gptbot", "oai-searchbot"})

	got := d.Classify("Mozilla/5.0 GPTBot/1.1 OAI-SearchBot/1.0")
	if !got.Bot {
		t.Fatal("expected bot classification")
	}
	if got.Label != "gptbot" {
		t.Errorf("expected first matching label 'gptbot', got %q", got.Label)
	}

	// Reversed list order flips the winner for the same user agent.
	d = botdetect.New([]string{"oai-searchbot", "gptbot"})
	got = d.Classify("Mozilla/5.0 GPTBot/1.1 OAI-SearchBot/1.0")
	if got.Label != "oai-searchbot" {
		t.Errorf("expected 'oai-searchbot' with reordered list, got %q", got.Label)
	}
}

func TestClassifySubstringNotWordBoundary(t *testing.T) {
	d := botdetect.New([]string{"gptbot"})

	// Substring semantics: a label embedded mid-token still matches.
	got := d.Classify("somethinggptbotsomething")
	if !got.Bot || got.Label != "gptbot" {
		t.Errorf("expected substring match, got %+v", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	d := botdetect.New([]string{"GPTBot"})

	got := d.Classify("mozilla gptbot/1.0")
	if !got.Bot {
		t.Error("expected case-insensitive match against mixed-case label")
	}
}

func TestFilterChain(t *testing.T) {
	appendCustom := func(labels []string) []string {
		return append(labels, "examplebot")
	}
	d := botdetect.New([]string{"gptbot"}, appendCustom)

	got := d.Classify("ExampleBot/2.0")
	if !got.Bot || got.Label != "examplebot" {
		t.Errorf("expected filter-added label to match, got %+v", got)
	}
}
