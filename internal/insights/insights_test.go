// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `## Section 1: Identity
Website Name: Acme Widgets
Author Name: Jane Doe
Primary Subject Matter: Industrial widget manufacturing

## Section 2: Structure
Main Entity Type: Organization
Is an E-commerce site: Yes
Reasoning for Detection: Found product pages with prices.

## Section 3: Ratings
Authoritative Content: 8
Contextual Relevance: 7
Amount of data available: 6
The website is intelligible to crawlers: 9
`

func TestParseExtractsAllFields(t *testing.T) {
	data := Parse(sampleReport)

	assert.Equal(t, "Acme Widgets", data.WebsiteName)
	assert.Equal(t, "Jane Doe", data.AuthorName)
	assert.Equal(t, "Industrial widget manufacturing", data.Subject)
	assert.Equal(t, "Organization", data.MainEntity)
	assert.Equal(t, "Yes", data.IsEcommerce)
	assert.Equal(t, "Found product pages with prices.", data.Reasoning)
	assert.Equal(t, 8, data.ScoreAuthority)
	assert.Equal(t, 7, data.ScoreRelevance)
	assert.Equal(t, 6, data.ScoreData)
	assert.Equal(t, 9, data.ScoreCrawler)
}

func TestParseMissingFieldsDefaultToUnknown(t *testing.T) {
	data := Parse("This report mentions nothing useful.")

	assert.Equal(t, "Unknown", data.WebsiteName)
	assert.Equal(t, "Unknown", data.AuthorName)
	assert.Equal(t, 0, data.ScoreAuthority)
	assert.Equal(t, 0, data.ScoreCrawler)
}

func TestAnalyzeMatchingReportHasNoCorrections(t *testing.T) {
	truth := GroundTruth{
		WebsiteName: "Acme Widgets",
		AuthorName:  "Jane Doe",
		Topics:      []string{"Widgets"},
		IsEcommerce: true,
	}

	result := Analyze(sampleReport, truth)

	assert.Empty(t, result.Corrections)
	assert.Equal(t, 100, result.Scores.IdentityMatch)
	assert.Equal(t, 100, result.Scores.TechMatch)
	// 8+7+6+9 = 30 points out of 40, normalized to 100.
	assert.Equal(t, 75, result.Scores.AIPerception)
}

func TestAnalyzeFlagsWrongWebsiteName(t *testing.T) {
	truth := GroundTruth{WebsiteName: "Acme Widgets", AuthorName: "Jane Doe"}

	result := Analyze("Website Name: Completely Different Zoo\nAuthor Name: Jane Doe\n", truth)

	require.NotEmpty(t, result.Corrections)
	c := result.Corrections[0]
	assert.Equal(t, "Website Name", c.Field)
	assert.Equal(t, "Completely Different Zoo", c.AIValue)
	assert.Equal(t, "Acme Widgets", c.RealValue)
	assert.Contains(t, c.Tip, "Schema.org")
}

func TestAnalyzeUnknownAuthorScoresZero(t *testing.T) {
	truth := GroundTruth{WebsiteName: "Acme Widgets", AuthorName: "Jane Doe"}

	result := Analyze("Website Name: Acme Widgets\nAuthor Name: Unknown\n", truth)

	var fields []string
	for _, c := range result.Corrections {
		fields = append(fields, c.Field)
	}
	assert.Contains(t, fields, "Author/Owner")
	// Name matched at 100, author contributed 0.
	assert.Equal(t, 50, result.Scores.IdentityMatch)
}

func TestAnalyzeEcommerceMismatch(t *testing.T) {
	truth := GroundTruth{WebsiteName: "Acme Widgets", AuthorName: "Jane Doe", IsEcommerce: false}

	result := Analyze(sampleReport, truth)

	assert.Equal(t, 0, result.Scores.TechMatch)
	require.NotEmpty(t, result.Corrections)
	c := result.Corrections[len(result.Corrections)-1]
	assert.Equal(t, "E-commerce Detection", c.Field)
	assert.Equal(t, "Yes", c.AIValue)
	assert.Equal(t, "No", c.RealValue)
	assert.Contains(t, c.Tip, "transactional")
}

func TestAnalyzeEcommerceMismatchTipWhenShopExists(t *testing.T) {
	truth := GroundTruth{WebsiteName: "Acme Widgets", AuthorName: "Jane Doe", IsEcommerce: true}

	result := Analyze("Website Name: Acme Widgets\nAuthor Name: Jane Doe\nIs an E-commerce site: No\n", truth)

	require.NotEmpty(t, result.Corrections)
	c := result.Corrections[len(result.Corrections)-1]
	assert.Contains(t, c.Tip, "crawlable")
}

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, 100, similarity("Acme", "acme"))
	assert.Equal(t, 0, similarity("abc", "xyz"))
	assert.Equal(t, 100, similarity("", ""))
}
