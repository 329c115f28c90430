// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package insights compares a pasted AI-assistant report about the site
// against what the site actually is, and scores how accurately the
// assistant perceives it.
package insights

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	websiteNameRe = regexp.MustCompile(`(?m)Website Name:\s*(.*)$`)
	authorNameRe  = regexp.MustCompile(`(?m)Author Name:\s*(.*)$`)
	subjectRe     = regexp.MustCompile(`(?m)Primary Subject Matter:\s*(.*)$`)
	mainEntityRe  = regexp.MustCompile(`(?m)Main Entity Type:\s*(.*)$`)
	ecommerceRe   = regexp.MustCompile(`(?m)Is an E-commerce site:\s*(.*)$`)
	reasoningRe   = regexp.MustCompile(`(?m)Reasoning for Detection:\s*(.*)$`)

	scoreAuthRe      = regexp.MustCompile(`(?m)Authoritative Content:\s*(\d+)`)
	scoreRelevanceRe = regexp.MustCompile(`(?m)Contextual Relevance:\s*(\d+)`)
	scoreDataRe      = regexp.MustCompile(`(?m)Amount of data available:\s*(\d+)`)
	scoreCrawlerRe   = regexp.MustCompile(`(?m)The website is intelligible to crawlers:\s*(\d+)`)
)

// ReportData is what could be extracted from the assistant's free-form
// report. Fields the report never mentions hold "Unknown".
type ReportData struct {
	WebsiteName    string `json:"website_name"`
	AuthorName     string `json:"author_name"`
	Subject        string `json:"subject"`
	MainEntity     string `json:"main_entity"`
	IsEcommerce    string `json:"is_ecommerce"`
	Reasoning      string `json:"reasoning"`
	ScoreAuthority int    `json:"score_auth"`
	ScoreRelevance int    `json:"score_relevance"`
	ScoreData      int    `json:"score_data"`
	ScoreCrawler   int    `json:"score_crawler"`
}

// GroundTruth is what the site really looks like, assembled by the caller
// from configuration and the content store.
type GroundTruth struct {
	WebsiteName string   `json:"website_name"`
	AuthorName  string   `json:"author_name"`
	Topics      []string `json:"topics"`
	IsEcommerce bool     `json:"is_ecommerce"`
}

// Correction is one mismatch between the report and reality, with a hint
// on what to fix on the site.
type Correction struct {
	Field     string `json:"field"`
	AIValue   string `json:"ai_value"`
	RealValue string `json:"real_value"`
	Tip       string `json:"tip"`
}

type Scores struct {
	IdentityMatch int `json:"identity_match"`
	TechMatch     int `json:"tech_match"`
	AIPerception  int `json:"ai_perception"`
}

type Result struct {
	Scores      Scores       `json:"scores"`
	Corrections []Correction `json:"corrections"`
	ReportData  ReportData   `json:"raw_ai_data"`
	GroundTruth GroundTruth  `json:"ground_truth"`
}

const (
	nameSimilarityFloor   = 50
	authorSimilarityFloor = 40
)

// Parse extracts the labelled fields from the report text.
func Parse(report string) ReportData {
	extract := func(re *regexp.Regexp) string {
		m := re.FindStringSubmatch(report)
		if m == nil {
			return "Unknown"
		}
		return strings.TrimSpace(m[1])
	}
	score := func(re *regexp.Regexp) int {
		m := re.FindStringSubmatch(report)
		if m == nil {
			return 0
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}

	return ReportData{
		WebsiteName:    extract(websiteNameRe),
		AuthorName:     extract(authorNameRe),
		Subject:        extract(subjectRe),
		MainEntity:     extract(mainEntityRe),
		IsEcommerce:    extract(ecommerceRe),
		Reasoning:      extract(reasoningRe),
		ScoreAuthority: score(scoreAuthRe),
		ScoreRelevance: score(scoreRelevanceRe),
		ScoreData:      score(scoreDataRe),
		ScoreCrawler:   score(scoreCrawlerRe),
	}
}

// Analyze parses the report and scores it against the ground truth.
func Analyze(report string, truth GroundTruth) Result {
	data := Parse(report)
	result := Result{
		ReportData:  data,
		GroundTruth: truth,
		Corrections: []Correction{},
	}

	simName := similarity(data.WebsiteName, truth.WebsiteName)
	if simName < nameSimilarityFloor {
		result.Corrections = append(result.Corrections, Correction{
			Field:     "Website Name",
			AIValue:   data.WebsiteName,
			RealValue: truth.WebsiteName,
			Tip:       `Check your Schema.org "WebSite" markup and Title Tag.`,
		})
	}

	simAuthor := 0
	switch strings.ToLower(data.AuthorName) {
	case "unknown", "n/a":
		// The assistant could not name an author at all.
	default:
		simAuthor = similarity(data.AuthorName, truth.AuthorName)
	}
	if simAuthor < authorSimilarityFloor {
		result.Corrections = append(result.Corrections, Correction{
			Field:     "Author/Owner",
			AIValue:   data.AuthorName,
			RealValue: truth.AuthorName,
			Tip:       `Add a clear "About Us" page and Person Schema markup.`,
		})
	}
	result.Scores.IdentityMatch = int(math.Round(float64(simName+simAuthor) / 2))

	reportEcom := strings.Contains(strings.ToLower(data.IsEcommerce), "yes")
	if reportEcom == truth.IsEcommerce {
		result.Scores.TechMatch = 100
	} else {
		tip := "Check for confusing transactional keywords."
		if truth.IsEcommerce {
			tip = "Ensure /shop/ or product pages are crawlable."
		}
		result.Corrections = append(result.Corrections, Correction{
			Field:     "E-commerce Detection",
			AIValue:   yesNo(reportEcom),
			RealValue: yesNo(truth.IsEcommerce),
			Tip:       tip,
		})
	}

	// Four 0-10 ratings, normalized to a 0-100 perception score.
	totalPoints := data.ScoreAuthority + data.ScoreRelevance + data.ScoreData + data.ScoreCrawler
	result.Scores.AIPerception = int(math.Round(float64(totalPoints) * 2.5))

	return result
}

// similarity is a 0-100 character-level similarity ratio, case-insensitive.
func similarity(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" && b == "" {
		return 100
	}
	ratio := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
	return int(math.Round(ratio * 100))
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
