// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

const settingKey = "bot_requests"

// Entry is one recorded crawler visit. DocumentID 0 marks a non-document
// request (the manifest).
type Entry struct {
	DocumentID int64  `json:"document_id"`
	Crawler    string `json:"crawler"`
	Timestamp  int64  `json:"timestamp"`
}

// Settings is the small key-value store the aggregate lives in.
type Settings interface {
	GetSetting(ctx context.Context, key string) ([]byte, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// Log appends crawler visits to a week-bucketed aggregate in the settings
// store. The append is a read-modify-write of the whole aggregate with no
// locking; concurrent writers can lose entries. Acceptable for best-effort
// analytics, not for billing or audit.
type Log struct {
	settings Settings
}

func NewLog(settings Settings) *Log {
	return &Log{settings: settings}
}

// Record appends one visit under the ISO Monday of the current week. Storage
// errors are logged and swallowed: analytics must never fail a request.
func (l *Log) Record(ctx context.Context, documentID int64, crawler string) {
	now := time.Now().UTC()

	requests, err := l.load(ctx)
	if err != nil {
		slog.Warn("Failed to load analytics aggregate", "error", err)
		return
	}

	bucket := weekBucket(now)
	requests[bucket] = append(requests[bucket], Entry{
		DocumentID: documentID,
		Crawler:    crawler,
		Timestamp:  now.Unix(),
	})

	payload, err := json.Marshal(requests)
	if err != nil {
		slog.Warn("Failed to encode analytics aggregate", "error", err)
		return
	}
	if err := l.settings.PutSetting(ctx, settingKey, payload); err != nil {
		slog.Warn("Failed to store analytics aggregate", "error", err)
		return
	}
	slog.Debug("Crawler visit recorded", "document_id", documentID, "crawler", crawler, "week", bucket)
}

func (l *Log) load(ctx context.Context) (map[string][]Entry, error) {
	raw, err := l.settings.GetSetting(ctx, settingKey)
	if err != nil {
		return nil, err
	}
	requests := make(map[string][]Entry)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &requests); err != nil {
			return nil, fmt.Errorf("failed to decode analytics aggregate: %w", err)
		}
	}
	return requests, nil
}

// weekBucket returns the ISO date of the Monday of t's week.
func weekBucket(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}

type ChartData struct {
	Dates          []string `json:"dates"`
	RequestsPerDay []int    `json:"requests_per_day"`
	CrawlerLabels  []string `json:"crawler_labels"`
	CrawlerCounts  []int    `json:"crawler_counts"`
}

type DocumentHits struct {
	DocumentID  int64 `json:"document_id"`
	Count       int   `json:"count"`
	LastCrawled int64 `json:"last_crawled"`
}

type DashboardStats struct {
	TotalRequests   int            `json:"total_requests"`
	UniqueCrawlers  int            `json:"unique_crawlers"`
	UniqueDocuments int            `json:"unique_documents"`
	TodayRequests   int            `json:"today_requests"`
	TopDocuments    []DocumentHits `json:"top_documents"`
	RecentActivity  []Entry        `json:"recent_activity"`
	ChartData       ChartData      `json:"chart_data"`
}

const (
	seriesDays       = 7
	topCrawlerCount  = 5
	topDocumentCount = 10
	recentCount      = 10
)

// Stats folds the aggregate into the dashboard shape: totals, a 7-day
// series, top crawlers, top documents and the most recent visits.
func (l *Log) Stats(ctx context.Context) (*DashboardStats, error) {
	requests, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate(requests, time.Now().UTC()), nil
}

func aggregate(requests map[string][]Entry, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		TopDocuments:   []DocumentHits{},
		RecentActivity: []Entry{},
	}

	perDay := make(map[string]int)
	for i := seriesDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		stats.ChartData.Dates = append(stats.ChartData.Dates, day)
		perDay[day] = 0
	}
	today := now.Format("2006-01-02")

	crawlerCounts := make(map[string]int)
	docHits := make(map[int64]*DocumentHits)
	var all []Entry

	for _, entries := range requests {
		for _, e := range entries {
			stats.TotalRequests++

			day := time.Unix(e.Timestamp, 0).UTC().Format("2006-01-02")
			if _, ok := perDay[day]; ok {
				perDay[day]++
			}
			if day == today {
				stats.TodayRequests++
			}

			crawlerCounts[e.Crawler]++

			hits, ok := docHits[e.DocumentID]
			if !ok {
				hits = &DocumentHits{DocumentID: e.DocumentID}
				docHits[e.DocumentID] = hits
			}
			hits.Count++
			if e.Timestamp > hits.LastCrawled {
				hits.LastCrawled = e.Timestamp
			}

			all = append(all, e)
		}
	}

	stats.UniqueCrawlers = len(crawlerCounts)
	stats.UniqueDocuments = len(docHits)

	for _, day := range stats.ChartData.Dates {
		stats.ChartData.RequestsPerDay = append(stats.ChartData.RequestsPerDay, perDay[day])
	}

	type crawlerCount struct {
		label string
		count int
	}
	crawlers := make([]crawlerCount, 0, len(crawlerCounts))
	for label, count := range crawlerCounts {
		crawlers = append(crawlers, crawlerCount{label, count})
	}
	sort.Slice(crawlers, func(i, j int) bool {
		if crawlers[i].count != crawlers[j].count {
			return crawlers[i].count > crawlers[j].count
		}
		return crawlers[i].label < crawlers[j].label
	})
	for i, cc := range crawlers {
		if i >= topCrawlerCount {
			break
		}
		stats.ChartData.CrawlerLabels = append(stats.ChartData.CrawlerLabels, cc.label)
		stats.ChartData.CrawlerCounts = append(stats.ChartData.CrawlerCounts, cc.count)
	}

	docs := make([]DocumentHits, 0, len(docHits))
	for _, hits := range docHits {
		docs = append(docs, *hits)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Count != docs[j].Count {
			return docs[i].Count > docs[j].Count
		}
		return docs[i].DocumentID < docs[j].DocumentID
	})
	if len(docs) > topDocumentCount {
		docs = docs[:topDocumentCount]
	}
	stats.TopDocuments = docs

	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })
	if len(all) > recentCount {
		all = all[:recentCount]
	}
	stats.RecentActivity = all

	return stats
}
