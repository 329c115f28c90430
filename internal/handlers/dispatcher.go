// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/erikyo/md4ai/internal/analytics"
	"github.com/erikyo/md4ai/internal/botdetect"
	"github.com/erikyo/md4ai/internal/cache"
	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/markdown"
)

const (
	markdownContentType = "text/markdown; charset=utf-8"
	robotsTagValue      = "noindex, nofollow"
)

// Dispatcher decides, per request, whether the client gets the Markdown
// rendition or falls through to the origin. It runs as router-wide
// middleware; requests it does not claim continue down the chain and end at
// the origin proxy.
type Dispatcher struct {
	Detector  *botdetect.Detector
	Store     content.Store
	Cache     *cache.Cache
	Converter *markdown.Converter
	Chrome    ChromeFunc
	Analytics *analytics.Log
	Options   markdown.Options
}

func (d *Dispatcher) skip(path string) bool {
	return path == "/llms.txt" ||
		strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/go/")
}

// resolve maps a request path to a document. The site root has no document
// of its own; it resolves to the newest published document, matching how the
// origin's home page leads with the latest post.
func (d *Dispatcher) resolve(ctx context.Context, path string) (*content.Document, error) {
	doc, err := d.Store.DocumentByPath(ctx, path)
	if err == nil || !errors.Is(err, content.ErrNotFound) || path != "/" {
		return doc, err
	}

	recent, err := d.Store.RecentDocuments(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, content.ErrNotFound
	}
	return &recent[0], nil
}

func (d *Dispatcher) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || d.skip(c.Request.URL.Path) {
			c.Next()
			return
		}

		detection := d.Detector.Classify(c.GetHeader("User-Agent"))
		forced := c.Query("md") == "1"
		if !detection.Bot && !forced {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		doc, err := d.resolve(ctx, c.Request.URL.Path)
		if err != nil {
			if !errors.Is(err, content.ErrNotFound) {
				// Fail open: a broken lookup must not take the page down
				// for crawlers, the origin can still serve HTML.
				traceID, _ := c.Get("trace_id")
				slog.Error("Document lookup failed", "trace_id", traceID, "path", c.Request.URL.Path, "error", err)
			}
			c.Next()
			return
		}

		var payload []byte
		cacheState := "MISS"
		if d.Cache.IsFresh(doc.ID, doc.ModifiedAt) {
			if cached, ok := d.Cache.Read(doc.ID); ok {
				payload = cached
				cacheState = "HIT"
			}
		}
		if payload == nil {
			chrome := d.Chrome(ctx)
			payload = []byte(d.Converter.Convert(doc, d.Options, chrome))
			if err := d.Cache.Write(doc.ID, payload); err != nil {
				slog.Warn("Failed to cache markdown artifact", "id", doc.ID, "error", err)
			}
		}

		if detection.Bot {
			d.Analytics.Record(ctx, doc.ID, detection.Label)
		}

		c.Header("X-Robots-Tag", robotsTagValue)
		c.Header("X-Cache", cacheState)
		c.Data(http.StatusOK, markdownContentType, payload)
		c.Abort()
	}
}
