// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/erikyo/md4ai/internal/analytics"
	"github.com/erikyo/md4ai/internal/cache"
	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/insights"
	"github.com/erikyo/md4ai/internal/markdown"
)

// APIHandler serves the management REST surface the host CMS's admin screens
// call: on-demand regeneration, analytics, insights and cache control.
type APIHandler struct {
	Store     content.Store
	Cache     *cache.Cache
	Converter *markdown.Converter
	Chrome    ChromeFunc
	Analytics *analytics.Log
	Settings  Settings
	Site      content.SiteInfo
	Options   markdown.Options
}

// GenerateMarkdown regenerates one document's rendition and writes it
// through the cache, returning the fresh content.
func (h *APIHandler) GenerateMarkdown(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}

	ctx := c.Request.Context()
	doc, err := h.Store.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		traceID, _ := c.Get("trace_id")
		slog.Error("Document lookup failed", "trace_id", traceID, "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}

	rendition := h.Converter.Convert(doc, h.Options, h.Chrome(ctx))
	cached := true
	if err := h.Cache.Write(doc.ID, []byte(rendition)); err != nil {
		slog.Warn("Failed to cache markdown artifact", "id", doc.ID, "error", err)
		cached = false
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       doc.ID,
		"markdown": rendition,
		"bytes":    len(rendition),
		"cached":   cached,
	})
}

// GenerateLlmsTxt builds the default manifest on demand and returns it for
// preview. It never writes the override slot: /llms.txt keeps assembling from
// live content unless an editor stores an override explicitly.
func (h *APIHandler) GenerateLlmsTxt(c *gin.Context) {
	ctx := c.Request.Context()

	recent, err := h.Store.RecentDocuments(ctx, manifestRecentLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recent content"})
		return
	}
	pages, err := h.Store.StaticPages(ctx, manifestPagesLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pages"})
		return
	}

	manifest := h.Converter.Manifest(h.Site, recent, pages, h.Chrome(ctx))

	c.JSON(http.StatusOK, gin.H{
		"content": manifest,
		"bytes":   len(manifest),
	})
}

// Stats returns the crawler analytics dashboard payload.
func (h *APIHandler) Stats(c *gin.Context) {
	stats, err := h.Analytics.Stats(c.Request.Context())
	if err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Failed to load analytics", "trace_id", traceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type insightsRequest struct {
	Content string `json:"content"`
}

// Insights scores a pasted AI-assistant report against the site's actual
// identity and content.
func (h *APIHandler) Insights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing report content"})
		return
	}

	truth := h.groundTruth(c.Request.Context())
	c.JSON(http.StatusOK, insights.Analyze(req.Content, truth))
}

func (h *APIHandler) groundTruth(ctx context.Context) insights.GroundTruth {
	truth := insights.GroundTruth{
		WebsiteName: h.Site.Name,
		AuthorName:  "Admin",
	}

	recent, err := h.Store.RecentDocuments(ctx, 10)
	if err != nil {
		slog.Warn("Failed to load content for ground truth", "error", err)
		return truth
	}

	seen := map[string]bool{}
	for _, doc := range recent {
		if truth.AuthorName == "Admin" && doc.Author != "" {
			truth.AuthorName = doc.Author
		}
		for _, cat := range doc.Categories {
			if len(truth.Topics) >= 3 {
				break
			}
			if !seen[cat] {
				seen[cat] = true
				truth.Topics = append(truth.Topics, cat)
			}
		}
	}
	return truth
}

// ClearCache drops every per-document artifact. The chrome artifact is left
// alone; it has its own invalidation hook and TTL.
func (h *APIHandler) ClearCache(c *gin.Context) {
	before := h.Cache.Statistics()
	if err := h.Cache.ClearAll(); err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Failed to clear cache", "trace_id", traceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"cleared": before.FileCount,
	})
}

// CacheStats reports artifact count and total size.
func (h *APIHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cache.Statistics())
}

// InvalidateDocument is the host's save/delete hook for one document.
func (h *APIHandler) InvalidateDocument(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}
	h.Cache.Invalidate(id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// InvalidateChrome is the host's theme-switch / menu-change hook.
func (h *APIHandler) InvalidateChrome(c *gin.Context) {
	h.Cache.InvalidateChrome()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
