// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erikyo/md4ai/internal/analytics"
	"github.com/erikyo/md4ai/internal/botdetect"
	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/markdown"
)

const (
	manifestContentType  = "text/plain; charset=utf-8"
	manifestCacheControl = "public, max-age=3600"
	manifestSettingKey   = "llms_txt_content"

	manifestRecentLimit = 5
	manifestPagesLimit  = 10
)

// Settings is the key-value store handlers read overrides from.
type Settings interface {
	GetSetting(ctx context.Context, key string) ([]byte, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// ManifestHandler serves /llms.txt. An editor-stored override wins; otherwise
// the manifest is assembled live from the freshest content.
type ManifestHandler struct {
	Settings  Settings
	Store     content.Store
	Converter *markdown.Converter
	Chrome    ChromeFunc
	Site      content.SiteInfo
	Detector  *botdetect.Detector
	Analytics *analytics.Log
}

func (h *ManifestHandler) LlmsTxt(c *gin.Context) {
	ctx := c.Request.Context()

	manifest, err := h.manifest(ctx)
	if err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Failed to build llms.txt", "trace_id", traceID, "error", err)
		c.String(http.StatusInternalServerError, "manifest unavailable")
		return
	}

	// Manifest hits from known crawlers are logged under document id 0.
	if detection := h.Detector.Classify(c.GetHeader("User-Agent")); detection.Bot {
		h.Analytics.Record(ctx, 0, detection.Label)
	}

	c.Header("Cache-Control", manifestCacheControl)
	c.Header("X-Robots-Tag", robotsTagValue)
	c.Data(http.StatusOK, manifestContentType, []byte(manifest))
}

func (h *ManifestHandler) manifest(ctx context.Context) (string, error) {
	if override, ok := h.override(ctx); ok {
		return override, nil
	}

	recent, err := h.Store.RecentDocuments(ctx, manifestRecentLimit)
	if err != nil {
		return "", err
	}
	pages, err := h.Store.StaticPages(ctx, manifestPagesLimit)
	if err != nil {
		return "", err
	}

	return h.Converter.Manifest(h.Site, recent, pages, h.Chrome(ctx)), nil
}

func (h *ManifestHandler) override(ctx context.Context) (string, bool) {
	raw, err := h.Settings.GetSetting(ctx, manifestSettingKey)
	if err != nil {
		slog.Warn("Failed to load llms.txt override", "error", err)
		return "", false
	}
	if len(raw) == 0 {
		return "", false
	}
	var override string
	if err := json.Unmarshal(raw, &override); err != nil {
		slog.Warn("Malformed llms.txt override, ignoring", "error", err)
		return "", false
	}
	if override == "" {
		return "", false
	}
	return override, true
}
