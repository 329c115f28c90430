// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	DatabaseURL string
	Port        string
	AppVersion  string

	// OriginURL is the host CMS this gateway fronts. Requests not served as
	// Markdown are proxied there untouched.
	OriginURL string

	SiteName        string
	SiteDescription string
	SiteURL         string
	ContactEmail    string

	CacheDir string

	// MarkdownEngine selects the body conversion engine: "legacy" keeps the
	// historical regex-cascade output; "dom" switches to a parser-backed
	// converter whose output differs on nested and malformed markup.
	MarkdownEngine string

	// BotAgents overrides the built-in crawler label list when non-empty.
	BotAgents []string

	IncludeNavigation bool
	IncludeCategories bool
	IncludeTags       bool
	IncludeFooter     bool

	// EditorToken authorizes the generation/stats API; AdminToken
	// additionally authorizes cache administration.
	EditorToken string
	AdminToken  string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	originURL := os.Getenv("ORIGIN_URL")
	if originURL == "" {
		return nil, fmt.Errorf("ORIGIN_URL environment variable is required")
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN environment variable is required")
	}

	editorToken := os.Getenv("EDITOR_TOKEN")
	if editorToken == "" {
		editorToken = adminToken
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	engine := strings.ToLower(os.Getenv("MARKDOWN_ENGINE"))
	switch engine {
	case "":
		engine = "legacy"
	case "legacy", "dom":
	default:
		return nil, fmt.Errorf("MARKDOWN_ENGINE must be 'legacy' or 'dom', got %q", engine)
	}

	cacheDir := os.Getenv("CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "cache/md4ai"
	}

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = originURL
	}

	var agents []string
	if raw := os.Getenv("BOT_AGENTS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				agents = append(agents, part)
			}
		}
	}

	return &Config{
		DatabaseURL:       dbURL,
		Port:              port,
		AppVersion:        "1.4.0",
		OriginURL:         strings.TrimRight(originURL, "/"),
		SiteName:          os.Getenv("SITE_NAME"),
		SiteDescription:   os.Getenv("SITE_DESCRIPTION"),
		SiteURL:           strings.TrimRight(siteURL, "/"),
		ContactEmail:      os.Getenv("CONTACT_EMAIL"),
		CacheDir:          cacheDir,
		MarkdownEngine:    engine,
		BotAgents:         agents,
		IncludeNavigation: boolEnv("INCLUDE_NAVIGATION", true),
		IncludeCategories: boolEnv("INCLUDE_CATEGORIES", true),
		IncludeTags:       boolEnv("INCLUDE_TAGS", true),
		IncludeFooter:     boolEnv("INCLUDE_FOOTER", true),
		EditorToken:       editorToken,
		AdminToken:        adminToken,
	}, nil
}

func boolEnv(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
