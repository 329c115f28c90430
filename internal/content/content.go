// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package content

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store lookups when no published document
// matches the given identity or path.
var ErrNotFound = errors.New("document not found")

// Document is one addressable unit of content as the host CMS stores it.
// The gateway only ever reads documents; invalidation of derived artifacts
// is keyed off ModifiedAt and CustomMarkdown changes.
type Document struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Permalink   string    `json:"permalink"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Body        string    `json:"body"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	Excerpt     string    `json:"excerpt"`

	// CustomMarkdown, when non-empty, replaces the generated body block
	// entirely. Navigation/category/tag sections are still appended.
	CustomMarkdown string `json:"custom_markdown"`
}

// SiteInfo identifies the site in the generated llms.txt manifest.
type SiteInfo struct {
	Name        string
	Description string
	URL         string
	Contact     string
}

// Store is the read-only view of the host CMS's content storage.
type Store interface {
	DocumentByID(ctx context.Context, id int64) (*Document, error)
	DocumentByPath(ctx context.Context, path string) (*Document, error)
	RecentDocuments(ctx context.Context, limit int) ([]Document, error)
	StaticPages(ctx context.Context, limit int) ([]Document, error)
}
