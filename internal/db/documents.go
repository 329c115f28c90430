// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/erikyo/md4ai/internal/content"
)

const documentColumns = `id, path, title, COALESCE(author_name, ''), body,
	COALESCE(categories, '{}'), COALESCE(tags, '{}'),
	COALESCE(custom_markdown, ''), COALESCE(excerpt, ''),
	published_at, modified_at`

// DocumentStore implements content.Store on top of the host CMS's documents
// table. Only published documents are visible.
type DocumentStore struct {
	db      *Database
	siteURL string
}

func NewDocumentStore(database *Database, siteURL string) *DocumentStore {
	return &DocumentStore{db: database, siteURL: strings.TrimRight(siteURL, "/")}
}

func (s *DocumentStore) DocumentByID(ctx context.Context, id int64) (*content.Document, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = $1 AND status = 'publish'
	`, id)
	return s.scanDocument(row)
}

func (s *DocumentStore) DocumentByPath(ctx context.Context, path string) (*content.Document, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE path = $1 AND status = 'publish'
	`, normalizePath(path))
	return s.scanDocument(row)
}

func (s *DocumentStore) RecentDocuments(ctx context.Context, limit int) ([]content.Document, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE status = 'publish' AND kind = 'post'
		ORDER BY published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}
	defer rows.Close()
	return s.collectDocuments(rows)
}

func (s *DocumentStore) StaticPages(ctx context.Context, limit int) ([]content.Document, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE status = 'publish' AND kind = 'page'
		ORDER BY menu_order ASC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list static pages: %w", err)
	}
	defer rows.Close()
	return s.collectDocuments(rows)
}

func (s *DocumentStore) scanDocument(row pgx.Row) (*content.Document, error) {
	var doc content.Document
	var published, modified pgtype.Timestamptz

	err := row.Scan(&doc.ID, &doc.Path, &doc.Title, &doc.Author, &doc.Body,
		&doc.Categories, &doc.Tags, &doc.CustomMarkdown, &doc.Excerpt,
		&published, &modified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	doc.PublishedAt = published.Time
	doc.ModifiedAt = modified.Time
	doc.Permalink = s.siteURL + doc.Path
	return &doc, nil
}

func (s *DocumentStore) collectDocuments(rows pgx.Rows) ([]content.Document, error) {
	var docs []content.Document
	for rows.Next() {
		doc, err := s.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p != "/" {
		p = strings.TrimRight(p, "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
