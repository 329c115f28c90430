// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erikyo/md4ai/internal/navigation"
)

const (
	docPrefix  = "doc-"
	docSuffix  = ".md"
	chromeFile = "chrome.json"

	// Chrome freshness is time-based rather than event-based: not every
	// path that changes site navigation is instrumented, so a TTL backstop
	// bounds staleness at 24h. Per-document artifacts are event-invalidated.
	chromeTTL = 24 * time.Hour
)

// Cache persists generated Markdown artifacts in a flat directory, one file
// per document identity plus one shared chrome artifact. The directory is
// created private (0700); it must never be served directly.
//
// There is no locking. Concurrent misses for the same identity may both
// regenerate and overwrite; conversion is idempotent per document state, so
// the race only costs duplicate work.
type Cache struct {
	root string
}

func New(root string) (*Cache, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{root: root}, nil
}

func (c *Cache) docPath(id int64) string {
	return filepath.Join(c.root, fmt.Sprintf("%s%d%s", docPrefix, id, docSuffix))
}

// IsFresh reports whether a cached artifact exists for the document and was
// written at or after the document's last modification.
func (c *Cache) IsFresh(id int64, modifiedAt time.Time) bool {
	info, err := os.Stat(c.docPath(id))
	if err != nil {
		return false
	}
	return !info.ModTime().Before(modifiedAt)
}

// Read returns the cached artifact for the document. A read error of any
// kind is reported as a miss.
func (c *Cache) Read(id int64) ([]byte, bool) {
	payload, err := os.ReadFile(c.docPath(id))
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Write persists the artifact. Callers must treat a returned error as "not
// cached" and still serve the freshly generated content.
func (c *Cache) Write(id int64, payload []byte) error {
	if err := os.WriteFile(c.docPath(id), payload, 0o600); err != nil {
		return fmt.Errorf("failed to write cache artifact: %w", err)
	}
	return nil
}

// Invalidate removes the document's artifact. Removing an absent artifact is
// a no-op. Wired to the host's document-save and document-delete hooks and
// to custom-override edits.
func (c *Cache) Invalidate(id int64) {
	if err := os.Remove(c.docPath(id)); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to invalidate cache artifact", "id", id, "error", err)
	}
}

// InvalidateChrome removes the shared chrome artifact. Wired to theme-switch
// and navigation-menu hooks.
func (c *Cache) InvalidateChrome() {
	if err := os.Remove(filepath.Join(c.root, chromeFile)); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to invalidate chrome artifact", "error", err)
	}
}

// Chrome returns the cached site chrome when present and within TTL,
// otherwise invokes compute, persists the result and returns it. Concurrent
// misses may each compute and overwrite; last writer wins. A persist failure
// is logged, not returned: the computed chrome is still usable.
func (c *Cache) Chrome(compute func() (navigation.Chrome, error)) (navigation.Chrome, error) {
	path := filepath.Join(c.root, chromeFile)

	if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < chromeTTL {
		if payload, err := os.ReadFile(path); err == nil {
			var chrome navigation.Chrome
			if err := json.Unmarshal(payload, &chrome); err == nil {
				return chrome, nil
			}
		}
	}

	chrome, err := compute()
	if err != nil {
		return navigation.Chrome{}, err
	}

	payload, err := json.Marshal(chrome)
	if err == nil {
		err = os.WriteFile(path, payload, 0o600)
	}
	if err != nil {
		slog.Warn("Failed to persist chrome artifact", "error", err)
	}
	return chrome, nil
}

// ClearAll removes every per-document artifact, leaving the chrome artifact
// in place. Administrative reset.
func (c *Cache) ClearAll() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("failed to list cache directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, docPrefix) || !strings.HasSuffix(name, docSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.root, name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

type Statistics struct {
	FileCount  int   `json:"file_count"`
	TotalBytes int64 `json:"total_bytes"`
}

// Statistics counts the per-document artifacts and their total size.
func (c *Cache) Statistics() Statistics {
	var stats Statistics
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return stats
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, docPrefix) || !strings.HasSuffix(name, docSuffix) {
			continue
		}
		stats.FileCount++
		if info, err := entry.Info(); err == nil {
			stats.TotalBytes += info.Size()
		}
	}
	return stats
}
