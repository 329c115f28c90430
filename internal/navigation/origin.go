// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package navigation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	originFetchTimeout = 10 * time.Second
	maxOriginBytes     = 4 * 1024 * 1024
)

var (
	headerRegionRe = regexp.MustCompile(`(?is)<header\b[^>]*>.*?</header>`)
	footerRegionRe = regexp.MustCompile(`(?is)<footer\b[^>]*>.*?</footer>`)
)

// OriginSource derives the site chrome from the host CMS's rendered
// homepage. It stands in for the theme's header/footer render step and is
// only invoked on a chrome cache miss.
type OriginSource struct {
	originURL string
	client    *http.Client
}

func NewOriginSource(originURL string) *OriginSource {
	return &OriginSource{
		originURL: strings.TrimRight(originURL, "/"),
		client:    &http.Client{Timeout: originFetchTimeout},
	}
}

// Fetch downloads the origin homepage and extracts the chrome links from its
// <header> and <footer> regions. A page without one of these regions yields
// an empty list for that side.
func (s *OriginSource) Fetch(ctx context.Context) (Chrome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.originURL+"/", nil)
	if err != nil {
		return Chrome{}, fmt.Errorf("failed to create origin request: %w", err)
	}
	req.Header.Set("User-Agent", "md4ai-chrome-extractor/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return Chrome{}, fmt.Errorf("failed to fetch origin homepage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Chrome{}, fmt.Errorf("origin homepage returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOriginBytes))
	if err != nil {
		return Chrome{}, fmt.Errorf("failed to read origin homepage: %w", err)
	}

	page := string(body)
	headerHTML := strings.Join(headerRegionRe.FindAllString(page, -1), "\n")
	footerHTML := strings.Join(footerRegionRe.FindAllString(page, -1), "\n")

	return Extract(headerHTML, footerHTML), nil
}
