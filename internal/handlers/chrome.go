package handlers

import (
	"context"
	"log/slog"

	"github.com/erikyo/md4ai/internal/cache"
	"github.com/erikyo/md4ai/internal/navigation"
)

// ChromeFunc supplies the current site chrome. Implementations must be safe
// to call on every request; failures degrade to empty chrome.
type ChromeFunc func(ctx context.Context) navigation.Chrome

// CachedChrome backs a ChromeFunc with the shared cache artifact, computing
// from the origin only on a stale or missing artifact. A fetch failure is
// logged and yields empty chrome: pages still render, just without the
// navigation and footer sections.
func CachedChrome(store *cache.Cache, source *navigation.OriginSource) ChromeFunc {
	return func(ctx context.Context) navigation.Chrome {
		chrome, err := store.Chrome(func() (navigation.Chrome, error) {
			return source.Fetch(ctx)
		})
		if err != nil {
			slog.Warn("Failed to resolve site chrome", "error", err)
			return navigation.Chrome{}
		}
		return chrome
	}
}
