package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/erikyo/md4ai/internal/analytics"
	"github.com/erikyo/md4ai/internal/botdetect"
	"github.com/erikyo/md4ai/internal/cache"
	"github.com/erikyo/md4ai/internal/config"
	"github.com/erikyo/md4ai/internal/content"
	"github.com/erikyo/md4ai/internal/db"
	"github.com/erikyo/md4ai/internal/handlers"
	"github.com/erikyo/md4ai/internal/markdown"
	"github.com/erikyo/md4ai/internal/middleware"
	"github.com/erikyo/md4ai/internal/navigation"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	artifactStore, err := cache.New(cfg.CacheDir)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}

	originProxy, err := handlers.NewOriginProxy(cfg.OriginURL)
	if err != nil {
		slog.Error("Failed to initialize origin proxy", "error", err)
		os.Exit(1)
	}

	store := db.NewDocumentStore(database, cfg.SiteURL)
	detector := botdetect.New(cfg.BotAgents)
	converter := markdown.NewConverter(cfg.MarkdownEngine)
	log := analytics.NewLog(database)
	chrome := handlers.CachedChrome(artifactStore, navigation.NewOriginSource(cfg.OriginURL))
	slog.Info("Markdown gateway initialized",
		"engine", converter.Engine(),
		"origin", cfg.OriginURL,
		"crawler_labels", len(detector.Labels()),
	)

	site := content.SiteInfo{
		Name:        cfg.SiteName,
		Description: cfg.SiteDescription,
		URL:         cfg.SiteURL,
		Contact:     cfg.ContactEmail,
	}
	options := markdown.Options{
		IncludeNavigation: cfg.IncludeNavigation,
		IncludeCategories: cfg.IncludeCategories,
		IncludeTags:       cfg.IncludeTags,
		IncludeFooter:     cfg.IncludeFooter,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_requests", middleware.RateLimitMaxRequests, "window_seconds", middleware.RateLimitWindow)

	dispatcher := &handlers.Dispatcher{
		Detector:  detector,
		Store:     store,
		Cache:     artifactStore,
		Converter: converter,
		Chrome:    chrome,
		Analytics: log,
		Options:   options,
	}
	router.Use(dispatcher.Handle())

	manifestHandler := &handlers.ManifestHandler{
		Settings:  database,
		Store:     store,
		Converter: converter,
		Chrome:    chrome,
		Site:      site,
		Detector:  detector,
		Analytics: log,
	}
	apiHandler := &handlers.APIHandler{
		Store:     store,
		Cache:     artifactStore,
		Converter: converter,
		Chrome:    chrome,
		Analytics: log,
		Settings:  database,
		Site:      site,
		Options:   options,
	}
	healthHandler := handlers.NewHealthHandler(database, artifactStore, cfg.AppVersion)

	router.GET("/llms.txt", manifestHandler.LlmsTxt)
	router.GET("/go/health", healthHandler.HealthCheck)

	api := router.Group("/api", middleware.APIRateLimit(rateLimiter))
	{
		editor := api.Group("", middleware.RequireEditor(cfg.EditorToken, cfg.AdminToken))
		editor.POST("/markdown/:id", apiHandler.GenerateMarkdown)
		editor.POST("/llmstxt", apiHandler.GenerateLlmsTxt)
		editor.GET("/stats", apiHandler.Stats)
		editor.POST("/insights", apiHandler.Insights)
		editor.GET("/cache/stats", apiHandler.CacheStats)
		editor.POST("/hooks/document/:id", apiHandler.InvalidateDocument)
		editor.POST("/hooks/chrome", apiHandler.InvalidateChrome)

		admin := api.Group("", middleware.RequireAdmin(cfg.AdminToken))
		admin.POST("/cache/clear", apiHandler.ClearCache)
	}

	router.NoRoute(originProxy)

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting markdown gateway", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
