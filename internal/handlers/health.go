package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erikyo/md4ai/internal/cache"
	"github.com/erikyo/md4ai/internal/db"
)

type HealthHandler struct {
	DB        *db.Database
	Cache     *cache.Cache
	Version   string
	StartTime time.Time
}

func NewHealthHandler(database *db.Database, store *cache.Cache, version string) *HealthHandler {
	return &HealthHandler{
		DB:        database,
		Cache:     store,
		Version:   version,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cacheStats := h.Cache.Statistics()

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"runtime": "go",
		"version": h.Version,
		"uptime":  time.Since(h.StartTime).String(),
		"database": gin.H{
			"status": dbStatus,
		},
		"cache": gin.H{
			"file_count":  cacheStats.FileCount,
			"total_bytes": cacheStats.TotalBytes,
		},
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	})
}
