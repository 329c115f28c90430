package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	RateLimitWindow      = 60
	RateLimitMaxRequests = 30
)

type RateLimitResult struct {
	Allowed     bool
	WaitSeconds int
}

type RateLimiter interface {
	CheckAndRecord(ip string) RateLimitResult
}

type InMemoryRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]float64
}

func NewInMemoryRateLimiter() *InMemoryRateLimiter {
	limiter := &InMemoryRateLimiter{
		requests: make(map[string][]float64),
	}

	go limiter.cleanupLoop()

	return limiter
}

func (l *InMemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := float64(time.Now().Unix())
		for ip, entries := range l.requests {
			l.requests[ip] = pruneOld(entries, now)
			if len(l.requests[ip]) == 0 {
				delete(l.requests, ip)
			}
		}
		l.mu.Unlock()
	}
}

func pruneOld(entries []float64, now float64) []float64 {
	cutoff := now - RateLimitWindow
	result := entries[:0]
	for _, ts := range entries {
		if ts >= cutoff {
			result = append(result, ts)
		}
	}
	return result
}

func (l *InMemoryRateLimiter) CheckAndRecord(ip string) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := float64(time.Now().Unix())

	l.requests[ip] = pruneOld(l.requests[ip], now)
	entries := l.requests[ip]

	if len(entries) >= RateLimitMaxRequests {
		oldest := entries[0]
		waitSeconds := int(oldest+RateLimitWindow-now) + 1
		if waitSeconds < 1 {
			waitSeconds = 1
		}
		return RateLimitResult{
			Allowed:     false,
			WaitSeconds: waitSeconds,
		}
	}

	l.requests[ip] = append(entries, now)

	return RateLimitResult{Allowed: true}
}

// APIRateLimit throttles the management API per client IP.
func APIRateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		result := limiter.CheckAndRecord(clientIP)

		if !result.Allowed {
			traceID, _ := c.Get("trace_id")
			slog.Info("Rate limit triggered",
				"trace_id", traceID,
				"ip", clientIP,
				"path", c.Request.URL.Path,
				"wait_seconds", result.WaitSeconds,
			)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":        fmt.Sprintf("Rate limit reached. Please wait %d seconds before trying again.", result.WaitSeconds),
				"wait_seconds": result.WaitSeconds,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
