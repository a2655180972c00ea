/*
 * @Description: IP 기반 요청 속도 제한
 * @Author: memorymap
 * @Date: 2026-04-18 07:13:07
 * @LastEditTime: 2026-04-29 01:41:37
 * @LastEditors: memorymap
 */
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/memorymap/memorymap-app/pkg/response"
)

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	limiters          map[string]*limiterInfo
	mu                sync.Mutex
	requestsPerMinute int
	burst             int
	idleTTL           time.Duration
}

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		idleTTL:           10 * time.Minute,
	}
}

func (i *ipRateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, exists := i.limiters[ip]
	if !exists {
		info = &limiterInfo{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst),
		}
		i.limiters[ip] = info
	}
	info.lastAccessed = now
	return info.limiter
}

// prune drops limiters idle for longer than idleTTL and returns how many were removed.
func (i *ipRateLimiter) prune(now time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	removed := 0
	for ip, info := range i.limiters {
		if now.Sub(info.lastAccessed) > i.idleTTL {
			delete(i.limiters, ip)
			removed++
		}
	}
	return removed
}

// getClientIP prefers X-Real-IP, then the first X-Forwarded-For hop, then RemoteAddr.
func getClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if host, _, err := net.SplitHostPort(first); err == nil {
			return host
		}
		return first
	}
	if ip, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return ip
	}
	return c.Request.RemoteAddr
}

// CustomRateLimit limits each client IP to requestsPerMinute with the given burst.
// Idle limiters are pruned on the request path.
func CustomRateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(requestsPerMinute, burst)
	var lastPrune time.Time
	var pruneMu sync.Mutex

	return func(c *gin.Context) {
		now := time.Now()
		pruneMu.Lock()
		if now.Sub(lastPrune) > 5*time.Minute {
			lastPrune = now
			limiter.prune(now)
		}
		pruneMu.Unlock()

		if !limiter.getLimiter(getClientIP(c), now).Allow() {
			response.Fail(c, http.StatusTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
			c.Abort()
			return
		}
		c.Next()
	}
}
