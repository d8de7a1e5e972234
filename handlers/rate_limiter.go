package handlers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"election-voting-backend/cache"
	"election-voting-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiterStats 限流器统计信息
type RateLimiterStats struct {
	TotalRequests    int64 `json:"totalRequests"`
	AllowedRequests  int64 `json:"allowedRequests"`
	RejectedRequests int64 `json:"rejectedRequests"`
}

// RateLimitMiddleware 组合限流：全局用Redis令牌桶，每个客户端IP用
// Redis滑动窗口（多实例部署时窗口在实例间共享）。未配置Redis或
// Redis故障时两层都退化为进程内x/time限流。
type RateLimitMiddleware struct {
	cfg    *config.RateLimitConfig
	rdb    *redis.Client           // 可能为nil
	global cache.RateLimiter       // Redis令牌桶，可能为nil

	mu          sync.Mutex
	perIP       map[string]*rate.Limiter     // 进程内退化路径
	perIPWindow map[string]cache.RateLimiter // Redis滑动窗口
	local       *rate.Limiter                // 进程内全局限流

	stats     RateLimiterStats
	statsLock sync.RWMutex
}

// NewRateLimitMiddleware 创建限流中间件
func NewRateLimitMiddleware(cfg *config.RateLimitConfig, rdb *redis.Client) *RateLimitMiddleware {
	m := &RateLimitMiddleware{
		cfg:         cfg,
		rdb:         rdb,
		local:       rate.NewLimiter(rate.Limit(cfg.GlobalRate), cfg.GlobalBurst),
		perIP:       make(map[string]*rate.Limiter),
		perIPWindow: make(map[string]cache.RateLimiter),
	}
	if rdb != nil {
		m.global = cache.NewTokenBucketRateLimiter(rdb, "global_api", cfg.GlobalRate, cfg.GlobalBurst)
	}
	return m
}

// Handler 返回gin中间件
func (m *RateLimitMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.cfg.Enabled {
			c.Next()
			return
		}

		m.count("total")

		if !m.allowGlobal(c) || !m.allowIP(c.Request.Context(), c.ClientIP()) {
			m.count("rejected")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Zu viele Anfragen. Bitte versuchen Sie es später erneut.",
			})
			c.Abort()
			return
		}

		m.count("allowed")
		c.Next()
	}
}

func (m *RateLimitMiddleware) allowGlobal(c *gin.Context) bool {
	if m.global != nil {
		allowed, err := m.global.Allow(c.Request.Context())
		if err != nil {
			// Redis故障时退化为进程内限流，不直接拒绝请求
			log.Printf("限流检查失败，退化为进程内限流: %v", err)
			return m.local.Allow()
		}
		return allowed
	}
	return m.local.Allow()
}

// allowIP 每个IP在1秒滑动窗口内最多IPBurst个请求
func (m *RateLimitMiddleware) allowIP(ctx context.Context, ip string) bool {
	if m.rdb != nil {
		allowed, err := m.ipWindow(ip).Allow(ctx)
		if err == nil {
			return allowed
		}
		log.Printf("IP限流检查失败，退化为进程内限流: %v", err)
	}
	return m.ipLimiter(ip).Allow()
}

func (m *RateLimitMiddleware) ipWindow(ip string) cache.RateLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	window, ok := m.perIPWindow[ip]
	if !ok {
		window = cache.NewSlidingWindowRateLimiter(m.rdb, "ip:"+ip, time.Second, m.cfg.IPBurst)
		m.perIPWindow[ip] = window
	}
	return window
}

func (m *RateLimitMiddleware) ipLimiter(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	limiter, ok := m.perIP[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(m.cfg.IPRate), m.cfg.IPBurst)
		m.perIP[ip] = limiter
	}
	return limiter
}

func (m *RateLimitMiddleware) count(kind string) {
	m.statsLock.Lock()
	defer m.statsLock.Unlock()
	switch kind {
	case "total":
		m.stats.TotalRequests++
	case "allowed":
		m.stats.AllowedRequests++
	case "rejected":
		m.stats.RejectedRequests++
	}
}

// Stats 返回限流统计快照
func (m *RateLimitMiddleware) Stats(c *gin.Context) {
	m.statsLock.RLock()
	stats := m.stats
	m.statsLock.RUnlock()
	c.JSON(http.StatusOK, stats)
}
