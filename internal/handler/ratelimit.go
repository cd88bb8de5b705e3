package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 访客评论提交的默认限流参数：每 30 秒恢复一个令牌，突发上限 3 次。
const (
	defaultRateEvery = 30 * time.Second
	defaultRateBurst = 3
	ratePruneAfter   = time.Hour
)

type visitorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 基于客户端 IP 的简单限流器。
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitorLimiter
	every    time.Duration
	burst    int
}

// NewRateLimiter 构造 RateLimiter，参数非法时回退默认值。
func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	if every <= 0 {
		every = defaultRateEvery
	}
	if burst <= 0 {
		burst = defaultRateBurst
	}
	return &RateLimiter{
		visitors: make(map[string]*visitorLimiter),
		every:    every,
		burst:    burst,
	}
}

// Middleware 返回 gin 中间件，超出限额时响应 429。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "操作过于频繁，请稍后再试"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	visitor, ok := rl.visitors[ip]
	if !ok {
		visitor = &visitorLimiter{limiter: rate.NewLimiter(rate.Every(rl.every), rl.burst)}
		rl.visitors[ip] = visitor
	}
	visitor.lastSeen = now

	// 顺带清理长期未活跃的条目
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > ratePruneAfter {
			delete(rl.visitors, key)
		}
	}

	return visitor.limiter.Allow()
}
