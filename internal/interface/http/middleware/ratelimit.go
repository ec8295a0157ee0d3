package middleware

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
	"github.com/xiebiao/litshop/pkg/response"
)

// UserRateLimiter 按用户的令牌桶限流
// 每个用户一个rate.Limiter，未登录请求按客户端IP计
type UserRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewUserRateLimiter rps: 每秒补充的令牌数；burst: 桶容量
func NewUserRateLimiter(rps float64, burst int) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow 非阻塞检查
func (l *UserRateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

func (l *UserRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[key]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok = l.limiters[key]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = lim
	return lim
}

// Middleware 超出限额返回429，需放在RequireAuth之后
func (l *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if uid := GetUserID(c); uid != 0 {
			key = "user:" + strconv.FormatUint(uint64(uid), 10)
		}
		if !l.Allow(key) {
			c.Header("Retry-After", "1")
			response.Abort(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
