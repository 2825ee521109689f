package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GinMiddlewareOptions Gin 限流中间件选项
type GinMiddlewareOptions struct {
	// KeyFunc 提取限流键，为空时使用客户端 IP
	KeyFunc func(*gin.Context) string

	// LimitFunc 返回限流规则，必填；返回无效规则时放行
	LimitFunc func(*gin.Context) Limit

	// CostFunc 本次请求消耗的令牌数，为空时为 1；返回值 <= 0 时交给后续 handler 处理参数错误
	CostFunc func(*gin.Context) int
}

// GinMiddleware 创建 Gin 限流中间件
//
// 被限流时返回 429。限流器内部出错时放行。
//
//	r.POST("/ids", ratelimit.GinMiddleware(limiter, &ratelimit.GinMiddlewareOptions{
//	    LimitFunc: func(*gin.Context) ratelimit.Limit { return ratelimit.Limit{Rate: 10000, Burst: 4096} },
//	}), handler)
func GinMiddleware(limiter Limiter, opts *GinMiddlewareOptions) gin.HandlerFunc {
	var o GinMiddlewareOptions
	if opts != nil {
		o = *opts
	}
	if o.KeyFunc == nil {
		o.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if o.CostFunc == nil {
		o.CostFunc = func(*gin.Context) int { return 1 }
	}

	return func(c *gin.Context) {
		if limiter == nil || o.LimitFunc == nil {
			c.Next()
			return
		}

		key := o.KeyFunc(c)
		limit := o.LimitFunc(c)
		cost := o.CostFunc(c)
		if key == "" || !limit.Valid() || cost <= 0 {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatFloat(limit.Rate, 'g', -1, 64))
		c.Header("X-RateLimit-Burst", strconv.Itoa(limit.Burst))

		allowed, err := limiter.AllowN(c.Request.Context(), key, limit, cost)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
