// Package ratelimit 提供单机令牌桶限流，基于 golang.org/x/time/rate。
//
// 每个限流键（客户端 IP、路由等）对应一个独立的令牌桶，空闲超过 IdleTimeout 的桶会被后台清理。
// ID 服务用它限制批量生成接口：一次请求按申请的 ID 数量消耗令牌。
//
// ## 基本使用
//
//	limiter, _ := ratelimit.New(&ratelimit.Config{
//	    CleanupInterval: time.Minute,
//	    IdleTimeout:     5 * time.Minute,
//	}, ratelimit.WithLogger(logger), ratelimit.WithMeter(meter))
//	defer limiter.Close()
//
//	allowed, _ := limiter.AllowN(ctx, "10.0.0.1", ratelimit.Limit{Rate: 10000, Burst: 4096}, 100)
//
// ## Gin 中间件
//
//	r.POST("/ids", ratelimit.GinMiddleware(limiter, &ratelimit.GinMiddlewareOptions{
//	    LimitFunc: func(*gin.Context) ratelimit.Limit { return limit },
//	    CostFunc:  batchSize,
//	}), handler)
package ratelimit

import (
	"context"
	"time"

	"github.com/ceyewan/superflake/xerrors"
)

// Limit 令牌桶规则
type Limit struct {
	Rate  float64 `mapstructure:"rate" yaml:"rate" json:"rate"`    // 每秒生成的令牌数
	Burst int     `mapstructure:"burst" yaml:"burst" json:"burst"` // 桶容量
}

// Valid 判断规则是否可用
func (l Limit) Valid() bool {
	return l.Rate > 0 && l.Burst > 0
}

// Limiter 限流器
type Limiter interface {
	// Allow 尝试获取 1 个令牌，不阻塞
	Allow(ctx context.Context, key string, limit Limit) (bool, error)

	// AllowN 尝试获取 n 个令牌，不阻塞。n 大于 Burst 时永远返回 false
	AllowN(ctx context.Context, key string, limit Limit, n int) (bool, error)

	// Close 停止后台清理
	Close() error
}

// Config 限流器配置
type Config struct {
	// CleanupInterval 清理空闲令牌桶的间隔（默认 1 分钟）
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval" json:"cleanup_interval"`

	// IdleTimeout 令牌桶空闲多久后被清理（默认 5 分钟）
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout"`
}

func (c *Config) setDefaults() {
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Minute
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 5 * time.Minute
	}
}

// New 创建单机限流器，cfg 为 nil 时使用默认配置
func New(cfg *Config, opts ...Option) (Limiter, error) {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	c.setDefaults()

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	inst, err := newInstruments(o.meter)
	if err != nil {
		return nil, xerrors.Wrap(err, "create ratelimit metrics")
	}
	return newStandalone(c, o.logger, inst), nil
}
