package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ceyewan/superflake/clog"
	"github.com/ceyewan/superflake/xerrors"
)

// bucket 一个限流键对应的令牌桶
type bucket struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

type standaloneLimiter struct {
	cfg     Config
	logger  clog.Logger
	inst    *instruments
	buckets sync.Map // key -> *bucket

	closeOnce sync.Once
	stopCh    chan struct{}
	now       func() time.Time
}

func newStandalone(cfg Config, logger clog.Logger, inst *instruments) *standaloneLimiter {
	if logger == nil {
		logger = clog.Discard()
	}
	l := &standaloneLimiter{
		cfg:    cfg,
		logger: logger,
		inst:   inst,
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
	go l.cleanupLoop()

	logger.Info("rate limiter created",
		clog.Duration("cleanup_interval", cfg.CleanupInterval),
		clog.Duration("idle_timeout", cfg.IdleTimeout))
	return l
}

func (l *standaloneLimiter) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	return l.AllowN(ctx, key, limit, 1)
}

func (l *standaloneLimiter) AllowN(ctx context.Context, key string, limit Limit, n int) (bool, error) {
	select {
	case <-l.stopCh:
		return false, ErrLimiterClosed
	default:
	}
	if key == "" {
		return false, ErrKeyEmpty
	}
	if !limit.Valid() {
		return false, ErrInvalidLimit
	}
	if n <= 0 {
		return false, xerrors.Wrapf(xerrors.ErrInvalidInput, "ratelimit: n must be positive, got %d", n)
	}

	b := l.bucket(key, limit)
	now := l.now()

	b.mu.Lock()
	allowed := b.limiter.AllowN(now, n)
	b.lastSeen = now
	b.mu.Unlock()

	l.inst.observe(allowed)
	if !allowed {
		l.logger.DebugContext(ctx, "rate limited",
			clog.String("key", key),
			clog.Int("requested", n),
			clog.Float64("rate", limit.Rate),
			clog.Int("burst", limit.Burst))
	}
	return allowed, nil
}

// bucket 返回 key 在 limit 规则下的令牌桶，规则不同的同一个 key 使用不同的桶
func (l *standaloneLimiter) bucket(key string, limit Limit) *bucket {
	cacheKey := key + "|" + strconv.FormatFloat(limit.Rate, 'g', -1, 64) + "|" + strconv.Itoa(limit.Burst)
	if v, ok := l.buckets.Load(cacheKey); ok {
		return v.(*bucket)
	}

	b := &bucket{
		limiter:  rate.NewLimiter(rate.Limit(limit.Rate), limit.Burst),
		lastSeen: l.now(),
	}
	actual, loaded := l.buckets.LoadOrStore(cacheKey, b)
	if !loaded {
		l.inst.setBuckets(l.count())
	}
	return actual.(*bucket)
}

func (l *standaloneLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := l.sweep(); removed > 0 {
				l.logger.Debug("idle buckets removed", clog.Int("count", removed))
			}
		case <-l.stopCh:
			return
		}
	}
}

// sweep 删除空闲超过 IdleTimeout 的令牌桶，返回删除数量
func (l *standaloneLimiter) sweep() int {
	now := l.now()
	removed := 0
	l.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastSeen)
		b.mu.Unlock()

		if idle > l.cfg.IdleTimeout {
			l.buckets.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		l.inst.setBuckets(l.count())
	}
	return removed
}

func (l *standaloneLimiter) count() int {
	n := 0
	l.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (l *standaloneLimiter) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopCh)
	})
	return nil
}
