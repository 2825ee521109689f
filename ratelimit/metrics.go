package ratelimit

import (
	"context"

	"github.com/ceyewan/superflake/metrics"
)

const (
	// MetricAllowed 允许通过的请求数 (Counter)
	MetricAllowed = "ratelimit_allowed_total"

	// MetricDenied 被拒绝的请求数 (Counter)
	MetricDenied = "ratelimit_denied_total"

	// MetricBuckets 当前令牌桶数量 (Gauge)
	MetricBuckets = "ratelimit_buckets"
)

type instruments struct {
	allowed metrics.Counter
	denied  metrics.Counter
	buckets metrics.Gauge
}

func newInstruments(m metrics.Meter) (*instruments, error) {
	if m == nil {
		return nil, nil
	}
	allowed, err := m.Counter(MetricAllowed, "Number of requests allowed by the rate limiter.")
	if err != nil {
		return nil, err
	}
	denied, err := m.Counter(MetricDenied, "Number of requests denied by the rate limiter.")
	if err != nil {
		return nil, err
	}
	buckets, err := m.Gauge(MetricBuckets, "Number of live token buckets.")
	if err != nil {
		return nil, err
	}
	return &instruments{allowed: allowed, denied: denied, buckets: buckets}, nil
}

func (i *instruments) observe(allowed bool) {
	if i == nil {
		return
	}
	if allowed {
		i.allowed.Inc(context.Background())
	} else {
		i.denied.Inc(context.Background())
	}
}

func (i *instruments) setBuckets(n int) {
	if i == nil {
		return
	}
	i.buckets.Set(context.Background(), float64(n))
}
