package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/superflake/clog"
	"github.com/ceyewan/superflake/xerrors"
)

func newTestLimiter(t *testing.T, cfg *Config) *standaloneLimiter {
	t.Helper()
	l, err := New(cfg, WithLogger(clog.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l.(*standaloneLimiter)
}

func TestNew_Defaults(t *testing.T) {
	l := newTestLimiter(t, nil)
	assert.Equal(t, time.Minute, l.cfg.CleanupInterval)
	assert.Equal(t, 5*time.Minute, l.cfg.IdleTimeout)
}

func TestAllow(t *testing.T) {
	l := newTestLimiter(t, nil)
	ctx := context.Background()
	limit := Limit{Rate: 1, Burst: 1}

	allowed, err := l.Allow(ctx, "a", limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow(ctx, "a", limit)
	require.NoError(t, err)
	assert.False(t, allowed, "second request within the same second is denied")

	// 不同 key 互不影响
	allowed, err = l.Allow(ctx, "b", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowN(t *testing.T) {
	l := newTestLimiter(t, nil)
	ctx := context.Background()
	limit := Limit{Rate: 1, Burst: 100}

	allowed, err := l.AllowN(ctx, "batch", limit, 60)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.AllowN(ctx, "batch", limit, 60)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.AllowN(ctx, "other", limit, 101)
	require.NoError(t, err)
	assert.False(t, allowed, "cost above burst never passes")
}

func TestAllowN_InvalidArgs(t *testing.T) {
	l := newTestLimiter(t, nil)
	ctx := context.Background()

	_, err := l.Allow(ctx, "", Limit{Rate: 1, Burst: 1})
	assert.ErrorIs(t, err, ErrKeyEmpty)

	_, err = l.Allow(ctx, "k", Limit{Rate: 0, Burst: 1})
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = l.AllowN(ctx, "k", Limit{Rate: 1, Burst: 1}, 0)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestClose(t *testing.T) {
	l := newTestLimiter(t, nil)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	_, err := l.Allow(context.Background(), "k", Limit{Rate: 1, Burst: 1})
	assert.ErrorIs(t, err, ErrLimiterClosed)
}

func TestSweep(t *testing.T) {
	l := newTestLimiter(t, &Config{CleanupInterval: time.Hour, IdleTimeout: time.Minute})
	base := time.Now()
	l.now = func() time.Time { return base }

	ctx := context.Background()
	_, _ = l.Allow(ctx, "old", Limit{Rate: 1, Burst: 1})
	_, _ = l.Allow(ctx, "old", Limit{Rate: 2, Burst: 1})
	assert.Equal(t, 2, l.count(), "same key with different limits uses separate buckets")

	l.now = func() time.Time { return base.Add(30 * time.Second) }
	_, _ = l.Allow(ctx, "fresh", Limit{Rate: 1, Burst: 1})

	l.now = func() time.Time { return base.Add(90 * time.Second) }
	assert.Equal(t, 2, l.sweep())
	assert.Equal(t, 1, l.count())
}
