package auth

import (
	"context"

	"github.com/ceyewan/superflake/metrics"
)

const (
	// MetricTokensVerified Token 校验计数，标签: result (ok/expired/invalid_signature/invalid_token)
	MetricTokensVerified = "auth_tokens_verified_total"

	LabelResult = "result"
)

type instruments struct {
	verified metrics.Counter
}

func newInstruments(m metrics.Meter) (*instruments, error) {
	if m == nil {
		return nil, nil
	}
	c, err := m.Counter(MetricTokensVerified, "Number of service tokens verified, by result.")
	if err != nil {
		return nil, err
	}
	return &instruments{verified: c}, nil
}

func (i *instruments) observe(ctx context.Context, result string) {
	if i == nil {
		return
	}
	i.verified.Inc(ctx, metrics.L(LabelResult, result))
}
