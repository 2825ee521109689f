package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/superflake/xerrors"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		wantErr  bool
		wantCode string
		epoch    uint64
	}{
		{name: "nil config", cfg: nil, wantErr: true, wantCode: "config_nil"},
		{name: "defaults", cfg: &Config{NodeID: 1}, epoch: DefaultEpoch},
		{name: "custom epoch", cfg: &Config{NodeID: 1, Epoch: 1_700_000_000_000}, epoch: 1_700_000_000_000},
		{name: "node too large", cfg: &Config{NodeID: 2048}, wantErr: true, wantCode: "node_id_out_of_range"},
		{name: "negative poll", cfg: &Config{NodeID: 1, PollInterval: -time.Millisecond}, wantErr: true, wantCode: "poll_interval_negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewFromConfig(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, xerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.epoch, gen.Epoch())
			assert.Equal(t, tt.cfg.NodeID, gen.NodeID())
		})
	}
}

func TestNewFromConfig_OptionsOverride(t *testing.T) {
	cfg := &Config{NodeID: 3, Epoch: 1_000}
	gen, err := NewFromConfig(cfg, WithEpoch(2_000))
	require.NoError(t, err)
	assert.EqualValues(t, 2_000, gen.Epoch())

	// 不修改调用方的配置
	assert.Zero(t, cfg.PollInterval)
}
