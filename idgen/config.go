package idgen

import (
	"time"

	"github.com/ceyewan/superflake/xerrors"
)

// Config Generator 配置，可通过 config.Loader 从 "idgen" 节加载
//
//	idgen:
//	  node_id: 7
//	  epoch: 1616275800000
//	  poll_interval: 100us
type Config struct {
	// NodeID 节点 ID [0, 1023]，必须在集群内唯一
	NodeID uint32 `mapstructure:"node_id" yaml:"node_id" json:"node_id"`

	// Epoch 起算时间（Unix 毫秒），0 表示使用 DefaultEpoch
	Epoch uint64 `mapstructure:"epoch" yaml:"epoch" json:"epoch"`

	// PollInterval 序列号耗尽时的轮询间隔，0 表示使用 DefaultPollInterval
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" json:"poll_interval"`
}

func (c *Config) setDefaults() {
	if c.Epoch == 0 {
		c.Epoch = DefaultEpoch
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
}

func (c *Config) validate() error {
	if c.NodeID > MaxNodeID {
		return xerrors.WithCode(ErrInvalidNodeID, "node_id_out_of_range")
	}
	if c.PollInterval < 0 {
		return xerrors.WithCode(xerrors.ErrInvalidInput, "poll_interval_negative")
	}
	return nil
}

// NewFromConfig 根据配置创建 Generator，opts 在配置之后应用，可覆盖配置项
func NewFromConfig(cfg *Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		return nil, xerrors.WithCode(xerrors.ErrInvalidInput, "config_nil")
	}
	c := *cfg
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	all := make([]Option, 0, len(opts)+2)
	all = append(all, WithEpoch(c.Epoch), WithPollInterval(c.PollInterval))
	all = append(all, opts...)
	return New(c.NodeID, all...)
}
