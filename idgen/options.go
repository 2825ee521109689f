package idgen

import (
	"time"

	"github.com/ceyewan/superflake/clog"
	"github.com/ceyewan/superflake/metrics"
)

// DefaultPollInterval 序列号耗尽时两次读取时钟之间的休眠时间
const DefaultPollInterval = 100 * time.Microsecond

// Option Generator 初始化选项
type Option func(*options)

type options struct {
	epoch        uint64
	clock        Clock
	pollInterval time.Duration
	logger       clog.Logger
	meter        metrics.Meter
}

func defaultOptions() *options {
	return &options{
		epoch:        DefaultEpoch,
		clock:        SystemClock(),
		pollInterval: DefaultPollInterval,
		logger:       clog.Discard(),
	}
}

// WithEpoch 覆盖默认 epoch（Unix 毫秒）。所有需要解码 ID 的一方必须使用相同的 epoch。
func WithEpoch(epoch uint64) Option {
	return func(o *options) {
		o.epoch = epoch
	}
}

// WithClock 替换时钟，nil 会被忽略
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithPollInterval 设置等待下一毫秒时的轮询间隔，0 表示只让出 CPU（runtime.Gosched）
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithLogger 设置 Logger，自动追加 "idgen" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("idgen")
		}
	}
}

// WithMeter 设置 Meter，用于记录生成数量和等待耗时
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}
