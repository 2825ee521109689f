package idgen

import (
	"context"
	"strconv"
	"time"

	"github.com/ceyewan/superflake/metrics"
)

// 指标名称
const (
	// MetricGenerated 生成的 ID 总数 (Counter)
	MetricGenerated = "idgen_generated_total"

	// MetricSequenceExhausted 序列号在同一毫秒内耗尽、需要等待的次数 (Counter)
	MetricSequenceExhausted = "idgen_sequence_exhausted_total"

	// MetricClockBackwards 时间戳小于上一次使用的时间戳、被抬升的次数 (Counter)
	MetricClockBackwards = "idgen_clock_backwards_total"

	// MetricExhaustionWait 等待下一毫秒的耗时 (Histogram, 秒)
	MetricExhaustionWait = "idgen_exhaustion_wait_seconds"

	// LabelNodeID 节点 ID 标签
	LabelNodeID = "node_id"
)

var waitBuckets = []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01}

// instruments 为 nil 时所有方法都是空操作
type instruments struct {
	generated metrics.Counter
	exhausted metrics.Counter
	backwards metrics.Counter
	wait      metrics.Histogram
	labels    []metrics.Label
}

func newInstruments(m metrics.Meter, nodeID uint32) (*instruments, error) {
	if m == nil {
		return nil, nil
	}

	generated, err := m.Counter(MetricGenerated, "Total number of generated ids.")
	if err != nil {
		return nil, err
	}
	exhausted, err := m.Counter(MetricSequenceExhausted, "Number of times the sequence was exhausted within one millisecond.")
	if err != nil {
		return nil, err
	}
	backwards, err := m.Counter(MetricClockBackwards, "Number of timestamps raised to the last used timestamp.")
	if err != nil {
		return nil, err
	}
	wait, err := m.Histogram(MetricExhaustionWait, "Time spent waiting for the next millisecond.",
		metrics.WithUnit("s"), metrics.WithBuckets(waitBuckets))
	if err != nil {
		return nil, err
	}

	return &instruments{
		generated: generated,
		exhausted: exhausted,
		backwards: backwards,
		wait:      wait,
		labels:    []metrics.Label{metrics.L(LabelNodeID, strconv.FormatUint(uint64(nodeID), 10))},
	}, nil
}

func (i *instruments) observeGenerated() {
	if i == nil {
		return
	}
	i.generated.Inc(context.Background(), i.labels...)
}

func (i *instruments) observeBackwards() {
	if i == nil {
		return
	}
	i.backwards.Inc(context.Background(), i.labels...)
}

func (i *instruments) observeExhausted(waited time.Duration) {
	if i == nil {
		return
	}
	ctx := context.Background()
	i.exhausted.Inc(ctx, i.labels...)
	i.wait.Record(ctx, waited.Seconds(), i.labels...)
}
