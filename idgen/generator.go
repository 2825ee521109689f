package idgen

import (
	"runtime"
	"time"

	"github.com/ceyewan/superflake/clog"
	"github.com/ceyewan/superflake/xerrors"
)

// Generator 单节点 ID 生成器
//
// 零值不可用，必须通过 New 创建。Generator 不是并发安全的，见 Locked。
type Generator struct {
	nodeID       uint32
	epoch        uint64
	clock        Clock
	pollInterval time.Duration
	logger       clog.Logger
	inst         *instruments

	sequence uint32
	// lastTimestamp 上一次打包使用的时间戳
	lastTimestamp uint64
	// lastExhaustion 序列号最近一次从 4095 回绕到 0 时的时间戳
	lastExhaustion uint64
	wrapped        bool
}

// New 创建 Generator
//
// nodeID 必须在 [0, 1023] 内，否则返回 ErrInvalidNodeID。
// 集群内各节点 ID 的唯一性由调用方保证。
//
//	gen, _ := idgen.New(7,
//	    idgen.WithEpoch(idgen.DefaultEpoch),
//	    idgen.WithLogger(logger),
//	    idgen.WithMeter(meter),
//	)
func New(nodeID uint32, opts ...Option) (*Generator, error) {
	if nodeID > MaxNodeID {
		return nil, xerrors.WithCode(
			xerrors.Wrapf(ErrInvalidNodeID, "node id %d (max %d)", nodeID, MaxNodeID),
			"node_id_out_of_range")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.pollInterval < 0 {
		return nil, xerrors.WithCode(xerrors.ErrInvalidInput, "poll_interval_negative")
	}

	inst, err := newInstruments(o.meter, nodeID)
	if err != nil {
		return nil, xerrors.Wrap(err, "create idgen metrics")
	}

	g := &Generator{
		nodeID:       nodeID,
		epoch:        o.epoch,
		clock:        o.clock,
		pollInterval: o.pollInterval,
		logger:       o.logger,
		inst:         inst,
	}

	g.logger.Info("id generator created",
		clog.Uint64("node_id", uint64(nodeID)),
		clog.Uint64("epoch", o.epoch),
	)
	return g, nil
}

// NodeID 返回节点 ID
func (g *Generator) NodeID() uint32 {
	return g.nodeID
}

// Epoch 返回 epoch（Unix 毫秒）
func (g *Generator) Epoch() uint64 {
	return g.epoch
}

// Generate 使用 Clock 的当前时间生成 ID
func (g *Generator) Generate() (uint64, error) {
	return g.GenerateWithTimestamp(g.clock.NowMillis())
}

// GenerateWithTimestamp 使用给定的 Unix 毫秒时间戳生成 ID
//
//   - timestamp 早于 epoch 返回 ErrClockBeforeEpoch，超出 42 bit 返回 ErrTimestampOverflow，
//     两种情况都不改变内部状态
//   - timestamp 小于上一次使用的时间戳时按上一次的时间戳处理，保证单实例内 ID 不减
//   - 同一毫秒内 4096 个序列号用完后阻塞，轮询 Clock 直到其返回值大于该毫秒，
//     并使用新读到的时间戳。没有超时，Clock 停止前进会导致永久阻塞
func (g *Generator) GenerateWithTimestamp(timestamp uint64) (uint64, error) {
	if err := g.checkTimestamp(timestamp); err != nil {
		return 0, err
	}

	if timestamp < g.lastTimestamp {
		g.inst.observeBackwards()
		timestamp = g.lastTimestamp
	}

	if g.wrapped && g.sequence == 0 && timestamp <= g.lastExhaustion {
		timestamp = g.waitNextMillis(g.lastExhaustion)
		if err := g.checkTimestamp(timestamp); err != nil {
			return 0, err
		}
	}

	id := Pack(timestamp-g.epoch, g.nodeID, g.sequence)

	if g.sequence == MaxSequence {
		g.sequence = 0
		g.lastExhaustion = timestamp
		g.wrapped = true
	} else {
		g.sequence++
	}
	g.lastTimestamp = timestamp

	g.inst.observeGenerated()
	return id, nil
}

// Decode 使用本 Generator 的 epoch 解码 ID，不修改任何状态
func (g *Generator) Decode(id uint64) Decoded {
	return DecodeWithEpoch(id, g.epoch)
}

func (g *Generator) checkTimestamp(timestamp uint64) error {
	if timestamp < g.epoch {
		return xerrors.Wrapf(ErrClockBeforeEpoch, "timestamp %d, epoch %d", timestamp, g.epoch)
	}
	if timestamp-g.epoch > MaxElapsed {
		return xerrors.Wrapf(ErrTimestampOverflow, "timestamp %d, epoch %d", timestamp, g.epoch)
	}
	return nil
}

// waitNextMillis 阻塞直到 Clock 返回的时间大于 last，返回新的时间戳
func (g *Generator) waitNextMillis(last uint64) uint64 {
	start := time.Now()
	g.logger.Debug("sequence exhausted, waiting for next millisecond",
		clog.Uint64("node_id", uint64(g.nodeID)),
		clog.Uint64("timestamp", last),
	)

	now := g.clock.NowMillis()
	for now <= last {
		if g.pollInterval > 0 {
			time.Sleep(g.pollInterval)
		} else {
			runtime.Gosched()
		}
		now = g.clock.NowMillis()
	}

	g.inst.observeExhausted(time.Since(start))
	return now
}
