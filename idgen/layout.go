package idgen

import (
	"fmt"
	"time"
)

const (
	TimestampBits = 42
	NodeIDBits    = 10
	SequenceBits  = 12

	NodeIDShift    = SequenceBits
	TimestampShift = SequenceBits + NodeIDBits

	MaxNodeID   = 1<<NodeIDBits - 1   // 1023
	MaxSequence = 1<<SequenceBits - 1 // 4095
	MaxElapsed  = 1<<TimestampBits - 1

	// DefaultEpoch 默认起算时间 1616275800000 ms (2021-03-20T21:30:00Z)
	DefaultEpoch uint64 = 1_616_275_800_000
)

// Decoded 解码后的 ID 各字段
type Decoded struct {
	ID        uint64 `json:"id,string"`
	Timestamp uint64 `json:"timestamp"` // Unix 毫秒，= elapsed + Epoch
	NodeID    uint32 `json:"node_id"`
	Sequence  uint32 `json:"sequence"`
	Epoch     uint64 `json:"epoch"`
}

// Elapsed 返回 ID 中记录的相对 epoch 的毫秒数
func (d Decoded) Elapsed() uint64 {
	return d.ID >> TimestampShift
}

// Time 返回 Timestamp 对应的 UTC 时间
func (d Decoded) Time() time.Time {
	return time.UnixMilli(int64(d.Timestamp)).UTC()
}

func (d Decoded) String() string {
	return fmt.Sprintf("id=%d timestamp=%d node_id=%d sequence=%d epoch=%d",
		d.ID, d.Timestamp, d.NodeID, d.Sequence, d.Epoch)
}

// Pack 按位结构拼装 ID，超出位宽的高位会被截断
func Pack(elapsed uint64, nodeID, sequence uint32) uint64 {
	return (elapsed&MaxElapsed)<<TimestampShift |
		uint64(nodeID&MaxNodeID)<<NodeIDShift |
		uint64(sequence&MaxSequence)
}

// Unpack 拆出 ID 的三个字段，是 Pack 的逆运算
func Unpack(id uint64) (elapsed uint64, nodeID, sequence uint32) {
	return id >> TimestampShift, uint32(id>>NodeIDShift) & MaxNodeID, uint32(id) & MaxSequence
}

// DecodeWithEpoch 使用给定 epoch 解码 ID。
//
// 任意 64 位值都能解码出结果，epoch 与生成方不一致时得到的时间戳是错误的，
// 但不会有任何提示。
func DecodeWithEpoch(id, epoch uint64) Decoded {
	elapsed, nodeID, sequence := Unpack(id)
	return Decoded{
		ID:        id,
		Timestamp: elapsed + epoch,
		NodeID:    nodeID,
		Sequence:  sequence,
		Epoch:     epoch,
	}
}
