package idgen

import (
	"sync"

	"github.com/ceyewan/superflake/xerrors"
)

// Locked 用互斥锁包装 Generator，供多个 goroutine 共享同一个节点 ID 时使用
type Locked struct {
	mu  sync.Mutex
	gen *Generator
}

// NewLocked 包装 gen，之后不应再直接使用 gen
func NewLocked(gen *Generator) *Locked {
	return &Locked{gen: gen}
}

// Generate 见 Generator.Generate
func (l *Locked) Generate() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen.Generate()
}

// GenerateWithTimestamp 见 Generator.GenerateWithTimestamp
func (l *Locked) GenerateWithTimestamp(timestamp uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen.GenerateWithTimestamp(timestamp)
}

// GenerateBatch 在一次加锁内连续生成 n 个 ID，结果严格递增。
// 出错时返回已生成的部分和错误。
func (l *Locked) GenerateBatch(n int) ([]uint64, error) {
	if n <= 0 {
		return nil, xerrors.WithCode(xerrors.ErrInvalidInput, "batch_size_not_positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, 0, n)
	for range n {
		id, err := l.gen.Generate()
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Decode epoch 不可变，无需加锁
func (l *Locked) Decode(id uint64) Decoded {
	return l.gen.Decode(id)
}

func (l *Locked) NodeID() uint32 {
	return l.gen.NodeID()
}

func (l *Locked) Epoch() uint64 {
	return l.gen.Epoch()
}
