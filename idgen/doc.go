// Package idgen 实现 64 位、按时间有序、节点隔离的唯一 ID 生成器（Superflake）。
//
// 位结构（高位到低位）：
//
//	┌──────────────────────────────┬────────────┬──────────────┐
//	│ 42 bits                      │ 10 bits    │ 12 bits      │
//	│ elapsed ms (timestamp-epoch) │ node id    │ sequence     │
//	└──────────────────────────────┴────────────┴──────────────┘
//
// 特性：
//   - 无中心协调：每个节点持有自己的 Generator，节点 ID 由调用方保证唯一
//   - 单实例内单调不减：同一毫秒内序列号递增，每毫秒最多 4096 个 ID
//   - 序列号耗尽时阻塞等待时钟前进到下一毫秒（轮询 Clock，无超时）
//   - 解码需要生成方使用的 epoch，ID 本身不携带 epoch
//
// 并发：
//
// Generator 不是并发安全的。每个 goroutine 持有独立的 Generator（不同节点 ID），
// 或者使用 Locked 包装后共享。Decode 只读取不可变的 epoch，可以并发调用。
//
// 基本使用：
//
//	gen, err := idgen.New(7)
//	if err != nil {
//	    return err
//	}
//	id, err := gen.Generate()
//	d := gen.Decode(id)
//	fmt.Println(d.NodeID, d.Sequence, d.Time())
package idgen
