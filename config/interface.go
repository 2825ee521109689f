// Package config 基于 Viper 为 superflake 提供配置加载与热更新。
//
// 加载优先级（高到低）：
//   - 环境变量（前缀默认 SUPERFLAKE，"." 替换为 "_"，例如 SUPERFLAKE_IDGEN_NODE_ID）
//   - .env 文件（不会覆盖已存在的环境变量）
//   - 环境特定配置 config.<env>.yaml，<env> 取自 SUPERFLAKE_ENV
//   - 基础配置 config.yaml
//   - SetDefault 设置的默认值
//
// 使用示例：
//
//	loader, _ := config.New(&config.Config{Name: "superflake"})
//	loader.SetDefault("idgen.node_id", 0)
//	if err := loader.Load(ctx); err != nil {
//		return err
//	}
//	var cfg idgen.Config
//	_ = loader.UnmarshalKey("idgen", &cfg)
//
//	ch, _ := loader.Watch(ctx, "log.level")
//	for ev := range ch {
//		// ev.Value 为新值
//	}
package config

import (
	"context"
	"time"
)

// Loader 配置加载器
type Loader interface {
	// SetDefault 设置默认值，需在 Load 之前调用才能参与校验
	SetDefault(key string, value any)

	// Load 从所有来源加载配置，并开始监听配置文件变化
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体（使用 mapstructure 标签）
	Unmarshal(v any) error

	// UnmarshalKey 将指定 key 反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听 key 的变化，ctx 取消后通道关闭
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 校验当前配置
	Validate() error
}

// Event 配置变更事件
type Event struct {
	Key       string
	Value     any
	OldValue  any
	Source    string // 目前只有 "file"
	Timestamp time.Time
}
