// Package clog 为 superflake 提供基于 slog 的结构化日志组件。
//
// 特性：
//   - 抽象 Logger 接口，不暴露底层 slog 实现
//   - 层级命名空间，例如 "superflake.idgen"
//   - 运行时动态调整日志级别（配合 config 热更新使用）
//   - 从 Context 中提取 request_id 等字段
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{Level: "info", Format: "json"})
//	logger.Info("generator created", clog.Uint64("node_id", 7))
package clog

import (
	"fmt"
	"sync/atomic"
)

// loggerHolder 保证 atomic.Value 中存储的具体类型一致
type loggerHolder struct{ Logger }

var defaultLogger atomic.Value

func init() {
	l, _ := New(&Config{Level: "info", Format: "console", Output: "stderr"})
	defaultLogger.Store(loggerHolder{l})
}

// New 创建一个新的 Logger 实例，config 为 nil 时使用开发环境默认配置
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = NewDevDefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return newLogger(config, applyOptions(opts...))
}

// Default 返回全局默认 Logger
func Default() Logger {
	return defaultLogger.Load().(loggerHolder).Logger
}

// SetDefault 替换全局默认 Logger，nil 会被忽略
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger.Store(loggerHolder{l})
	}
}
