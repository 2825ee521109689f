package metrics

// Config 指标配置
//
//	metrics:
//	  enabled: true
//	  service_name: "superflake"
//	  version: "v0.1.0"
//	  port: 9090
//	  path: "/metrics"
//	  runtime: true
type Config struct {
	// Enabled 为 false 时 New 返回 noop Meter
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// ServiceName 写入 OpenTelemetry Resource 的 service.name
	ServiceName string `mapstructure:"service_name" yaml:"service_name" json:"service_name"`

	// Version 写入 service.version
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Port 大于 0 时启动独立的 Prometheus HTTP 服务
	Port int `mapstructure:"port" yaml:"port" json:"port"`

	// Path 抓取路径，默认 "/metrics"
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// Runtime 采集 Go 运行时指标（GC、goroutine、内存）
	Runtime bool `mapstructure:"runtime" yaml:"runtime" json:"runtime"`
}

func (c *Config) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "superflake"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}
