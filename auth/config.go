package auth

import (
	"time"

	"github.com/ceyewan/superflake/xerrors"
)

// Config 认证配置
//
//	auth:
//	  enabled: true
//	  secret_key: "${SUPERFLAKE_AUTH_SECRET_KEY}"
//	  issuer: superflake
//	  token_ttl: 24h
type Config struct {
	// Enabled 由使用方判断是否挂载中间件，New 不读取
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	SecretKey string        `mapstructure:"secret_key" yaml:"secret_key" json:"-"` // 至少 32 字符
	Issuer    string        `mapstructure:"issuer" yaml:"issuer" json:"issuer"`
	Audience  []string      `mapstructure:"audience" yaml:"audience" json:"audience"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" yaml:"token_ttl" json:"token_ttl"` // 默认 24h
}

func (c *Config) setDefaults() {
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
}

func (c *Config) validate() error {
	if len(c.SecretKey) < 32 {
		return xerrors.Wrap(ErrInvalidConfig, "secret_key must be at least 32 characters")
	}
	if c.TokenTTL < 0 {
		return xerrors.Wrap(ErrInvalidConfig, "token_ttl must be positive")
	}
	return nil
}
