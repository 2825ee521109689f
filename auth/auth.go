// Package auth 为 ID 服务提供基于 JWT 的服务间认证。
//
// 调用方持有由同一密钥签发的 HS256 Token，Token 中的 scopes 决定可以访问哪些接口：
//   - ScopeGenerate: 生成 ID
//   - ScopeDecode:   解码 ID
//
// 基本使用：
//
//	a, _ := auth.New(&auth.Config{SecretKey: os.Getenv("SUPERFLAKE_AUTH_SECRET_KEY")})
//	token, _ := a.Issue(ctx, "order-service", auth.ScopeGenerate)
//
//	r.POST("/ids", a.GinMiddleware(), auth.RequireScope(auth.ScopeGenerate), handler)
package auth

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ceyewan/superflake/clog"
	"github.com/ceyewan/superflake/xerrors"
)

// 接口权限
const (
	ScopeGenerate = "ids:generate"
	ScopeDecode   = "ids:decode"
)

// Authenticator 服务 Token 的签发与校验
type Authenticator interface {
	// Issue 为 subject（调用方服务名）签发 Token
	Issue(ctx context.Context, subject string, scopes ...string) (string, error)

	// Verify 校验 Token，返回 Claims
	Verify(ctx context.Context, token string) (*Claims, error)

	// GinMiddleware 校验请求携带的 Token，并将 Claims 写入 gin.Context
	GinMiddleware() gin.HandlerFunc
}

type jwtAuth struct {
	cfg    Config
	logger clog.Logger
	inst   *instruments
	now    func() time.Time
}

// New 创建 Authenticator
func New(cfg *Config, opts ...Option) (Authenticator, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	c := *cfg
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	inst, err := newInstruments(o.meter)
	if err != nil {
		return nil, xerrors.Wrap(err, "create auth metrics")
	}

	return &jwtAuth{cfg: c, logger: o.logger, inst: inst, now: time.Now}, nil
}

func (a *jwtAuth) Issue(ctx context.Context, subject string, scopes ...string) (string, error) {
	if subject == "" {
		return "", xerrors.Wrap(ErrInvalidClaims, "subject is required")
	}

	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.cfg.Issuer,
			Audience:  a.cfg.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TokenTTL)),
		},
		Scopes: scopes,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.SecretKey))
	if err != nil {
		return "", xerrors.Wrap(err, "sign token")
	}

	a.logger.InfoContext(ctx, "token issued",
		clog.String("subject", subject),
		clog.Any("scopes", scopes),
		clog.Duration("ttl", a.cfg.TokenTTL))
	return token, nil
}

func (a *jwtAuth) Verify(ctx context.Context, token string) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	}
	if a.cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(a.cfg.Issuer))
	}
	if len(a.cfg.Audience) > 0 {
		parserOpts = append(parserOpts, jwt.WithAudience(a.cfg.Audience[0]))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(a.cfg.SecretKey), nil
	}, parserOpts...)
	if err != nil {
		reason, mapped := classify(err)
		a.inst.observe(ctx, reason)
		a.logger.DebugContext(ctx, "token rejected", clog.String("reason", reason), clog.Error(err))
		return nil, mapped
	}

	a.inst.observe(ctx, "ok")
	return claims, nil
}

// classify 将 jwt 错误映射为本包的错误
func classify(err error) (string, error) {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired", ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "invalid_signature", ErrInvalidSignature
	default:
		return "invalid_token", xerrors.Wrap(ErrInvalidToken, err.Error())
	}
}

// HasScope 判断 Claims 是否包含 scope
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
