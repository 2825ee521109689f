// Package adapter 将 idgen 暴露为 HTTP 接口（Gin）。
//
// 路由：
//
//	POST /ids?count=n     生成 n 个 ID（默认 1）
//	GET  /ids?count=n     同上
//	GET  /ids/:id         解码 ID
//	GET  /healthz         节点信息
//
// ID 在 JSON 中以字符串表示，避免 JavaScript 等客户端丢失精度。
//
//	gen, _ := idgen.NewFromConfig(&cfg.IDGen, idgen.WithLogger(logger))
//	h := adapter.New(idgen.NewLocked(gen),
//	    adapter.WithLogger(logger),
//	    adapter.WithLimiter(limiter, ratelimit.Limit{Rate: 100000, Burst: 4096}),
//	    adapter.WithAuth(authenticator),
//	)
//	r := gin.New()
//	r.Use(adapter.RequestID())
//	h.Register(r)
package adapter

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ceyewan/superflake/auth"
	"github.com/ceyewan/superflake/clog"
	"github.com/ceyewan/superflake/idgen"
	"github.com/ceyewan/superflake/ratelimit"
	"github.com/ceyewan/superflake/trace"
	"github.com/ceyewan/superflake/xerrors"
)

// DefaultMaxBatch 单次请求最多生成的 ID 数量
const DefaultMaxBatch = 4096

// Generator Handler 依赖的生成器，*idgen.Locked 实现了该接口
type Generator interface {
	GenerateBatch(n int) ([]uint64, error)
	Decode(id uint64) idgen.Decoded
	NodeID() uint32
	Epoch() uint64
}

// GenerateResponse 生成接口的响应
type GenerateResponse struct {
	IDs    []string `json:"ids"`
	NodeID uint32   `json:"node_id"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Option Handler 选项
type Option func(*Handler)

// WithLogger 设置 Logger，自动追加 "http" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger.WithNamespace("http")
		}
	}
}

// WithMaxBatch 设置单次请求的 ID 数量上限，<= 0 时忽略
func WithMaxBatch(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBatch = n
		}
	}
}

// WithLimiter 为生成接口按客户端 IP 限流，每个 ID 消耗一个令牌
func WithLimiter(limiter ratelimit.Limiter, limit ratelimit.Limit) Option {
	return func(h *Handler) {
		h.limiter = limiter
		h.limit = limit
	}
}

// WithAuth 要求生成接口携带 auth.ScopeGenerate、解码接口携带 auth.ScopeDecode 的服务 Token
func WithAuth(a auth.Authenticator) Option {
	return func(h *Handler) {
		h.auth = a
	}
}

// Handler ID 服务的 HTTP 处理器
type Handler struct {
	gen      Generator
	logger   clog.Logger
	maxBatch int
	limiter  ratelimit.Limiter
	limit    ratelimit.Limit
	auth     auth.Authenticator
}

// New 创建 Handler
func New(gen Generator, opts ...Option) *Handler {
	h := &Handler{
		gen:      gen,
		logger:   clog.Discard(),
		maxBatch: DefaultMaxBatch,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register 注册路由
func (h *Handler) Register(r gin.IRouter) {
	limited := ratelimit.GinMiddleware(h.limiter, &ratelimit.GinMiddlewareOptions{
		LimitFunc: func(*gin.Context) ratelimit.Limit { return h.limit },
		CostFunc: func(c *gin.Context) int {
			n, err := h.parseCount(c)
			if err != nil {
				return 0
			}
			return n
		},
	})

	generate := append(h.authorize(auth.ScopeGenerate), limited, h.generate)
	r.POST("/ids", generate...)
	r.GET("/ids", generate...)
	r.GET("/ids/:id", append(h.authorize(auth.ScopeDecode), h.decode)...)
	r.GET("/healthz", h.health)
}

func (h *Handler) authorize(scope string) []gin.HandlerFunc {
	if h.auth == nil {
		return nil
	}
	return []gin.HandlerFunc{h.auth.GinMiddleware(), auth.RequireScope(scope)}
}

func (h *Handler) generate(c *gin.Context) {
	n, err := h.parseCount(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	ctx, span := trace.Start(c.Request.Context(), "idgen.generate",
		trace.AttrNodeID.Int64(int64(h.gen.NodeID())),
		trace.AttrCount.Int(n),
	)
	ids, err := h.gen.GenerateBatch(n)
	trace.End(span, err)
	if err != nil {
		h.logger.ErrorContext(ctx, "generate ids failed", clog.Error(err), clog.Int("count", n))
		h.fail(c, http.StatusServiceUnavailable, err)
		return
	}

	resp := GenerateResponse{IDs: make([]string, len(ids)), NodeID: h.gen.NodeID()}
	for i, id := range ids {
		resp.IDs[i] = strconv.FormatUint(id, 10)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) decode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, http.StatusBadRequest, xerrors.WithCode(
			xerrors.Wrapf(xerrors.ErrInvalidInput, "id %q", c.Param("id")), "invalid_id"))
		return
	}
	c.JSON(http.StatusOK, h.gen.Decode(id))
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"node_id": h.gen.NodeID(),
		"epoch":   h.gen.Epoch(),
	})
}

// parseCount 读取 count 参数，缺省为 1
func (h *Handler) parseCount(c *gin.Context) (int, error) {
	raw := c.Query("count")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, xerrors.WithCode(
			xerrors.Wrapf(xerrors.ErrInvalidInput, "count %q", raw), "batch_size_invalid")
	}
	if n > h.maxBatch {
		return 0, xerrors.WithCode(
			xerrors.Wrapf(xerrors.ErrInvalidInput, "count %d exceeds %d", n, h.maxBatch), "batch_size_too_large")
	}
	return n, nil
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: xerrors.GetCode(err)})
}
