package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName superflake 内部 Span 使用的 Tracer 名称
const TracerName = "github.com/ceyewan/superflake"

// ID 服务 Span 属性
const (
	AttrNodeID  = attribute.Key("idgen.node_id")
	AttrCount   = attribute.Key("idgen.count")
	AttrEpoch   = attribute.Key("idgen.epoch")
	AttrIDValue = attribute.Key("idgen.id")
)

// Start 从全局 TracerProvider 创建内部 Span
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// End 结束 Span，err 不为 nil 时记录错误并将状态置为 Error
func End(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TraceID 返回 ctx 中 Span 的 TraceID，没有有效 Span 时返回空字符串
func TraceID(ctx context.Context) string {
	sc := oteltrace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
