package timed

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// tracerName 是注册到 TracerProvider 的 instrumentation 名称。
	tracerName = "github.com/omeyang/xtimed/pkg/observability/timed"

	// spanName 是度量跨度的统一名称，函数显示名放在属性里。
	spanName = "xtimed"

	// attrFunction 记录函数显示名的属性键。
	attrFunction = "function"
)

// Span 是一次函数度量对应的追踪跨度。
// 零值可用：End 对零值是空操作。
type Span struct {
	otel trace.Span
}

// End 结束跨度。
func (s Span) End() {
	if s.otel != nil {
		s.otel.End()
	}
}

// StartSpan 为名为 name 的函数开启度量跨度，返回携带跨度的派生上下文。
// 跨度统一命名为 "xtimed"，函数显示名记录在 function 属性中。
func StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName,
		trace.WithAttributes(attribute.String(attrFunction, name)))
	return ctx, Span{otel: span}
}
