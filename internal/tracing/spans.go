package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrDialect     = "highlight.dialect"
	AttrPattern     = "highlight.pattern"
	AttrAnnotations = "highlight.annotations"
	AttrCacheHit    = "highlight.cache_hit"
	AttrBufferID    = "buffer.id"
	AttrBufferRunes = "buffer.runes"
	AttrQuery       = "query.text"
	AttrPath        = "file.path"
)

// Span names.
const (
	SpanHighlightPass = "highlight.pass"
	SpanQueryEval     = "query.eval"
	SpanReload        = "watch.reload"
)

// Event names.
const (
	EventPatternFailed = "pattern.failed"
	EventPassRecovered = "pass.recovered"
)

// StartPass opens a span for one highlight pass over a buffer.
func StartPass(ctx context.Context, tracer trace.Tracer, dialect, bufferID string, runes int) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanHighlightPass,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrDialect, dialect),
			attribute.String(AttrBufferID, bufferID),
			attribute.Int(AttrBufferRunes, runes),
		),
	)
}

// PatternFailed records a swallowed pattern error on span.
func PatternFailed(span trace.Span, pattern string, err error) {
	span.AddEvent(EventPatternFailed, trace.WithAttributes(
		attribute.String(AttrPattern, pattern),
		attribute.String("error.message", err.Error()),
	))
}

// EndPass records the outcome and ends span. A non-nil err marks the pass
// as recovered, not failed: the host keeps running either way.
func EndPass(span trace.Span, annotations int, cacheHit bool, err error) {
	span.SetAttributes(
		attribute.Int(AttrAnnotations, annotations),
		attribute.Bool(AttrCacheHit, cacheHit),
	)
	if err != nil {
		span.RecordError(err)
		span.AddEvent(EventPassRecovered)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
