package trace

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// TraceIDKey is also the gin context key and the zap field name
const TraceIDKey = "trace_id"

const maxTraceIDLen = 64

type ctxKey struct{}

// GenerateTraceID returns a new random trace ID (32 hex chars)
func GenerateTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FromContext returns the trace_id stored in ctx, or ""
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(ctxKey{}).(string); ok {
		return traceID
	}
	return ""
}

// WithContext stores traceID in ctx
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// FromHeader picks the first non-empty of X-Trace-ID and X-Request-ID, capped at 64 chars
func FromHeader(traceHeader, requestHeader string) string {
	v := strings.TrimSpace(traceHeader)
	if v == "" {
		v = strings.TrimSpace(requestHeader)
	}
	if len(v) > maxTraceIDLen {
		v = v[:maxTraceIDLen]
	}
	// a cut inside a multi-byte rune leaves a partial tail; drop it with any other invalid bytes
	return strings.ToValidUTF8(v, "")
}

// HeaderName returns the trace ID HTTP header
func HeaderName() string {
	return "X-Trace-ID"
}
