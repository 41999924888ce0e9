// Package kit holds the small shared plumbing used by every a11yreport
// transport: the Endpoint shape, request-scoped context keys, and the MCP
// tool registration helper.
package kit

import "context"

// Endpoint is the transport-agnostic shape of one service operation.
type Endpoint func(ctx context.Context, req any) (any, error)

type contextKey string

const (
	// TraceIDKey is the context key for the per-request trace identifier.
	TraceIDKey contextKey = "kit_trace_id"

	// TransportKey is the context key naming the inbound transport
	// ("http" or "mcp").
	TransportKey contextKey = "kit_transport"
)

// WithTraceID returns a context carrying the trace identifier.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// GetTraceID returns the trace identifier, or "" when absent.
func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}

// WithTransport returns a context carrying the transport name.
func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}

// GetTransport returns the transport name, defaulting to "http".
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}
