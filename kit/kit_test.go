package kit

import (
	"context"
	"testing"
)

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trc_1")
	if got := GetTraceID(ctx); got != "trc_1" {
		t.Errorf("trace id: got %q", got)
	}
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("empty context trace id: got %q", got)
	}
}

func TestTransportDefaultsToHTTP(t *testing.T) {
	if got := GetTransport(context.Background()); got != "http" {
		t.Errorf("default transport: got %q, want http", got)
	}
	ctx := WithTransport(context.Background(), "mcp")
	if got := GetTransport(ctx); got != "mcp" {
		t.Errorf("transport: got %q, want mcp", got)
	}
}
