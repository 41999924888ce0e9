// Package guard provides the HTTP middleware stack shared by the a11yreport
// editor service and the relay: security headers, request body limits, and
// per-request trace IDs with a structured logger.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range guard.DefaultStack() {
//	    r.Use(mw)
//	}
package guard

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "guard_logger"

// DefaultStack returns the standard middleware stack:
// SecurityHeaders → MaxBody → TraceID.
func DefaultStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders(DefaultHeaders()),
		MaxBody(16 << 20),
		TraceID,
	}
}

// GetLogger retrieves the per-request logger from the context.
// Returns slog.Default() if no logger was set.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
