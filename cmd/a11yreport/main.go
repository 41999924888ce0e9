package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/a11yreport/dbopen"
	"github.com/hazyhaar/a11yreport/editor"
	"github.com/hazyhaar/a11yreport/eventlog"
	"github.com/hazyhaar/a11yreport/guard"
	"github.com/hazyhaar/a11yreport/store"
	"github.com/hazyhaar/a11yreport/tracker"
)

func main() {
	cfg := loadConfig()

	// Logging.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Editor DB.
	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("open db", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := store.ApplySchema(db); err != nil {
		slog.Error("store schema", "error", err)
		os.Exit(1)
	}

	opts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithSaveTimeout(cfg.SaveTimeout),
	}

	if cfg.EventLog {
		if err := eventlog.Init(db); err != nil {
			slog.Error("eventlog schema", "error", err)
			os.Exit(1)
		}
		if err := eventlog.Cleanup(ctx, db, cfg.EventLogDays); err != nil {
			slog.Warn("eventlog cleanup", "error", err)
		}
		opts = append(opts, editor.WithEventLog(eventlog.New(db)))
	}

	if cfg.RelayURL != "" {
		opts = append(opts, editor.WithTicketFiler(tracker.NewClient(cfg.RelayURL, tracker.WithLogger(logger))))
	}

	svc := editor.New(store.New(db), opts...)
	if err := svc.Load(ctx); err != nil {
		slog.Error("load report", "error", err)
		os.Exit(1)
	}

	// Optional MCP over stdio.
	if env("MCP_TRANSPORT", "") == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    cfg.MCPServerName,
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	r := chi.NewRouter()
	for _, mw := range guard.DefaultStack() {
		r.Use(mw)
	}
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Mount("/api", svc.Routes())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// loadConfig reads the optional YAML config file, then lets environment
// variables override the connection-level settings.
func loadConfig() *editor.Config {
	cfg := editor.DefaultConfig()
	if path := env("CONFIG", ""); path != "" {
		loaded, err := editor.LoadConfigFile(path)
		if err != nil {
			slog.Error("load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if v := env("ADDR", ""); v != "" {
		cfg.Addr = v
	}
	if v := env("DB_PATH", ""); v != "" {
		cfg.DBPath = v
	}
	if v := env("RELAY_URL", ""); v != "" {
		cfg.RelayURL = v
	}
	return cfg
}

func logLevel() slog.Level {
	switch env("LOG_LEVEL", "info") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
