// cmd/mcp-server/main.go: standalone HTTP tool server for goroots
//
// Exposes the goroots tools as HTTP endpoints for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
// MCP endpoint:       /mcp (streamable HTTP)
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	goroots "github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/config"
	"github.com/njchilds90/goroots/internal/history"
	"github.com/njchilds90/goroots/internal/logging"
	"github.com/njchilds90/goroots/internal/mcpserver"
	"github.com/njchilds90/goroots/internal/metrics"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	configPath := flag.String("config", "", "Config file (default ./goroots.yaml)")
	port := flag.Int("port", 0, "Port to listen on (0 = server.port from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	serverCfg := mcpserver.Config{Defaults: cfg.SolverOptions(), Logger: logger}
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.Dir)
		if err != nil {
			logger.Fatal("failed to open history", zap.Error(err))
		}
		defer store.Close()
		serverCfg.History = store
	}
	mcpServer, err := mcpserver.NewServer(serverCfg)
	if err != nil {
		logger.Fatal("failed to create MCP server", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newMux(logger, mcpServer, cfg.Server.Limiter()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("goroots tool server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

// newMux wires the endpoints. A nil limiter leaves /tool unlimited.
func newMux(logger *zap.Logger, mcpServer *mcpserver.Server, limiter *rate.Limiter) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /tool: handle a tool call
	mux.Handle("/tool", metrics.Middleware("/tool", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in /tool", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if limiter != nil && !limiter.Allow() {
			metrics.RecordRateLimited()
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req goroots.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		resp := goroots.HandleToolCall(req)
		metrics.RecordToolCall(req.Tool, resp.Error != "")
		logger.Debug("tool call", zap.String("tool", req.Tool), zap.Bool("error", resp.Error != ""))
		writeJSON(w, http.StatusOK, resp)
	})))

	// GET /schema: return tool schema for agent registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, goroots.ToolSpec())
	})

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// GET /metrics: Prometheus scrape endpoint
	mux.Handle("/metrics", metrics.Handler())

	// /mcp: Model Context Protocol over streamable HTTP
	mux.Handle("/mcp", metrics.Middleware("/mcp", mcpServer.Handler()))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
