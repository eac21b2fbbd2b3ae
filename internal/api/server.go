package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"wikigate/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts the gateway, the analytics handler and a shutdownFunc for
// graceful shutdown.
func NewServer(addr string, gw *Gateway, analytics *AnalyticsHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 3. Entrypoints
	mux.HandleFunc("POST /api/entrypoints/{name}", gw.HandleEntrypoint)

	// 4. Analytics Endpoints
	mux.HandleFunc("GET /api/analytics/summary", analytics.HandleSummary)
	mux.HandleFunc("GET /api/analytics/transactions", analytics.HandleTransactions)
	mux.HandleFunc("GET /api/analytics/export", analytics.HandleExport)
	mux.HandleFunc("GET /api/analytics/live", analytics.HandleLive)

	// 5. Discovery: manifest + icon
	mux.HandleFunc("GET /.well-known/wikigate.json", gw.HandleManifest)
	mux.HandleFunc("GET /icon.svg", handleIcon)

	// 6. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// No write timeout: entrypoints run as long as their upstream
		// calls do, and the live feed holds its connection open.
		IdleTimeout: 60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
