package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"wikigate/pkg/tracker"
)

// AnalyticsHandler exposes the payment tracker's view of the service:
// aggregated stats, the transaction ledger, and a CSV export. All three
// are free.
type AnalyticsHandler struct {
	tracker *tracker.Tracker
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(t *tracker.Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: t}
}

// EntrypointStatsDTO is the per-entrypoint aggregate in summary responses.
type EntrypointStatsDTO struct {
	Calls   int64 `json:"calls"`
	Errors  int64 `json:"errors"`
	Revenue int64 `json:"revenue"`
}

// ProviderStatsDTO is the per-upstream aggregate in summary responses.
type ProviderStatsDTO struct {
	Success  int64 `json:"success"`
	Failures int64 `json:"failures"`
}

// SummaryResponse is the payload of GET /api/analytics/summary.
type SummaryResponse struct {
	TotalCalls   int64                         `json:"totalCalls"`
	TotalErrors  int64                         `json:"totalErrors"`
	TotalRevenue int64                         `json:"totalRevenue"`
	Entrypoints  map[string]EntrypointStatsDTO `json:"entrypoints"`
	Upstream     map[string]ProviderStatsDTO   `json:"upstream"`
	GeneratedAt  string                        `json:"generatedAt"`
}

// HandleSummary handles GET /api/analytics/summary.
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := SummaryResponse{
		Entrypoints: make(map[string]EntrypointStatsDTO),
		Upstream:    make(map[string]ProviderStatsDTO),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for provider, stats := range h.tracker.ProviderSnapshot() {
		resp.Upstream[provider] = ProviderStatsDTO{
			Success:  stats.APISuccess,
			Failures: stats.APIFailures,
		}
	}
	for name, stats := range snapshot {
		resp.TotalCalls += stats.Calls
		resp.TotalErrors += stats.Errors
		resp.TotalRevenue += stats.Revenue
		resp.Entrypoints[name] = EntrypointStatsDTO{
			Calls:   stats.Calls,
			Errors:  stats.Errors,
			Revenue: stats.Revenue,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleTransactions handles GET /api/analytics/transactions?limit=N.
func (h *AnalyticsHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		val, err := strconv.Atoi(s)
		if err != nil || val < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = val
	}

	txs, err := h.tracker.Transactions(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to read transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read transactions")
		return
	}
	if txs == nil {
		txs = []tracker.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":        len(txs),
		"transactions": txs,
	})
}

// HandleExport handles GET /api/analytics/export, streaming the full
// ledger as a CSV attachment.
func (h *AnalyticsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="wikigate-transactions-%s.csv"`, time.Now().UTC().Format("2006-01-02")))

	if err := h.tracker.ExportCSV(r.Context(), w); err != nil {
		// Headers are already out; all we can do is log
		slog.Error("Failed to export transactions", "error", err)
	}
}
