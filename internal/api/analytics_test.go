package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)

	env.call(t, "search", map[string]any{"query": "Paris"})
	env.call(t, "details", map[string]any{"entityId": "Q90"})
	env.call(t, "search", map[string]any{"query": "boom"}) // 502, still charged

	resp, err := http.Get(env.srv.URL + "/api/analytics/summary")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var summary SummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode summary: %v", err)
	}

	if summary.TotalCalls != 3 {
		t.Errorf("Expected 3 calls, got %d", summary.TotalCalls)
	}
	if summary.TotalErrors != 1 {
		t.Errorf("Expected 1 error, got %d", summary.TotalErrors)
	}
	// 5 + 10 + 5
	if summary.TotalRevenue != 20 {
		t.Errorf("Expected revenue 20, got %d", summary.TotalRevenue)
	}
	if summary.Entrypoints["search"].Calls != 2 {
		t.Errorf("Expected 2 search calls, got %+v", summary.Entrypoints["search"])
	}
	if summary.GeneratedAt == "" {
		t.Error("Expected generatedAt timestamp")
	}

	// Upstream counters come from the request client; the mock upstream
	// is addressed by loopback IP. The failed search counts one failure.
	upstream, ok := summary.Upstream["127.0.0.1"]
	if !ok {
		t.Fatalf("Expected upstream counters, got %v", summary.Upstream)
	}
	if upstream.Success < 2 || upstream.Failures != 1 {
		t.Errorf("Unexpected upstream counters: %+v", upstream)
	}
}

func TestAnalyticsTransactions(t *testing.T) {
	env := newTestEnv(t)

	env.call(t, "search", map[string]any{"query": "Paris"})
	env.call(t, "summary", map[string]any{"title": "Paris"})

	resp, err := http.Get(env.srv.URL + "/api/analytics/transactions?limit=1")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Count        int `json:"count"`
		Transactions []struct {
			ID         string `json:"id"`
			Entrypoint string `json:"entrypoint"`
			Fee        int64  `json:"fee"`
		} `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode transactions: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("Expected 1 transaction with limit=1, got %d", out.Count)
	}
	// Newest first
	if out.Transactions[0].Entrypoint != "summary" {
		t.Errorf("Expected newest transaction first, got %+v", out.Transactions[0])
	}
	if out.Transactions[0].ID == "" {
		t.Error("Expected generated transaction id")
	}
}

func TestAnalyticsTransactionsBadLimit(t *testing.T) {
	env := newTestEnv(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		resp, err := http.Get(env.srv.URL + "/api/analytics/transactions?limit=" + limit)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", limit, resp.StatusCode)
		}
	}
}

func TestAnalyticsExport(t *testing.T) {
	env := newTestEnv(t)

	env.call(t, "search", map[string]any{"query": "Paris"})

	resp, err := http.Get(env.srv.URL + "/api/analytics/export")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Expected attachment disposition, got %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if lines[0] != "id,entrypoint,fee,caller,status,created_at" {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	if len(lines) != 2 || !strings.Contains(lines[1], "search") {
		t.Errorf("Expected one data row for search, got %v", lines)
	}
}

func TestManifest(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/.well-known/wikigate.json")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var manifest struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		Icon        string `json:"icon"`
		Entrypoints []struct {
			Name  string      `json:"name"`
			Price int64       `json:"price"`
			Path  string      `json:"path"`
			Input []FieldSpec `json:"input"`
		} `json:"entrypoints"`
		Payment struct {
			Network string `json:"network"`
			Unit    string `json:"unit"`
		} `json:"payment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		t.Fatalf("Failed to decode manifest: %v", err)
	}

	if manifest.Name != "wikigate" || manifest.Version == "" {
		t.Errorf("Unexpected service identity: %+v", manifest)
	}
	if len(manifest.Entrypoints) != 6 {
		t.Fatalf("Expected 6 entrypoints, got %d", len(manifest.Entrypoints))
	}
	if manifest.Payment.Network != "preprod" || manifest.Payment.Unit != "lovelace" {
		t.Errorf("Unexpected payment block: %+v", manifest.Payment)
	}

	byName := make(map[string]int64)
	for _, ep := range manifest.Entrypoints {
		byName[ep.Name] = ep.Price
		if ep.Path != "/api/entrypoints/"+ep.Name {
			t.Errorf("Unexpected path for %s: %s", ep.Name, ep.Path)
		}
	}
	if byName["overview"] != 0 || byName["batch"] != 25 {
		t.Errorf("Unexpected pricing in manifest: %v", byName)
	}

	// The declared input contract is published, not duplicated
	for _, ep := range manifest.Entrypoints {
		if ep.Name == "search" && len(ep.Input) != 3 {
			t.Errorf("Expected 3 declared search fields, got %d", len(ep.Input))
		}
	}
}

func TestIconServed(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/icon.svg")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected image/svg+xml, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<svg") {
		t.Error("Expected SVG payload")
	}
}
