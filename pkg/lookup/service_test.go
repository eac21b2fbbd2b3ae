package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"wikigate/pkg/request"
	"wikigate/pkg/wikidata"
	"wikigate/pkg/wikipedia"
)

// newTestService wires the lookup service against mock wikidata/wikipedia
// upstreams. searchHits maps query -> (id, label); summaries maps title ->
// extract.
func newTestService(t *testing.T, searchHits map[string][2]string, summaries map[string]string, delays map[string]time.Duration) (*Service, func()) {
	t.Helper()

	wdServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("search")
		if d, ok := delays[query]; ok {
			time.Sleep(d)
		}
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("Expected search limit 1, got %s", r.URL.Query().Get("limit"))
		}
		hit, ok := searchHits[query]
		if !ok {
			w.Write([]byte(`{"search": []}`))
			return
		}
		fmt.Fprintf(w, `{"search": [{"id": "%s", "label": "%s", "description": "d"}]}`, hit[0], hit[1])
	}))

	wpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimPrefix(r.URL.Path, "/page/summary/")
		title, _ = url.PathUnescape(title)
		title = strings.ReplaceAll(title, "_", " ")
		extract, ok := summaries[title]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"title": "%s", "extract": "%s", "thumbnail": {"source": "https://img/%s.jpg"}}`, title, extract, title)
	}))

	rc := request.New("", nil)
	wd := wikidata.NewClient(rc)
	wd.APIEndpoint = wdServer.URL
	wp := wikipedia.NewClient(rc)
	wp.APIEndpoint = wpServer.URL

	return New(wd, wp), func() {
		wdServer.Close()
		wpServer.Close()
	}
}

func TestBatchLookup(t *testing.T) {
	svc, cleanup := newTestService(t,
		map[string][2]string{
			"paris":  {"Q90", "Paris"},
			"berlin": {"Q64", "Berlin"},
		},
		map[string]string{
			"Paris": "Paris is the capital of France.",
			// Berlin has a search hit but no summary
		},
		nil,
	)
	defer cleanup()

	results, err := svc.BatchLookup(context.Background(), []string{"paris", "zzz-nothing", "berlin"}, "en")
	if err != nil {
		t.Fatalf("BatchLookup failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if !results[0].Found || results[0].Entity.ID != "Q90" {
		t.Errorf("Unexpected paris result: %+v", results[0])
	}
	if results[0].Entity.Summary == nil || *results[0].Entity.Summary != "Paris is the capital of France." {
		t.Errorf("Unexpected paris summary: %v", results[0].Entity.Summary)
	}
	if results[0].Entity.Thumbnail == nil {
		t.Error("Expected paris thumbnail")
	}

	if results[1].Found || results[1].Entity != nil {
		t.Errorf("Expected not-found for unmatched query: %+v", results[1])
	}

	// Summary sentinel leaves the fields null but the match stands
	if !results[2].Found || results[2].Entity.ID != "Q64" {
		t.Errorf("Unexpected berlin result: %+v", results[2])
	}
	if results[2].Entity.Summary != nil {
		t.Errorf("Expected null summary for berlin, got %v", *results[2].Entity.Summary)
	}
}

func TestBatchLookupPreservesOrder(t *testing.T) {
	// First query is slowest; order must still match input order
	svc, cleanup := newTestService(t,
		map[string][2]string{
			"slow":   {"Q1", "Slow"},
			"medium": {"Q2", "Medium"},
			"fast":   {"Q3", "Fast"},
		},
		map[string]string{},
		map[string]time.Duration{
			"slow":   120 * time.Millisecond,
			"medium": 60 * time.Millisecond,
		},
	)
	defer cleanup()

	results, err := svc.BatchLookup(context.Background(), []string{"slow", "medium", "fast"}, "en")
	if err != nil {
		t.Fatalf("BatchLookup failed: %v", err)
	}

	want := []string{"Q1", "Q2", "Q3"}
	for i, r := range results {
		if !r.Found || r.Entity.ID != want[i] {
			t.Errorf("results[%d] = %+v, want id %s", i, r, want[i])
		}
	}
}

func TestBatchLookupSearchFailure(t *testing.T) {
	wdServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer wdServer.Close()

	rc := request.New("", nil)
	wd := wikidata.NewClient(rc)
	wd.APIEndpoint = wdServer.URL
	svc := New(wd, wikipedia.NewClient(rc))

	if _, err := svc.BatchLookup(context.Background(), []string{"a", "b"}, "en"); err == nil {
		t.Fatal("Expected error when search fails")
	}
}
