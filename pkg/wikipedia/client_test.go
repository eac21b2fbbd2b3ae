package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"wikigate/pkg/request"
)

func TestGetSummary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page/summary/Douglas_Adams" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Douglas Adams",
			"description": "English author",
			"extract": "Douglas Adams was an English author.",
			"thumbnail": {"source": "https://upload.wikimedia.org/da.jpg"},
			"content_urls": {
				"desktop": {"page": "https://en.wikipedia.org/wiki/Douglas_Adams"},
				"mobile": {"page": "https://en.m.wikipedia.org/wiki/Douglas_Adams"}
			},
			"wikibase_item": "Q42"
		}`))
	}))
	defer ts.Close()

	client := NewClient(request.New("", nil))
	client.APIEndpoint = ts.URL

	s := client.GetSummary(context.Background(), "Douglas Adams", "en")
	if s == nil {
		t.Fatal("Expected summary, got nil")
	}
	if s.Title != "Douglas Adams" {
		t.Errorf("Unexpected title: %s", s.Title)
	}
	if s.Extract != "Douglas Adams was an English author." {
		t.Errorf("Unexpected extract: %s", s.Extract)
	}
	if s.ThumbnailURL != "https://upload.wikimedia.org/da.jpg" {
		t.Errorf("Unexpected thumbnail: %s", s.ThumbnailURL)
	}
	if s.ContentURLs == nil || s.ContentURLs.Desktop != "https://en.wikipedia.org/wiki/Douglas_Adams" {
		t.Errorf("Unexpected content urls: %+v", s.ContentURLs)
	}
	if s.LinkedEntityID != "Q42" {
		t.Errorf("Unexpected linked entity: %s", s.LinkedEntityID)
	}
	if s.Coordinates != nil {
		t.Errorf("Expected no coordinates, got %+v", s.Coordinates)
	}
}

func TestGetSummaryNotFoundSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"not_found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(request.New("", nil))
	client.APIEndpoint = ts.URL

	// 404 is swallowed, never propagated
	if s := client.GetSummary(context.Background(), "Xyzzy_Unknown_Page", "en"); s != nil {
		t.Errorf("Expected nil sentinel for 404, got %+v", s)
	}
}

func TestGetSummaryMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	client := NewClient(request.New("", nil))
	client.APIEndpoint = ts.URL

	if s := client.GetSummary(context.Background(), "Paris", "en"); s != nil {
		t.Errorf("Expected nil sentinel for malformed body, got %+v", s)
	}
}

func TestGetSummaryHTMLExtractFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"title": "Paris",
			"extract": "",
			"extract_html": "<p><b>Paris</b> is the capital of France.</p>",
			"coordinates": {"lat": 48.856, "lon": 2.352}
		}`))
	}))
	defer ts.Close()

	client := NewClient(request.New("", nil))
	client.APIEndpoint = ts.URL

	s := client.GetSummary(context.Background(), "Paris", "en")
	if s == nil {
		t.Fatal("Expected summary, got nil")
	}
	if s.Extract != "Paris is the capital of France." {
		t.Errorf("Expected plain text from HTML extract, got %q", s.Extract)
	}
	if s.Coordinates == nil || s.Coordinates.Lat != 48.856 {
		t.Errorf("Unexpected coordinates: %+v", s.Coordinates)
	}
}
