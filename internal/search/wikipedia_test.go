package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWikipediaSearch_ParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("list") != "search" {
			t.Errorf("Unexpected API params: %v", q)
		}
		if got := r.Header.Get("User-Agent"); !strings.Contains(got, "claimguard-test") {
			t.Errorf("Expected custom user agent, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"query": {
				"search": [
					{"title": "Eiffel Tower", "snippet": "The <span class=\"searchmatch\">Eiffel Tower</span> is 324 metres tall."},
					{"title": "", "snippet": "Missing title, skipped."}
				]
			}
		}`))
	}))
	defer server.Close()

	s := NewWikipediaSearch(WikipediaConfig{BaseURL: server.URL, UserAgent: "claimguard-test/0.1"})

	results, err := s.Search(context.Background(), "eiffel tower height", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Snippet != "The Eiffel Tower is 324 metres tall." {
		t.Errorf("Expected searchmatch markup stripped, got %q", results[0].Snippet)
	}
	if results[0].SourceURL != "https://en.wikipedia.org/wiki/Eiffel_Tower" {
		t.Errorf("Expected title-derived URL, got %q", results[0].SourceURL)
	}
}

func TestWikipediaSearch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := NewWikipediaSearch(WikipediaConfig{BaseURL: server.URL})

	if _, err := s.Search(context.Background(), "anything", 3); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestStripMarkup(t *testing.T) {
	cases := map[string]string{
		"plain text":                         "plain text",
		"<b>bold</b> and <i>italic</i>":      "bold and italic",
		"nested <span><em>spans</em></span>": "nested spans",
		"  collapses   whitespace\n\ttoo   ": "collapses whitespace too",
	}

	for in, want := range cases {
		if got := stripMarkup(in); got != want {
			t.Errorf("stripMarkup(%q) = %q, want %q", in, got, want)
		}
	}
}
