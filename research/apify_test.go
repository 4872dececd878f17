package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/srgchrksv/echocast/pipeline"
)

func TestApifySearch(t *testing.T) {
	var gotInput searchRunInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		wantPath := "/v2/acts/apify~google-search-scraper/run-sync-get-dataset-items"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Errorf("token = %q, want test-token", r.URL.Query().Get("token"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
			t.Errorf("decode input: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"organicResults":[{"url":"https://a"},{"url":"https://b"},{"url":"https://c"}]}]`))
	}))
	defer server.Close()

	client := NewApifyClient("test-token", WithBaseURL(server.URL))
	urls, err := client.Search(context.Background(), "solar panel efficiency 2024", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a" || urls[1] != "https://b" {
		t.Errorf("urls = %v, want first two organic results", urls)
	}
	if gotInput.Queries != "solar panel efficiency 2024" {
		t.Errorf("queries = %q", gotInput.Queries)
	}
	if gotInput.ResultsPerPage != 2 || gotInput.MaxPagesPerQuery != 1 {
		t.Errorf("unexpected run input: %+v", gotInput)
	}
}

func TestApifySearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "actor run failed", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewApifyClient("test-token", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "q", 3)
	if err == nil {
		t.Fatal("want error on http 502")
	}
	if !errors.Is(err, pipeline.ErrUpstream) {
		t.Errorf("want ErrUpstream in chain, got %v", err)
	}
}

func TestApifySearchMissingToken(t *testing.T) {
	client := NewApifyClient("")
	_, err := client.Search(context.Background(), "q", 3)
	if err == nil {
		t.Fatal("want error when token is unset")
	}
}
