package research

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/srgchrksv/echocast/pipeline"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Solar Panel Efficiency in 2024</title></head>
<body>
<article>
<h1>Solar Panel Efficiency in 2024</h1>
<p>Solar panel efficiency has improved steadily over the last decade, with
commercial monocrystalline modules now routinely converting more than
twenty-two percent of incoming sunlight into electricity. Laboratory cells
based on perovskite-silicon tandems have pushed past thirty-three percent
under standard test conditions.</p>
<p>Residential installations benefit from these gains through smaller roof
footprints and faster payback periods. Analysts note that the levelized
cost of solar electricity has fallen below that of new fossil generation
in most markets, driven by both cell efficiency and manufacturing scale.</p>
<p>Recycling remains the industry's open problem. End-of-life panel volume
is projected to grow sharply after 2030, and current recovery processes
reclaim glass and aluminium but little of the high-purity silicon.</p>
</article>
</body>
</html>`

func TestCrawlerFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	crawler := NewCrawler(15000)
	result, err := crawler.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.URL != server.URL {
		t.Errorf("url = %s, want %s", result.URL, server.URL)
	}
	if !strings.Contains(result.Title, "Solar Panel Efficiency") {
		t.Errorf("title = %q", result.Title)
	}
	if !strings.Contains(result.Text, "perovskite-silicon tandems") {
		t.Errorf("text missing article content: %.120s", result.Text)
	}
	if strings.Contains(result.Text, "<p>") {
		t.Errorf("text still contains markup")
	}
}

func TestCrawlerTruncatesLongPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	crawler := NewCrawler(100)
	result, err := crawler.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.Text) > 100+len("\n\n[... truncated ...]") {
		t.Errorf("text not truncated, %d chars", len(result.Text))
	}
	if !strings.HasSuffix(result.Text, "[... truncated ...]") {
		t.Errorf("missing truncation marker: %q", result.Text[len(result.Text)-30:])
	}
}

func TestCrawlerFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	crawler := NewCrawler(15000)
	_, err := crawler.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("want error on http 404")
	}
	if !errors.Is(err, pipeline.ErrUpstream) {
		t.Errorf("want ErrUpstream in chain, got %v", err)
	}
}
