package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/srgchrksv/echocast/models"
	"github.com/srgchrksv/echocast/pipeline"
)

const (
	defaultCrawlTimeout = 30 * time.Second
	crawlUserAgent      = "echocast/1.0 (+https://github.com/srgchrksv/echocast)"

	// Pages larger than this are not read any further; readable text is
	// capped separately by maxPageChars.
	maxBodyBytes = 2 << 20
)

// Crawler fetches a page and extracts the readable article text from it.
type Crawler struct {
	httpClient   *http.Client
	maxPageChars int
}

func NewCrawler(maxPageChars int) *Crawler {
	return &Crawler{
		httpClient:   &http.Client{Timeout: defaultCrawlTimeout},
		maxPageChars: maxPageChars,
	}
}

// Fetch downloads the page and returns its title and readable text. The
// text is truncated to the per-page cap to keep the generation context
// manageable.
func (c *Crawler) Fetch(ctx context.Context, pageURL string) (models.SearchResult, error) {
	var empty models.SearchResult

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return empty, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", crawlUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("%w: fetch %s: %w", pipeline.ErrUpstream, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return empty, fmt.Errorf("%w: fetch %s: http %d", pipeline.ErrUpstream, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return empty, fmt.Errorf("read %s: %w", pageURL, err)
	}
	html := string(body)

	article, err := readability.FromReader(strings.NewReader(html), resp.Request.URL)
	if err != nil {
		return empty, fmt.Errorf("extract %s: %w", pageURL, err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return empty, fmt.Errorf("no readable text at %s", pageURL)
	}
	if c.maxPageChars > 0 && len(text) > c.maxPageChars {
		text = text[:c.maxPageChars] + "\n\n[... truncated ...]"
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = extractTitle(html)
	}
	if title == "" {
		title = pageURL
	}

	return models.SearchResult{URL: pageURL, Title: title, Text: text}, nil
}

// extractTitle falls back to plain HTML parsing when readability does not
// find a title: <title>, then <h1>, then og:title.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if title, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return ""
}
