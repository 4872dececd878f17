package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/srgchrksv/echocast/pipeline"
)

const (
	defaultApifyBaseURL = "https://api.apify.com"
	googleSearchActor   = "apify~google-search-scraper"

	defaultSearchTimeout = 2 * time.Minute
)

// ApifyClient runs the Google Search Scraper actor through Apify's
// run-sync-get-dataset-items endpoint. Apify has no Go SDK, so this talks
// to the REST API directly.
type ApifyClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// ApifyOption customizes the client.
type ApifyOption func(*ApifyClient)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(base string) ApifyOption {
	return func(c *ApifyClient) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ApifyOption {
	return func(c *ApifyClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewApifyClient(token string, opts ...ApifyOption) *ApifyClient {
	c := &ApifyClient{
		token:      token,
		baseURL:    defaultApifyBaseURL,
		httpClient: &http.Client{Timeout: defaultSearchTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRunInput struct {
	Queries          string `json:"queries"`
	MaxPagesPerQuery int    `json:"maxPagesPerQuery"`
	ResultsPerPage   int    `json:"resultsPerPage"`
	LanguageCode     string `json:"languageCode"`
	CountryCode      string `json:"countryCode"`
}

type searchItem struct {
	OrganicResults []organicResult `json:"organicResults"`
}

type organicResult struct {
	URL string `json:"url"`
}

// Search runs one Google search through the actor and returns the top
// organic result URLs, at most limit of them.
func (c *ApifyClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if c.token == "" {
		return nil, fmt.Errorf("APIFY_API_TOKEN is not set")
	}
	input := searchRunInput{
		Queries:          query,
		MaxPagesPerQuery: 1,
		ResultsPerPage:   limit,
		LanguageCode:     "en",
		CountryCode:      "us",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode run input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, googleSearchActor, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: google search: %w", pipeline.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: google search: http %d: %s", pipeline.ErrUpstream, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var items []searchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	var urls []string
	for _, item := range items {
		for _, result := range item.OrganicResults {
			if result.URL == "" {
				continue
			}
			urls = append(urls, result.URL)
			if len(urls) == limit {
				return urls, nil
			}
		}
	}
	return urls, nil
}
