// Package research implements the web research stage: search queries go
// through the Apify Google Search Scraper, matched URLs are crawled
// locally and reduced to readable article text. Individual search or
// crawl failures are skipped with a warning; the stage only fails when it
// ends up with zero usable content.
package research

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/srgchrksv/echocast/config"
	"github.com/srgchrksv/echocast/models"
)

// Searcher resolves one query to candidate page URLs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// PageFetcher downloads one URL and extracts its readable text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (models.SearchResult, error)
}

type Researcher struct {
	searcher        Searcher
	fetcher         PageFetcher
	resultsPerQuery int
	concurrency     int
}

func NewResearcher(searcher Searcher, fetcher PageFetcher, cfg config.Config) *Researcher {
	concurrency := cfg.CrawlConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	resultsPerQuery := cfg.ResultsPerQuery
	if resultsPerQuery < 1 {
		resultsPerQuery = 1
	}
	return &Researcher{
		searcher:        searcher,
		fetcher:         fetcher,
		resultsPerQuery: resultsPerQuery,
		concurrency:     concurrency,
	}
}

// Research gathers URLs for every query, deduplicates them in first-seen
// order and crawls them with bounded concurrency. The returned slice keeps
// URL discovery order and never contains duplicate URLs.
func (r *Researcher) Research(ctx context.Context, queries []string) ([]models.SearchResult, error) {
	urls := r.collectURLs(ctx, queries)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no crawlable URLs found for %d queries", len(queries))
	}
	log.Printf("research: crawling %d unique URLs", len(urls))

	// Each worker writes only its own index, so the slice needs no lock.
	pages := make([]*models.SearchResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, pageURL := range urls {
		g.Go(func() error {
			result, err := r.fetcher.Fetch(gctx, pageURL)
			if err != nil {
				// A single bad page is not fatal.
				log.Printf("research: skipping %s: %v", pageURL, err)
				return nil
			}
			pages[i] = &result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(pages))
	for _, page := range pages {
		if page != nil {
			results = append(results, *page)
		}
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("all %d crawls failed", len(urls))
	}
	return results, nil
}

// collectURLs searches every query and merges the hits, dropping
// duplicates while preserving first-seen order. Failed searches are
// logged and skipped.
func (r *Researcher) collectURLs(ctx context.Context, queries []string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, query := range queries {
		hits, err := r.searcher.Search(ctx, query, r.resultsPerQuery)
		if err != nil {
			log.Printf("research: search %q failed: %v", query, err)
			continue
		}
		for _, u := range hits {
			if seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}
