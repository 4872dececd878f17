package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/srgchrksv/echocast/models"
	"github.com/srgchrksv/echocast/pipeline"
)

const truncationMarker = "\n\n[... truncated ...]"

// Summarize condenses the crawled pages into one structured report.
func (c *Client) Summarize(ctx context.Context, topic string, results []models.SearchResult) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("no research data to summarize")
	}
	if err := c.ensure(ctx); err != nil {
		return "", err
	}

	sources := formatSources(results, c.cfg.MaxResearchChars)
	prompt := fmt.Sprintf(
		"Topic: %s\n\nBelow are %d scraped web articles. Synthesise them into a comprehensive research report.\n\n%s",
		topic, len(results), sources,
	)
	resp, err := c.analyst.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: summarize: %w", pipeline.ErrUpstream, err)
	}
	report, err := responseText(resp)
	if err != nil {
		return "", err
	}
	report = strings.TrimSpace(report)
	if report == "" {
		return "", fmt.Errorf("model returned an empty report")
	}
	return report, nil
}

// formatSources renders the crawled pages as numbered source blocks. When
// the formatted text exceeds maxChars it is cut to the first maxChars
// characters with a marker appended; the rule is deliberately dumb and
// deterministic, there is no relevance ranking.
func formatSources(results []models.SearchResult, maxChars int) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "--- Source %d ---\nURL: %s\nTitle: %s\n\n%s\n\n", i+1, r.URL, r.Title, r.Text)
	}
	text := b.String()
	if maxChars > 0 && len(text) > maxChars {
		text = truncate(text, maxChars) + truncationMarker
	}
	return text
}
