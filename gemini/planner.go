package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/srgchrksv/echocast/pipeline"
)

const (
	minQueries = 3
	maxQueries = 8
)

type queriesPayload struct {
	Queries []string `json:"queries"`
}

// GenerateQueries asks the flash model for targeted search queries covering
// distinct angles of the topic. Returns between 3 and 8 distinct queries or
// an error.
func (c *Client) GenerateQueries(ctx context.Context, topic string) ([]string, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Generate search queries for the following podcast topic:\n\n%s", topic)
	resp, err := c.planner.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: generate queries: %w", pipeline.ErrUpstream, err)
	}
	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	var payload queriesPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse queries payload: %w", err)
	}
	return cleanQueries(payload.Queries)
}

// cleanQueries trims, deduplicates and bounds the raw query list.
func cleanQueries(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	queries := make([]string, 0, len(raw))
	for _, q := range raw {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
		if len(queries) == maxQueries {
			break
		}
	}
	if len(queries) < minQueries {
		return nil, fmt.Errorf("planner produced %d usable queries, need at least %d", len(queries), minQueries)
	}
	return queries, nil
}
