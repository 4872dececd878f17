package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"

	"github.com/srgchrksv/echocast/models"
	"github.com/srgchrksv/echocast/pipeline"
)

// WriteScript turns the report into an ordered Host/Guest dialogue.
// Malformed lines are dropped with a warning; an empty resulting script is
// an error.
func (c *Client) WriteScript(ctx context.Context, topic, report string) ([]models.Segment, error) {
	if strings.TrimSpace(report) == "" {
		return nil, fmt.Errorf("report is empty")
	}
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Topic: %s\n\nResearch Report:\n%s\n\nNow write the podcast script.",
		topic, report,
	)
	resp, err := c.writer.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: write script: %w", pipeline.ErrUpstream, err)
	}
	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	var podcast models.Podcast
	if err := json.Unmarshal([]byte(raw), &podcast); err != nil {
		return nil, fmt.Errorf("parse script payload: %w", err)
	}
	return validateScript(podcast.Podcast, c.cfg.MaxLineChars, c.cfg.MaxScriptChars)
}

// validateScript enforces the two-role contract and the character budgets.
// Lines with an unknown speaker or empty text are dropped with a warning,
// over-long lines are truncated, and the script as a whole is trimmed to
// the total budget by dropping whole trailing lines.
func validateScript(lines []models.Segment, maxLineChars, maxScriptChars int) ([]models.Segment, error) {
	script := make([]models.Segment, 0, len(lines))
	total := 0
	for i, line := range lines {
		speaker := strings.TrimSpace(line.Speaker)
		text := strings.TrimSpace(line.Text)
		if speaker != models.SpeakerHost && speaker != models.SpeakerGuest {
			log.Printf("scriptwriter: dropping line %d, unknown speaker %q", i, line.Speaker)
			continue
		}
		if text == "" {
			log.Printf("scriptwriter: dropping line %d (%s), empty text", i, speaker)
			continue
		}
		if maxLineChars > 0 && len(text) > maxLineChars {
			log.Printf("scriptwriter: line %d (%s) is %d chars, truncating to %d", i, speaker, len(text), maxLineChars)
			text = truncate(text, maxLineChars)
		}
		if maxScriptChars > 0 && total+len(text) > maxScriptChars {
			log.Printf("scriptwriter: script budget reached at line %d, dropping the rest", i)
			break
		}
		total += len(text)
		script = append(script, models.Segment{Speaker: speaker, Text: text})
	}
	if len(script) == 0 {
		return nil, fmt.Errorf("no valid dialogue lines in script response")
	}
	return script, nil
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
