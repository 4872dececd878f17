// Package gemini implements the three generation stages (query planning,
// summarizing, script writing) on top of the Gemini API. The underlying
// client is constructed lazily on first use, so a missing API key only
// fails the stage that needs it.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/srgchrksv/echocast/config"
)

type Client struct {
	cfg config.Config

	mu      sync.Mutex
	client  *genai.Client
	planner *genai.GenerativeModel
	analyst *genai.GenerativeModel
	writer  *genai.GenerativeModel
}

func New(cfg config.Config) *Client {
	return &Client{cfg: cfg}
}

// ensure builds the genai client and the three role-specific models on
// first use.
func (c *Client) ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}
	if c.cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.GeminiAPIKey))
	if err != nil {
		return fmt.Errorf("create genai client: %w", err)
	}
	c.client = client

	// Planner: fast model, structured {queries: [...]} output.
	c.planner = client.GenerativeModel(c.cfg.FlashModel)
	c.planner.SetTemperature(1)
	c.planner.SetTopK(64)
	c.planner.SetTopP(0.95)
	c.planner.SetMaxOutputTokens(8192)
	c.planner.ResponseMIMEType = "application/json"
	c.planner.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(querySystemPrompt)},
	}
	c.planner.ResponseSchema = &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Targeted web search queries for the topic",
		Properties: map[string]*genai.Schema{
			"queries": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
	}

	// Analyst: reasoning model, free-form markdown report.
	c.analyst = client.GenerativeModel(c.cfg.ProModel)
	c.analyst.SetMaxOutputTokens(8192)
	c.analyst.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(reportSystemPrompt)},
	}

	// Writer: reasoning model, structured {podcast: [{speaker, text}]}.
	c.writer = client.GenerativeModel(c.cfg.ProModel)
	c.writer.SetMaxOutputTokens(8192)
	c.writer.ResponseMIMEType = "application/json"
	c.writer.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(scriptSystemPrompt(c.cfg.MaxScriptChars, c.cfg.MaxLineChars))},
	}
	c.writer.ResponseSchema = &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Return the generated podcast in JSON format",
		Properties: map[string]*genai.Schema{
			"podcast": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"speaker": {
							Type:        genai.TypeString,
							Description: "Name of the speaker, Host or Guest",
						},
						"text": {
							Type:        genai.TypeString,
							Description: "Text spoken by the speaker",
						},
					},
				},
			},
		},
	}
	return nil
}

// Close releases the underlying API client, if one was ever built.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// responseText flattens the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("model returned no text parts")
	}
	return b.String(), nil
}
