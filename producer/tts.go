package producer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/srgchrksv/echocast/pipeline"
)

// GoogleTTS synthesizes speech through the Google Cloud Text-to-Speech
// API. The client is built lazily on first use; credential problems
// surface when the producing stage runs, not at startup.
type GoogleTTS struct {
	mu     sync.Mutex
	client *texttospeech.Client
}

func NewGoogleTTS() *GoogleTTS {
	return &GoogleTTS{}
}

func (g *GoogleTTS) ensure(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return nil
	}
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create text-to-speech client: %w", err)
	}
	g.client = client
	return nil
}

// Close releases the API client, if one was ever built.
func (g *GoogleTTS) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

// Synthesize converts one dialogue line to MP3 bytes using the given
// voice, e.g. "en-GB-Standard-B".
func (g *GoogleTTS) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if err := g.ensure(ctx); err != nil {
		return nil, err
	}
	req := texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode(voice),
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}
	resp, err := g.client.SynthesizeSpeech(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: synthesize speech: %w", pipeline.ErrUpstream, err)
	}
	return resp.AudioContent, nil
}

// languageCode derives the BCP-47 language code from a full voice name:
// "en-GB-Standard-B" -> "en-GB".
func languageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}
