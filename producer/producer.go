// Package producer turns the finished script into one MP3 file. Each line
// is synthesized with the voice mapped to its speaker role, retried a
// bounded number of times, and the clips are stitched in original line
// order no matter in which order the synthesis calls complete. A line
// that still fails after all attempts aborts the whole stage; the
// pipeline never ships an episode with holes in it.
package producer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/srgchrksv/echocast/config"
	"github.com/srgchrksv/echocast/models"
)

// Google TTS returns constant-bitrate MP3 at 32 kbit/s, which makes the
// duration of the stitched file a straight function of its size. The
// value reported in PodcastOutput is an estimate based on that rate.
const mp3BitrateBitsPerSecond = 32000

const retryBaseDelay = 2 * time.Second

// Synthesizer converts one line of text to encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

type Producer struct {
	synth       Synthesizer
	voices      map[string]string
	attempts    int
	concurrency int
	outputDir   string

	// sleeper is swapped out in tests so retries don't actually wait.
	sleeper func(time.Duration)
}

// Option customizes the producer.
type Option func(*Producer)

// WithSleeper overrides how retry delays are performed (used in tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(p *Producer) {
		if sleeper != nil {
			p.sleeper = sleeper
		}
	}
}

func New(synth Synthesizer, cfg config.Config, opts ...Option) *Producer {
	attempts := cfg.TTSAttempts
	if attempts < 1 {
		attempts = 1
	}
	concurrency := cfg.TTSConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	p := &Producer{
		synth: synth,
		voices: map[string]string{
			models.SpeakerHost:  cfg.VoiceHost,
			models.SpeakerGuest: cfg.VoiceGuest,
		},
		attempts:    attempts,
		concurrency: concurrency,
		outputDir:   cfg.OutputDir,
		sleeper:     time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Produce synthesizes every line and writes the stitched MP3 to the
// output directory. Clips are reassembled by line index, so concurrent
// synthesis never reorders the dialogue.
func (p *Producer) Produce(ctx context.Context, script []models.Segment) (*models.PodcastOutput, error) {
	if len(script) == 0 {
		return nil, fmt.Errorf("no dialogue lines to produce")
	}

	clips := make([][]byte, len(script))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, line := range script {
		g.Go(func() error {
			voice := p.voices[line.Speaker]
			if voice == "" {
				// The script writer only emits the two known roles, but a
				// custom stage implementation might not.
				voice = p.voices[models.SpeakerHost]
			}
			log.Printf("producer: [%d/%d] %s: %.60s (%d chars)", i+1, len(script), line.Speaker, line.Text, len(line.Text))
			audio, err := p.synthesizeWithRetry(gctx, line.Text, voice)
			if err != nil {
				return fmt.Errorf("line %d (%s): %w", i+1, line.Speaker, err)
			}
			clips[i] = audio
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Same-encoder CBR MP3 streams concatenate validly at frame
	// boundaries, so stitching is a plain ordered join.
	var combined bytes.Buffer
	for _, clip := range clips {
		combined.Write(clip)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("podcast-%s.mp3", uuid.NewString()[:8])
	path := filepath.Join(p.outputDir, name)
	if err := os.WriteFile(path, combined.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	duration := time.Duration(combined.Len()) * 8 * time.Second / mp3BitrateBitsPerSecond
	log.Printf("producer: exported %s (%d lines, ~%s)", path, len(script), duration.Round(time.Second))
	return &models.PodcastOutput{Path: path, Duration: duration, Lines: len(script)}, nil
}

// synthesizeWithRetry retries transient synthesis failures with a linear
// delay between attempts.
func (p *Producer) synthesizeWithRetry(ctx context.Context, text, voice string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		audio, err := p.synth.Synthesize(ctx, text, voice)
		if err == nil {
			return audio, nil
		}
		lastErr = err
		if attempt < p.attempts {
			log.Printf("producer: synthesis attempt %d/%d failed: %v", attempt, p.attempts, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			p.sleeper(time.Duration(attempt) * retryBaseDelay)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", p.attempts, lastErr)
}
