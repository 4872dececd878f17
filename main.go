package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/srgchrksv/echocast/config"
	"github.com/srgchrksv/echocast/gemini"
	"github.com/srgchrksv/echocast/handlers"
	"github.com/srgchrksv/echocast/models"
	"github.com/srgchrksv/echocast/pipeline"
	"github.com/srgchrksv/echocast/producer"
	"github.com/srgchrksv/echocast/research"
	"github.com/srgchrksv/echocast/routes"
	"github.com/srgchrksv/echocast/storage"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "echocast",
		Short:         "Turn a topic into a two-voice podcast MP3",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(generateCommand(), serveCommand())
	return root
}

// stages bundles the pipeline collaborators built from one config.
type stages struct {
	llm      *gemini.Client
	research *research.Researcher
	tts      *producer.GoogleTTS
	producer *producer.Producer
}

func buildStages(cfg config.Config) *stages {
	llm := gemini.New(cfg)
	searcher := research.NewApifyClient(cfg.ApifyToken)
	crawler := research.NewCrawler(cfg.MaxPageChars)
	tts := producer.NewGoogleTTS()
	return &stages{
		llm:      llm,
		research: research.NewResearcher(searcher, crawler, cfg),
		tts:      tts,
		producer: producer.New(tts, cfg),
	}
}

func (s *stages) close() {
	if err := s.llm.Close(); err != nil {
		log.Printf("close gemini client: %v", err)
	}
	if err := s.tts.Close(); err != nil {
		log.Printf("close tts client: %v", err)
	}
}

// pipelineFor builds a pipeline around these stages; the gemini client
// covers planning, summarizing and scripting.
func (s *stages) pipelineFor(sink pipeline.EventSink) *pipeline.Pipeline {
	return pipeline.New(s.llm, s.research, s.llm, s.llm, s.producer, sink)
}

func generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <topic>",
		Short: "Run the pipeline once and print the output file path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			topic := strings.Join(args, " ")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			st := buildStages(cfg)
			defer st.close()

			timings := newStageTimings()
			pipe := st.pipelineFor(func(evt models.ProgressEvent) {
				timings.observe(evt)
				log.Printf("[%s] %s: %s", evt.Stage, evt.Status, evt.Message)
			})

			out, err := pipe.Run(ctx, topic)
			if err != nil {
				var failure *pipeline.Failure
				if errors.As(err, &failure) {
					return fmt.Errorf("pipeline failed at %s stage: %v", failure.Stage, failure.Err)
				}
				return err
			}

			timings.render(os.Stdout)
			fmt.Printf("\nPodcast ready: %s (%d lines, ~%s)\n", out.Path, out.Lines, out.Duration.Round(time.Second))
			return nil
		},
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server exposing the job API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			st := buildStages(cfg)
			defer st.close()

			store := storage.NewStore()
			run := func(ctx context.Context, topic string, sink pipeline.EventSink) (*models.PodcastOutput, error) {
				return st.pipelineFor(sink).Run(ctx, topic)
			}
			h := handlers.New(store, run, cfg.OutputDir)

			r := gin.Default()
			routes.Register(r, h, cfg)

			log.Printf("echocast server listening on %s", cfg.ListenAddr)
			return r.Run(cfg.ListenAddr)
		},
	}
}

// stageTimings collects per-stage wall time from progress events so the
// CLI can print a summary table after the run.
type stageTimings struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*stageTiming
}

type stageTiming struct {
	status   string
	start    time.Time
	duration time.Duration
}

func newStageTimings() *stageTimings {
	return &stageTimings{entries: make(map[string]*stageTiming)}
}

func (t *stageTimings) observe(evt models.ProgressEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[evt.Stage]
	if !ok {
		entry = &stageTiming{start: time.Now()}
		t.entries[evt.Stage] = entry
		t.order = append(t.order, evt.Stage)
	}
	entry.status = evt.Status
	if evt.Status != models.StatusStarted {
		entry.duration = time.Since(entry.start)
	}
}

func (t *stageTimings) render(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Stage", "Status", "Duration"})
	for _, stage := range t.order {
		entry := t.entries[stage]
		tw.AppendRow(table.Row{stage, entry.status, entry.duration.Round(time.Millisecond)})
	}
	tw.Render()
}
