// Package pipeline drives the five EchoCast stages in order:
// planning -> researching -> summarizing -> scripting -> producing.
// Each stage consumes the previous stage's output and must produce a
// non-empty result before the next one starts; any fatal stage error moves
// the run straight to failed. Stages never run concurrently with each
// other, though the researcher and producer may fan out internally.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/srgchrksv/echocast/models"
)

// Stage names, in execution order.
type Stage string

const (
	StagePlanning    Stage = "planning"
	StageResearching Stage = "researching"
	StageSummarizing Stage = "summarizing"
	StageScripting   Stage = "scripting"
	StageProducing   Stage = "producing"
)

// QueryPlanner turns a topic into 3-8 targeted search queries.
type QueryPlanner interface {
	GenerateQueries(ctx context.Context, topic string) ([]string, error)
}

// Researcher collects crawled page text for the given queries.
type Researcher interface {
	Research(ctx context.Context, queries []string) ([]models.SearchResult, error)
}

// Summarizer condenses the research into one report.
type Summarizer interface {
	Summarize(ctx context.Context, topic string, results []models.SearchResult) (string, error)
}

// ScriptWriter converts the report into an ordered two-speaker dialogue.
type ScriptWriter interface {
	WriteScript(ctx context.Context, topic, report string) ([]models.Segment, error)
}

// AudioProducer synthesizes and stitches the script into one audio file.
type AudioProducer interface {
	Produce(ctx context.Context, script []models.Segment) (*models.PodcastOutput, error)
}

// EventSink receives progress events in stage execution order.
type EventSink func(models.ProgressEvent)

// Pipeline coordinates one run. All collaborators are injected, so a
// misconfigured client only surfaces when its stage executes.
type Pipeline struct {
	planner    QueryPlanner
	researcher Researcher
	summarizer Summarizer
	writer     ScriptWriter
	producer   AudioProducer
	sink       EventSink
}

func New(planner QueryPlanner, researcher Researcher, summarizer Summarizer, writer ScriptWriter, producer AudioProducer, sink EventSink) *Pipeline {
	if sink == nil {
		sink = func(models.ProgressEvent) {}
	}
	return &Pipeline{
		planner:    planner,
		researcher: researcher,
		summarizer: summarizer,
		writer:     writer,
		producer:   producer,
		sink:       sink,
	}
}

// Run executes the full pipeline for one topic and returns the finished
// podcast. On failure the returned error is a *Failure naming the stage
// that aborted; the run is never retried here.
func (p *Pipeline) Run(ctx context.Context, topic string) (*models.PodcastOutput, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, p.fail(StagePlanning, ErrPlanning, fmt.Errorf("topic is empty"))
	}

	p.started(StagePlanning, "generating research queries for %q", topic)
	queries, err := p.planner.GenerateQueries(ctx, topic)
	if err != nil {
		return nil, p.fail(StagePlanning, ErrPlanning, err)
	}
	if len(queries) == 0 {
		return nil, p.fail(StagePlanning, ErrPlanning, fmt.Errorf("planner returned no queries"))
	}
	p.completed(StagePlanning, "generated %d queries", len(queries))

	p.started(StageResearching, "researching %d queries", len(queries))
	results, err := p.researcher.Research(ctx, queries)
	if err != nil {
		return nil, p.fail(StageResearching, ErrResearch, err)
	}
	if len(results) == 0 {
		return nil, p.fail(StageResearching, ErrResearch, fmt.Errorf("no usable research content collected"))
	}
	p.completed(StageResearching, "collected %d pages", len(results))

	p.started(StageSummarizing, "synthesizing %d sources", len(results))
	report, err := p.summarizer.Summarize(ctx, topic, results)
	if err != nil {
		return nil, p.fail(StageSummarizing, ErrSummarization, err)
	}
	if strings.TrimSpace(report) == "" {
		return nil, p.fail(StageSummarizing, ErrSummarization, fmt.Errorf("summarizer returned an empty report"))
	}
	p.completed(StageSummarizing, "report ready, %d characters", len(report))

	p.started(StageScripting, "writing the dialogue")
	script, err := p.writer.WriteScript(ctx, topic, report)
	if err != nil {
		return nil, p.fail(StageScripting, ErrScript, err)
	}
	if len(script) == 0 {
		return nil, p.fail(StageScripting, ErrScript, fmt.Errorf("script writer returned no lines"))
	}
	p.completed(StageScripting, "script ready, %d lines", len(script))

	p.started(StageProducing, "synthesizing %d lines", len(script))
	output, err := p.producer.Produce(ctx, script)
	if err != nil {
		return nil, p.fail(StageProducing, ErrSynthesis, err)
	}
	p.completed(StageProducing, "podcast ready: %s", output.Path)

	return output, nil
}

func (p *Pipeline) started(stage Stage, format string, args ...any) {
	p.sink(models.ProgressEvent{
		Stage:   string(stage),
		Status:  models.StatusStarted,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Pipeline) completed(stage Stage, format string, args ...any) {
	p.sink(models.ProgressEvent{
		Stage:   string(stage),
		Status:  models.StatusCompleted,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Pipeline) fail(stage Stage, marker error, cause error) error {
	err := fmt.Errorf("%w: %w", marker, cause)
	p.sink(models.ProgressEvent{
		Stage:   string(stage),
		Status:  models.StatusFailed,
		Message: err.Error(),
	})
	return &Failure{Stage: stage, Err: err}
}
