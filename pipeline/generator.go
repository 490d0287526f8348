// Package pipeline orchestrates the three-stage paper-to-notebook
// generation: Analyze produces an AnalysisResult, Design consumes it and
// produces a DesignResult, Generate consumes both and produces the final
// notebook content. Stages run strictly sequentially; each stage's prompt
// depends on the previous stage's parsed output. A failure at any stage
// aborts the whole pipeline.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kowshik24/papertocode/notebook"
	"github.com/kowshik24/papertocode/parse"
	"github.com/kowshik24/papertocode/provider"
	"github.com/kowshik24/papertocode/retry"
)

// Paper is the external collaborator's input: extracted plain text plus
// metadata. Domain comes from ClassifyDomain or from the caller.
type Paper struct {
	Title  string
	Text   string
	Domain Domain
}

// Generator runs one generation. Create one per invocation and discard it
// afterwards; it carries no state across invocations.
type Generator struct {
	cfg       provider.Config
	adapter   provider.Adapter
	prompts   Prompts
	retryOpts retry.Options
	emitter   *ProgressEmitter
	log       *slog.Logger

	runID string
	stage Stage
	used  bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithPrompts substitutes the prompt set, primarily for tests.
func WithPrompts(p Prompts) Option {
	return func(g *Generator) { g.prompts = p }
}

// WithRetryOptions overrides the retry policy wrapped around each
// provider call.
func WithRetryOptions(opts retry.Options) Option {
	return func(g *Generator) { g.retryOpts = opts }
}

// WithProgressListener registers a progress listener.
func WithProgressListener(listener func(Progress)) Option {
	return func(g *Generator) { g.emitter.On(listener) }
}

// WithLogger sets the logger. The default logger is slog.Default scoped
// to the pipeline component.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithAdapter injects a prebuilt adapter, bypassing provider.New. Used by
// tests and by callers that construct adapters themselves.
func WithAdapter(a provider.Adapter) Option {
	return func(g *Generator) { g.adapter = a }
}

// NewGenerator builds a Generator for one generation with the given
// provider configuration.
func NewGenerator(cfg provider.Config, opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg:       cfg,
		prompts:   DefaultPrompts(),
		retryOpts: retry.Defaults(),
		emitter:   NewProgressEmitter(),
		log:       slog.Default().With(slog.String("component", "pipeline")),
		runID:     uuid.NewString(),
		stage:     StagePreparing,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.adapter == nil {
		adapter, err := provider.New(cfg)
		if err != nil {
			return nil, err
		}
		g.adapter = adapter
	}
	return g, nil
}

// RunID identifies this generation in progress events and logs.
func (g *Generator) RunID() string { return g.runID }

// Stage reports the pipeline's current state.
func (g *Generator) Stage() Stage { return g.stage }

// ErrGeneratorReused is returned when Generate is called twice on the
// same Generator.
var ErrGeneratorReused = errors.New("pipeline: a Generator runs exactly one generation; create a new one")

// stepNames fixes the progress event order: 0,1,2,3.
var stepNames = []Stage{StagePreparing, StageAnalyzing, StageDesigning, StageGenerating}

// Generate runs the full pipeline and returns the generated notebook
// content. Errors from any stage propagate unchanged; no partial state is
// retained for resumption.
func (g *Generator) Generate(ctx context.Context, paper Paper) (*notebook.GeneratedContent, error) {
	if g.used {
		return nil, ErrGeneratorReused
	}
	g.used = true

	if paper.Domain == "" {
		paper.Domain = ClassifyDomain(paper.Text)
	}
	guidance := paper.Domain.Guidance()

	g.transition(StagePreparing, "Reading paper text")
	g.log.Info("generation started",
		slog.String("run_id", g.runID),
		slog.String("provider", g.cfg.Provider),
		slog.String("model", g.cfg.Model),
		slog.String("domain", string(paper.Domain)),
	)

	// Stage 1: Analyze.
	g.transition(StageAnalyzing, "Analyzing the paper's method")
	analysisText, err := g.callModel(ctx,
		g.prompts.AnalyzeSystem,
		analysisPrompt(paper.Title, g.excerpt(StageAnalyzing, paper.Text)),
	)
	if err != nil {
		return nil, g.fail(err)
	}
	analysis := parse.Analysis(analysisText)

	// Stage 2: Design.
	g.transition(StageDesigning, "Designing the notebook structure")
	designText, err := g.callModel(ctx,
		g.prompts.DesignSystem+"\n\n"+guidance,
		designPrompt(analysis, g.excerpt(StageDesigning, paper.Text)),
	)
	if err != nil {
		return nil, g.fail(err)
	}
	design := parse.Design(designText)

	// Stage 3: Generate.
	g.transition(StageGenerating, "Generating notebook cells")
	generateText, err := g.callModel(ctx,
		g.prompts.GenerateSystem,
		generatePrompt(analysis, design, guidance, g.excerpt(StageGenerating, paper.Text), g.prompts.CellProtocol),
	)
	if err != nil {
		return nil, g.fail(err)
	}
	content, err := parse.Notebook(generateText)
	if err != nil {
		return nil, g.fail(err)
	}

	g.stage = StageComplete
	g.log.Info("generation complete",
		slog.String("run_id", g.runID),
		slog.Int("cells", len(content.Cells)),
		slog.String("filename", content.SuggestedFilename),
	)
	return &content, nil
}

// callModel issues one provider call wrapped in the retry policy. The
// retry observer only logs; it never alters control flow.
func (g *Generator) callModel(ctx context.Context, system, user string) (string, error) {
	opts := g.retryOpts
	userOnRetry := opts.OnRetry
	opts.OnRetry = func(attempt int, err error, delay time.Duration) {
		g.log.Debug("retrying provider call",
			slog.String("run_id", g.runID),
			slog.String("stage", string(g.stage)),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if userOnRetry != nil {
			userOnRetry(attempt, err, delay)
		}
	}

	return retry.Do(ctx, func(ctx context.Context) (string, error) {
		return g.adapter.Complete(ctx, g.cfg.Request(system, user))
	}, opts)
}

// transition advances the state machine and emits the stage's progress
// event. Transitions are forward-only and each stage emits exactly once.
func (g *Generator) transition(stage Stage, message string) {
	g.stage = stage
	for i, name := range stepNames {
		if name == stage {
			g.emitter.Emit(Progress{
				RunID:      g.runID,
				Step:       i,
				TotalSteps: len(stepNames),
				Name:       string(stage),
				Message:    message,
				Timestamp:  time.Now(),
			})
			return
		}
	}
}

// fail marks the pipeline errored and passes the original error through
// unchanged so callers can branch on its kind.
func (g *Generator) fail(err error) error {
	g.stage = StageErrored
	g.log.Error("generation failed",
		slog.String("run_id", g.runID),
		slog.String("error", err.Error()),
	)
	return err
}

// excerpt truncates the paper text to the stage's character budget.
func (g *Generator) excerpt(stage Stage, text string) string {
	return truncateText(text, budgetFor(stage, g.cfg.Model))
}
