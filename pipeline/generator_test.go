package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kowshik24/papertocode/parse"
	"github.com/kowshik24/papertocode/provider"
	"github.com/kowshik24/papertocode/retry"
)

// scriptedAdapter plays back one response per provider call and records
// the requests it saw.
type scriptedAdapter struct {
	mu        sync.Mutex
	requests  []provider.Request
	responses []scriptedResponse
}

type scriptedResponse struct {
	text string
	err  error
}

func (s *scriptedAdapter) Name() string { return "scripted" }

func (s *scriptedAdapter) Complete(_ context.Context, req provider.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return "", errors.New("script exhausted")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next.text, next.err
}

func (s *scriptedAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type nopSleeper struct{}

func (nopSleeper) Sleep(time.Duration) {}

const analysisResponse = `INTENT: Reproduce the sampler on toy data.
NOVELTY: A simpler proposal distribution.
CORE_ALGORITHMS:
- langevin dynamics
COMPLEXITY: Simple
DEPENDENCIES: numpy, matplotlib`

const designResponse = `ARCHITECTURE: One notebook, three sections.
SIMPLIFICATIONS:
- full dataset -> 100 synthetic points (runtime)
EXPECTED_BEHAVIOR: Prints decreasing loss.
MODULE_BREAKDOWN:
- Setup: imports
- Demo: run the sampler`

const generateResponse = `TITLE: Toy Sampler Demo
GUIDE: Run all cells in order.
---CELL_MARKDOWN---
# Toy Sampler
---CELL_CODE---
print(1)`

func happyScript() *scriptedAdapter {
	return &scriptedAdapter{responses: []scriptedResponse{
		{text: analysisResponse},
		{text: designResponse},
		{text: generateResponse},
	}}
}

func testConfig() provider.Config {
	return provider.Config{Provider: provider.ProviderOpenAI, Model: "gpt-4o", APIKey: "test-key"}
}

func TestGenerateEndToEnd(t *testing.T) {
	adapter := happyScript()
	var events []Progress
	g, err := NewGenerator(testConfig(),
		WithAdapter(adapter),
		WithProgressListener(func(p Progress) { events = append(events, p) }),
	)
	require.NoError(t, err)

	content, err := g.Generate(context.Background(), Paper{Title: "Toy Sampler", Text: "gradient loss training"})
	require.NoError(t, err)

	assert.Equal(t, StageComplete, g.Stage())
	assert.Equal(t, "toy_sampler_demo.ipynb", content.SuggestedFilename)
	assert.Equal(t, "Run all cells in order.", content.Guide)
	require.Len(t, content.Cells, 2)
	assert.Equal(t, "print(1)", content.Cells[1].Source)

	require.Len(t, events, 4)
	for i, p := range events {
		assert.Equal(t, i, p.Step)
		assert.Equal(t, 4, p.TotalSteps)
		assert.Equal(t, g.RunID(), p.RunID)
		assert.False(t, p.Timestamp.IsZero())
	}
	assert.Equal(t, string(StagePreparing), events[0].Name)
	assert.Equal(t, string(StageAnalyzing), events[1].Name)
	assert.Equal(t, string(StageDesigning), events[2].Name)
	assert.Equal(t, string(StageGenerating), events[3].Name)

	assert.Equal(t, 3, adapter.callCount())
}

func TestGenerateStageChaining(t *testing.T) {
	adapter := happyScript()
	g, err := NewGenerator(testConfig(), WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Chained", Text: "gradient descent on the loss"})
	require.NoError(t, err)

	require.Equal(t, 3, adapter.callCount())

	// The design prompt carries the parsed analysis; the generation prompt
	// carries the parsed design and the domain guidance.
	assert.Contains(t, adapter.requests[1].User, "Reproduce the sampler on toy data.")
	assert.Contains(t, adapter.requests[1].System, DomainMLTraining.Guidance())
	assert.Contains(t, adapter.requests[2].User, "One notebook, three sections.")
}

func TestGenerateClassifiesDomainWhenUnset(t *testing.T) {
	adapter := happyScript()
	g, err := NewGenerator(testConfig(), WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{
		Title: "Pathfinding",
		Text:  "shortest path over the graph adjacency structure by vertex",
	})
	require.NoError(t, err)

	assert.Contains(t, adapter.requests[1].System, DomainGraphAlgorithms.Guidance())
}

func TestGenerateCallerDomainWins(t *testing.T) {
	adapter := happyScript()
	g, err := NewGenerator(testConfig(), WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{
		Title:  "Pathfinding",
		Text:   "shortest path over the graph adjacency structure",
		Domain: DomainSimulation,
	})
	require.NoError(t, err)

	assert.Contains(t, adapter.requests[1].System, DomainSimulation.Guidance())
}

func TestGenerateStageErrorAbortsPipeline(t *testing.T) {
	boom := errors.New("malformed request body")
	adapter := &scriptedAdapter{responses: []scriptedResponse{
		{text: analysisResponse},
		{err: boom},
	}}
	var events []Progress
	g, err := NewGenerator(testConfig(),
		WithAdapter(adapter),
		WithProgressListener(func(p Progress) { events = append(events, p) }),
	)
	require.NoError(t, err)

	content, err := g.Generate(context.Background(), Paper{Title: "Failing", Text: "text"})

	assert.Nil(t, content)
	// The stage error comes back unchanged.
	assert.Equal(t, boom, err)
	assert.Equal(t, StageErrored, g.Stage())
	assert.Equal(t, 2, adapter.callCount())
	require.Len(t, events, 3)
	assert.Equal(t, 2, events[2].Step)
}

func TestGenerateInsufficientOutput(t *testing.T) {
	adapter := &scriptedAdapter{responses: []scriptedResponse{
		{text: analysisResponse},
		{text: designResponse},
		{text: "   \n"},
	}}
	g, err := NewGenerator(testConfig(), WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Empty", Text: "text"})

	var insufficient *parse.InsufficientContentError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, StageErrored, g.Stage())
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	adapter := &scriptedAdapter{responses: []scriptedResponse{
		{err: &provider.ServerError{APIError: provider.APIError{Provider: "openai", StatusCode: 503, Message: "overloaded"}}},
		{text: analysisResponse},
		{text: designResponse},
		{text: generateResponse},
	}}
	var retries []int
	g, err := NewGenerator(testConfig(),
		WithAdapter(adapter),
		WithRetryOptions(retry.Options{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     time.Millisecond,
			Multiplier:   1,
			OnRetry:      func(attempt int, _ error, _ time.Duration) { retries = append(retries, attempt) },
			Sleeper:      nopSleeper{},
		}),
	)
	require.NoError(t, err)

	content, err := g.Generate(context.Background(), Paper{Title: "Retry", Text: "text"})
	require.NoError(t, err)

	assert.Equal(t, StageComplete, g.Stage())
	require.Len(t, content.Cells, 2)
	assert.Equal(t, 4, adapter.callCount())
	// The caller's observer still fires under the wrapped logging observer.
	assert.Equal(t, []int{1}, retries)
}

func TestGeneratorRunsExactlyOnce(t *testing.T) {
	adapter := happyScript()
	g, err := NewGenerator(testConfig(), WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Once", Text: "text"})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Twice", Text: "text"})
	assert.ErrorIs(t, err, ErrGeneratorReused)
	assert.Equal(t, 3, adapter.callCount())
}

func TestGenerateRejectsReuseAfterFailure(t *testing.T) {
	adapter := &scriptedAdapter{responses: []scriptedResponse{
		{err: errors.New("bad request")},
	}}
	g, err := NewGenerator(testConfig(), WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Fail", Text: "text"})
	require.Error(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Again", Text: "text"})
	assert.ErrorIs(t, err, ErrGeneratorReused)
}

func TestGenerateSendsModelParameters(t *testing.T) {
	adapter := happyScript()
	cfg := testConfig()
	cfg.MaxTokens = 2048
	cfg.Temperature = 0.2
	g, err := NewGenerator(cfg, WithAdapter(adapter))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Paper{Title: "Params", Text: "text"})
	require.NoError(t, err)

	for _, req := range adapter.requests {
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Equal(t, 2048, req.MaxTokens)
		assert.InDelta(t, 0.2, req.Temperature, 1e-9)
		assert.NotEmpty(t, req.User)
	}
}

func TestNewGeneratorValidatesConfig(t *testing.T) {
	_, err := NewGenerator(provider.Config{Provider: "nope", Model: "m"})

	var cfgErr *provider.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
