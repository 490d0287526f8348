package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignLabeledFields(t *testing.T) {
	text := `ARCHITECTURE: Single notebook, one class per algorithm, toy data built inline.
SIMPLIFICATIONS:
- ImageNet training -> 100 synthetic points (keeps runtime under a minute)
- Distributed SGD -> single process loop (no cluster available)
MOCK_COMPONENTS:
- DataLoader (class): yields numpy batches from an inline array
EXPECTED_BEHAVIOR: Loss decreases over 20 epochs and the final plot shows convergence.
MODULE_BREAKDOWN:
- Setup: imports and synthetic data
- Training: the core loop
- Evaluation: plots and printed metrics`

	result := Design(text)

	assert.Equal(t, "Single notebook, one class per algorithm, toy data built inline.", result.Architecture)
	assert.Equal(t, "Loss decreases over 20 epochs and the final plot shows convergence.", result.ExpectedBehavior)

	require.Len(t, result.Simplifications, 2)
	assert.Equal(t, "ImageNet training", result.Simplifications[0].Original)
	assert.Equal(t, "100 synthetic points", result.Simplifications[0].Simplified)
	assert.Equal(t, "keeps runtime under a minute", result.Simplifications[0].Rationale)

	require.Len(t, result.MockComponents, 1)
	assert.Equal(t, "DataLoader", result.MockComponents[0].Name)
	assert.Equal(t, "class", result.MockComponents[0].Kind)
	assert.Equal(t, "yields numpy batches from an inline array", result.MockComponents[0].Note)

	require.Len(t, result.ModuleBreakdown, 3)
	assert.Equal(t, "Setup", result.ModuleBreakdown[0].Section)
	assert.Equal(t, "imports and synthetic data", result.ModuleBreakdown[0].Purpose)
}

func TestDesignDegradedItemsKeepRawText(t *testing.T) {
	text := `ARCHITECTURE: Flat script.
SIMPLIFICATIONS:
- just use less data
MOCK_COMPONENTS:
- the optimizer
EXPECTED_BEHAVIOR: It runs.`

	result := Design(text)

	require.Len(t, result.Simplifications, 1)
	assert.Equal(t, "just use less data", result.Simplifications[0].Original)
	assert.Equal(t, notSpecified, result.Simplifications[0].Rationale)

	require.Len(t, result.MockComponents, 1)
	assert.Equal(t, "the optimizer", result.MockComponents[0].Name)
	assert.Equal(t, "component", result.MockComponents[0].Kind)
}

func TestDesignEmbeddedJSONFallback(t *testing.T) {
	text := `{"architecture": "Three sections.", "expected_behavior": "Prints accuracy.",
	  "module_breakdown": [{"section": "Demo", "purpose": "end-to-end run"}]}`

	result := Design(text)

	assert.Equal(t, "Three sections.", result.Architecture)
	assert.Equal(t, "Prints accuracy.", result.ExpectedBehavior)
	require.Len(t, result.ModuleBreakdown, 1)
	assert.Equal(t, "Demo", result.ModuleBreakdown[0].Section)
}

func TestDesignSynthesizesFromRawText(t *testing.T) {
	text := "No labels here, just a description of a two-part notebook."

	result := Design(text)

	assert.Equal(t, text, result.Architecture)
	assert.NotEmpty(t, result.ExpectedBehavior)
	// The default breakdown keeps stage 3 prompt construction nil-check free.
	assert.NotEmpty(t, result.ModuleBreakdown)
}
