package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetFor(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		model string
		want  int
	}{
		{"default analyzing", StageAnalyzing, "gpt-4o", 4000},
		{"default designing", StageDesigning, "claude-sonnet-4", 8000},
		{"default generating", StageGenerating, "gemini-2.0-pro", 12000},
		{"compact mini", StageAnalyzing, "gpt-4o-mini", 2000},
		{"compact 8b", StageGenerating, "llama-3.1-8b-instant", 6000},
		{"compact phi", StageDesigning, "Phi-3", 4000},
		{"compact gpt-3.5", StageAnalyzing, "gpt-3.5-turbo", 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, budgetFor(tt.stage, tt.model))
		})
	}
}

func TestBudgetsGrowThroughStages(t *testing.T) {
	for _, model := range []string{"gpt-4o", "gpt-4o-mini"} {
		analyzing := budgetFor(StageAnalyzing, model)
		designing := budgetFor(StageDesigning, model)
		generating := budgetFor(StageGenerating, model)

		assert.Less(t, analyzing, designing, "model %s", model)
		assert.Less(t, designing, generating, "model %s", model)
	}
}

func TestTruncateText(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "abc", truncateText("abc", 100))
	})

	t.Run("zero budget unchanged", func(t *testing.T) {
		assert.Equal(t, "abc", truncateText("abc", 0))
	})

	t.Run("hard cut without late newline", func(t *testing.T) {
		text := strings.Repeat("a", 150)
		assert.Equal(t, strings.Repeat("a", 100), truncateText(text, 100))
	})

	t.Run("cuts at newline in final tenth", func(t *testing.T) {
		text := strings.Repeat("a", 95) + "\n" + strings.Repeat("b", 60)
		got := truncateText(text, 100)
		assert.Equal(t, strings.Repeat("a", 95), got)
	})

	t.Run("ignores early newline", func(t *testing.T) {
		text := strings.Repeat("a", 40) + "\n" + strings.Repeat("b", 110)
		got := truncateText(text, 100)
		assert.Len(t, got, 100)
	})
}
