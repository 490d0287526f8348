package pipeline

import "strings"

// Stage names the pipeline states. Transitions are strictly sequential
// and forward-only; Errored is reachable from any non-terminal state.
type Stage string

const (
	StagePreparing  Stage = "preparing"
	StageAnalyzing  Stage = "analyzing"
	StageDesigning  Stage = "designing"
	StageGenerating Stage = "generating"
	StageComplete   Stage = "complete"
	StageErrored    Stage = "errored"
)

// Paper text is truncated to a per-stage character budget before it is
// embedded in a prompt. The budgets grow through the pipeline: analysis
// needs only enough text to identify the method, design adds structure,
// generation benefits from the largest excerpt the model can afford.
// Compact-context model families get half budgets.
var defaultBudgets = map[Stage]int{
	StageAnalyzing:  4000,
	StageDesigning:  8000,
	StageGenerating: 12000,
}

var compactBudgets = map[Stage]int{
	StageAnalyzing:  2000,
	StageDesigning:  4000,
	StageGenerating: 6000,
}

// compactModelMarkers identify model families with small context windows.
var compactModelMarkers = []string{
	"gpt-3.5", "mini", "flash-lite", "7b", "8b", "tiny", "phi-",
}

// budgetFor resolves the excerpt budget for a stage and model.
func budgetFor(stage Stage, model string) int {
	budgets := defaultBudgets
	lower := strings.ToLower(model)
	for _, marker := range compactModelMarkers {
		if strings.Contains(lower, marker) {
			budgets = compactBudgets
			break
		}
	}
	return budgets[stage]
}

// truncateText caps text at n characters, cutting at the last line break
// inside the final 10% of the budget when one exists so the excerpt does
// not end mid-sentence.
func truncateText(text string, n int) string {
	if n <= 0 || len(text) <= n {
		return text
	}
	cut := text[:n]
	if idx := strings.LastIndexByte(cut, '\n'); idx > n-n/10 {
		cut = cut[:idx]
	}
	return cut
}
