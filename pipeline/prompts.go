package pipeline

import (
	"fmt"
	"strings"

	"github.com/kowshik24/papertocode/parse"
)

// Prompts bundles the stage system prompts and the cell-marker protocol
// instructions. They are configuration data injected into the Generator,
// not package globals, so tests can substitute fixtures.
type Prompts struct {
	AnalyzeSystem  string
	DesignSystem   string
	GenerateSystem string
	CellProtocol   string
}

// DefaultPrompts returns the production prompt set.
func DefaultPrompts() Prompts {
	return Prompts{
		AnalyzeSystem:  analyzeSystemPrompt,
		DesignSystem:   designSystemPrompt,
		GenerateSystem: generateSystemPrompt,
		CellProtocol:   cellProtocolPrompt,
	}
}

const analyzeSystemPrompt = `You are a research engineer analyzing a paper to plan a small runnable demonstration.
Read the paper text and answer with exactly these labeled fields, one per line, no other prose:

INTENT: one sentence stating what the paper is trying to achieve
NOVELTY: one sentence stating what is new compared to prior work
CORE_ALGORITHMS: comma-separated names of the algorithms that must appear in a demo
COMPLEXITY: one of Simple, Moderate, Complex
DEPENDENCIES: comma-separated Python packages a toy implementation needs`

const designSystemPrompt = `You are a research engineer designing a toy notebook implementation of a paper.
The notebook must run in under a minute on a laptop with no GPU, no downloads, and no external data.
Answer with exactly these labeled fields and nothing else:

ARCHITECTURE: a short paragraph describing the notebook's structure
SIMPLIFICATIONS: one per line, formatted as "original -> simplified (rationale)"
MOCK_COMPONENTS: one per line, formatted as "name (kind): implementation note"
EXPECTED_BEHAVIOR: what a reader should see when every cell has run
MODULE_BREAKDOWN: one per line, formatted as "section: purpose of its cells"`

const generateSystemPrompt = `You are a research engineer writing a runnable Jupyter notebook that demonstrates a paper's core idea at toy scale.
Every code cell must execute without errors using only the declared dependencies.
Use small synthetic data defined inline. Print or plot intermediate results so the reader can follow along.`

const cellProtocolPrompt = `Format your entire answer with this exact protocol and nothing else:

TITLE: short_snake_case_name_for_the_notebook
GUIDE: one or two sentences telling the reader how to use the notebook

Then emit each cell introduced by a marker line, with the cell's literal
source on the following lines until the next marker:

---CELL_MARKDOWN---
# heading or explanation text
---CELL_CODE---
code exactly as it should appear in the cell

Emit at least four cells, alternating explanation and code.`

// analysisPrompt builds the stage-1 user prompt from the paper excerpt.
func analysisPrompt(title, excerpt string) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "Paper title: %s\n\n", title)
	}
	sb.WriteString("Paper text:\n\n")
	sb.WriteString(excerpt)
	return sb.String()
}

// designPrompt builds the stage-2 user prompt from the analysis result
// and a truncated paper excerpt.
func designPrompt(analysis parse.AnalysisResult, excerpt string) string {
	var sb strings.Builder
	sb.WriteString("Analysis of the paper:\n\n")
	sb.WriteString(formatAnalysis(analysis))
	sb.WriteString("\nPaper excerpt:\n\n")
	sb.WriteString(excerpt)
	return sb.String()
}

// generatePrompt builds the stage-3 user prompt from both earlier stage
// results, the domain guidance, the largest paper excerpt, and the
// cell-marker protocol instructions.
func generatePrompt(analysis parse.AnalysisResult, design parse.DesignResult, guidance, excerpt, protocol string) string {
	var sb strings.Builder
	sb.WriteString("Analysis of the paper:\n\n")
	sb.WriteString(formatAnalysis(analysis))
	sb.WriteString("\nNotebook design:\n\n")
	sb.WriteString(formatDesign(design))
	sb.WriteString("\n")
	sb.WriteString(guidance)
	sb.WriteString("\n\nPaper excerpt:\n\n")
	sb.WriteString(excerpt)
	sb.WriteString("\n\n")
	sb.WriteString(protocol)
	return sb.String()
}

// formatAnalysis serializes an AnalysisResult back into the labeled-field
// form the later prompts consume.
func formatAnalysis(a parse.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INTENT: %s\n", a.Intent)
	fmt.Fprintf(&sb, "NOVELTY: %s\n", a.Novelty)
	fmt.Fprintf(&sb, "CORE_ALGORITHMS: %s\n", strings.Join(a.CoreAlgorithms, ", "))
	fmt.Fprintf(&sb, "COMPLEXITY: %s\n", a.Complexity)
	fmt.Fprintf(&sb, "DEPENDENCIES: %s\n", strings.Join(a.Dependencies, ", "))
	return sb.String()
}

// formatDesign serializes a DesignResult for the generation prompt.
func formatDesign(d parse.DesignResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ARCHITECTURE: %s\n", d.Architecture)
	if len(d.Simplifications) > 0 {
		sb.WriteString("SIMPLIFICATIONS:\n")
		for _, s := range d.Simplifications {
			fmt.Fprintf(&sb, "- %s -> %s (%s)\n", s.Original, s.Simplified, s.Rationale)
		}
	}
	if len(d.MockComponents) > 0 {
		sb.WriteString("MOCK_COMPONENTS:\n")
		for _, m := range d.MockComponents {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", m.Name, m.Kind, m.Note)
		}
	}
	fmt.Fprintf(&sb, "EXPECTED_BEHAVIOR: %s\n", d.ExpectedBehavior)
	if len(d.ModuleBreakdown) > 0 {
		sb.WriteString("MODULE_BREAKDOWN:\n")
		for _, b := range d.ModuleBreakdown {
			fmt.Fprintf(&sb, "- %s: %s\n", b.Section, b.Purpose)
		}
	}
	return sb.String()
}
