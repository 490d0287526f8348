// Package notebook defines the generated-notebook data model and its
// serialization to the Jupyter nbformat 4 interchange structure.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CellKind distinguishes executable code cells from markdown cells.
type CellKind string

const (
	KindCode     CellKind = "code"
	KindMarkdown CellKind = "markdown"
)

// Cell is one unit of notebook content. Cell order is execution order.
type Cell struct {
	Kind   CellKind
	Source string
}

// GeneratedContent is the terminal artifact of the generation pipeline.
// It is immutable once produced.
type GeneratedContent struct {
	Guide             string
	SuggestedFilename string
	Cells             []Cell
}

// DocumentCell is the nbformat 4 wire shape of a cell.
type DocumentCell struct {
	CellType       string         `json:"cell_type"`
	Metadata       map[string]any `json:"metadata"`
	Source         []string       `json:"source"`
	Outputs        []any          `json:"outputs"`
	ExecutionCount *int           `json:"execution_count"`
}

// MarshalJSON emits markdown cells without the code-only outputs and
// execution_count fields.
func (c DocumentCell) MarshalJSON() ([]byte, error) {
	if c.CellType != "code" {
		return json.Marshal(struct {
			CellType string         `json:"cell_type"`
			Metadata map[string]any `json:"metadata"`
			Source   []string       `json:"source"`
		}{c.CellType, c.Metadata, c.Source})
	}
	type alias DocumentCell
	return json.Marshal(alias(c))
}

// Document is the nbformat 4 notebook structure consumers expect.
type Document struct {
	Cells         []DocumentCell `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Notebook converts the generated content into an nbformat 4 document:
// every source line terminated with a newline, code cells with empty
// outputs and a null execution count, fixed python3 kernel metadata.
func (gc GeneratedContent) Notebook() Document {
	cells := make([]DocumentCell, 0, len(gc.Cells))
	for _, cell := range gc.Cells {
		raw := DocumentCell{
			CellType: string(cell.Kind),
			Metadata: map[string]any{},
			Source:   sourceLines(cell.Source),
		}
		if cell.Kind == KindCode {
			raw.Outputs = []any{}
			raw.ExecutionCount = nil
		}
		cells = append(cells, raw)
	}

	return Document{
		Cells: cells,
		Metadata: map[string]any{
			"kernelspec": map[string]any{
				"display_name": "Python 3",
				"language":     "python",
				"name":         "python3",
			},
			"language_info": map[string]any{
				"name":    "python",
				"version": "3.10.0",
			},
		},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

// sourceLines splits cell source into the nbformat source array, each line
// carrying its trailing newline.
func sourceLines(source string) []string {
	source = strings.TrimRight(source, "\n")
	if source == "" {
		return []string{}
	}
	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

// WriteFile serializes the notebook document to path with two-space
// indentation.
func (gc GeneratedContent) WriteFile(path string) error {
	data, err := json.MarshalIndent(gc.Notebook(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notebook: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing notebook: %w", err)
	}
	return nil
}
