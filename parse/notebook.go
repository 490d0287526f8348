package parse

import (
	"regexp"
	"strings"

	"github.com/kowshik24/papertocode/notebook"
)

// DefaultFilename is used when the model output carries no usable title.
const DefaultFilename = "generated_notebook.ipynb"

// DefaultGuide is used when the model output carries no usable guide.
const DefaultGuide = "Run the cells in order from top to bottom."

var (
	cellMarkerRe  = regexp.MustCompile(`-{3,}\s*CELL_(CODE|MARKDOWN)\s*-{3,}`)
	titleRe       = regexp.MustCompile(`(?m)^[ \t>#*-]*TITLE\s*:[*]*[ \t]*(.+)$`)
	guideRe       = regexp.MustCompile(`(?m)^[ \t>#*-]*GUIDE\s*:[*]*[ \t]*(.+)$`)
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*[ \t]*\n?(.*?)```")
	residueLineRe = regexp.MustCompile(`(?m)^[ \t>#*-]*(TITLE|GUIDE)\s*:.*$`)
)

// Notebook recovers notebook cells from model output. Strategy order:
// the explicit cell-marker protocol, then fenced code blocks, then
// wrapping the raw text. Fewer than two recoverable cells is an
// InsufficientContentError; the model's work is otherwise never
// discarded.
func Notebook(text string) (notebook.GeneratedContent, error) {
	content := notebook.GeneratedContent{
		Guide:             extractGuide(text),
		SuggestedFilename: extractFilename(text),
	}

	cells := splitMarkedCells(text)
	if len(cells) == 0 {
		cells = cellsFromFences(text)
	}
	if len(cells) == 0 {
		cells = wrapRawText(text)
	}

	if len(cells) < 2 {
		return notebook.GeneratedContent{}, insufficientContent(len(cells))
	}

	content.Cells = cells
	return content, nil
}

// splitMarkedCells parses the explicit cell-marker protocol: repeated
// ---CELL_CODE--- / ---CELL_MARKDOWN--- markers, each followed by that
// cell's literal source until the next marker.
func splitMarkedCells(text string) []notebook.Cell {
	matches := cellMarkerRe.FindAllStringSubmatchIndex(text, -1)
	var cells []notebook.Cell
	for i, m := range matches {
		kind := notebook.KindCode
		if text[m[2]:m[3]] == "MARKDOWN" {
			kind = notebook.KindMarkdown
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		source := strings.TrimSpace(text[m[1]:end])
		if source == "" {
			continue
		}
		cells = append(cells, notebook.Cell{Kind: kind, Source: source})
	}
	return cells
}

// cellsFromFences recovers cells from fenced code blocks when the model
// ignored the marker protocol. Text before each fence becomes a markdown
// cell after stripping residual title/guide/marker syntax; each fenced
// block becomes a code cell.
func cellsFromFences(text string) []notebook.Cell {
	matches := fencedBlockRe.FindAllStringSubmatchIndex(text, -1)
	var cells []notebook.Cell
	prev := 0
	for _, m := range matches {
		if lead := stripResidue(text[prev:m[0]]); lead != "" {
			cells = append(cells, notebook.Cell{Kind: notebook.KindMarkdown, Source: lead})
		}
		code := strings.Trim(text[m[2]:m[3]], "\n")
		if strings.TrimSpace(code) != "" {
			cells = append(cells, notebook.Cell{Kind: notebook.KindCode, Source: code})
		}
		prev = m[1]
	}
	return cells
}

// wrapRawText degrades gracefully: the whole text as one markdown cell
// followed by one code cell carrying the raw text.
func wrapRawText(text string) []notebook.Cell {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return []notebook.Cell{
		{Kind: notebook.KindMarkdown, Source: trimmed},
		{Kind: notebook.KindCode, Source: trimmed},
	}
}

// stripResidue removes title/guide lines and cell markers from prose that
// is about to become a markdown cell.
func stripResidue(s string) string {
	s = cellMarkerRe.ReplaceAllString(s, "")
	s = residueLineRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractFilename pulls the TITLE: line and turns it into a safe .ipynb
// filename. Extraction is best-effort and independent of cell parsing.
func extractFilename(text string) string {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return DefaultFilename
	}
	name := sanitizeFilename(m[1])
	if name == "" {
		return DefaultFilename
	}
	return name + ".ipynb"
}

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeFilename(title string) string {
	title = strings.TrimSpace(strings.Trim(title, "*`\"' \t"))
	title = strings.TrimSuffix(title, ".ipynb")
	title = unsafeFilenameRe.ReplaceAllString(title, "_")
	title = strings.Trim(title, "_")
	if len(title) > 60 {
		title = title[:60]
	}
	return strings.ToLower(title)
}

// extractGuide pulls the GUIDE: line, stopping at the first cell marker.
func extractGuide(text string) string {
	m := guideRe.FindStringSubmatch(text)
	if m == nil {
		return DefaultGuide
	}
	guide := m[1]
	if loc := cellMarkerRe.FindStringIndex(guide); loc != nil {
		guide = guide[:loc[0]]
	}
	guide = strings.Trim(guide, " \t*")
	if guide == "" {
		return DefaultGuide
	}
	return guide
}
