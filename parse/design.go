package parse

import "regexp"

// Simplification records one deliberate reduction from the paper's full
// method to its toy counterpart.
type Simplification struct {
	Original   string
	Simplified string
	Rationale  string
}

// MockComponent records a component that will be stubbed rather than
// implemented faithfully.
type MockComponent struct {
	Name string
	Kind string
	Note string
}

// ModuleSection maps one design section to the purpose of the notebook
// cells that will realize it.
type ModuleSection struct {
	Section string
	Purpose string
}

// DesignResult is the structured outcome of the design stage. Like
// AnalysisResult, every field is always populated.
type DesignResult struct {
	Architecture     string
	Simplifications  []Simplification
	MockComponents   []MockComponent
	ExpectedBehavior string
	ModuleBreakdown  []ModuleSection
}

var designLabels = []string{"ARCHITECTURE", "SIMPLIFICATIONS", "MOCK_COMPONENTS", "EXPECTED_BEHAVIOR", "MODULE_BREAKDOWN"}

// designJSON is the embedded-JSON fallback shape for the design stage.
type designJSON struct {
	Architecture    string `json:"architecture"`
	Simplifications []struct {
		Original   string `json:"original"`
		Simplified string `json:"simplified"`
		Rationale  string `json:"rationale"`
	} `json:"simplifications"`
	MockComponents []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		Note string `json:"implementation"`
	} `json:"mock_components"`
	ExpectedBehavior string `json:"expected_behavior"`
	ModuleBreakdown  []struct {
		Section string `json:"section"`
		Purpose string `json:"purpose"`
	} `json:"module_breakdown"`
}

// Design extracts a DesignResult from model output using the same
// fallback chain as Analysis: labeled fields, embedded JSON, synthesis.
func Design(text string) DesignResult {
	fields := extractFields(text, designLabels)

	result := DesignResult{
		Architecture:     fields["ARCHITECTURE"],
		Simplifications:  parseSimplifications(splitLines(fields["SIMPLIFICATIONS"])),
		MockComponents:   parseMockComponents(splitLines(fields["MOCK_COMPONENTS"])),
		ExpectedBehavior: fields["EXPECTED_BEHAVIOR"],
		ModuleBreakdown:  parseModuleBreakdown(splitLines(fields["MODULE_BREAKDOWN"])),
	}

	if result.Architecture == "" && result.ExpectedBehavior == "" {
		var embedded designJSON
		if findJSONObject(text, &embedded) && (embedded.Architecture != "" || embedded.ExpectedBehavior != "") {
			result.Architecture = embedded.Architecture
			result.ExpectedBehavior = embedded.ExpectedBehavior
			for _, s := range embedded.Simplifications {
				result.Simplifications = append(result.Simplifications, Simplification(s))
			}
			for _, m := range embedded.MockComponents {
				result.MockComponents = append(result.MockComponents, MockComponent(m))
			}
			for _, b := range embedded.ModuleBreakdown {
				result.ModuleBreakdown = append(result.ModuleBreakdown, ModuleSection(b))
			}
		}
	}

	if result.Architecture == "" && result.ExpectedBehavior == "" {
		result.Architecture = truncate(text, 200)
	}

	if result.Architecture == "" {
		result.Architecture = notSpecified
	}
	if result.ExpectedBehavior == "" {
		result.ExpectedBehavior = "Runs top to bottom and prints intermediate results."
	}
	if len(result.ModuleBreakdown) == 0 {
		result.ModuleBreakdown = []ModuleSection{
			{Section: "Setup", Purpose: "imports and configuration"},
			{Section: "Implementation", Purpose: "core algorithm"},
			{Section: "Demo", Purpose: "run on toy data"},
		}
	}
	return result
}

// simplificationRe matches "original -> simplified (rationale)" items.
var simplificationRe = regexp.MustCompile(`^(.+?)\s*(?:->|→|=>)\s*([^(]+?)\s*(?:\((.*)\))?\s*$`)

func parseSimplifications(items []string) []Simplification {
	var out []Simplification
	for _, item := range items {
		if m := simplificationRe.FindStringSubmatch(item); m != nil {
			s := Simplification{Original: m[1], Simplified: m[2], Rationale: m[3]}
			if s.Rationale == "" {
				s.Rationale = notSpecified
			}
			out = append(out, s)
			continue
		}
		out = append(out, Simplification{Original: item, Simplified: item, Rationale: notSpecified})
	}
	return out
}

// mockComponentRe matches "name (kind): implementation note" items.
var mockComponentRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*:?\s*(.*)$`)

func parseMockComponents(items []string) []MockComponent {
	var out []MockComponent
	for _, item := range items {
		if m := mockComponentRe.FindStringSubmatch(item); m != nil {
			c := MockComponent{Name: m[1], Kind: m[2], Note: m[3]}
			if c.Note == "" {
				c.Note = notSpecified
			}
			out = append(out, c)
			continue
		}
		out = append(out, MockComponent{Name: item, Kind: "component", Note: notSpecified})
	}
	return out
}

// moduleSectionRe matches "section: purpose" and "section - purpose" items.
var moduleSectionRe = regexp.MustCompile(`^(.+?)\s*[:\x{2013}-]\s+(.+)$`)

func parseModuleBreakdown(items []string) []ModuleSection {
	var out []ModuleSection
	for _, item := range items {
		if m := moduleSectionRe.FindStringSubmatch(item); m != nil {
			out = append(out, ModuleSection{Section: m[1], Purpose: m[2]})
			continue
		}
		out = append(out, ModuleSection{Section: item, Purpose: notSpecified})
	}
	return out
}
