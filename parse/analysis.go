// Package parse recovers structured pipeline data from unstructured or
// semi-structured model output. Two independent parsers live here: a
// labeled-field parser for the analysis and design stages, and a
// marker-delimited notebook parser for the generation stage. Each follows
// an ordered fallback chain and never silently returns an empty result.
package parse

import "strings"

// Complexity grades how involved a faithful toy implementation would be.
type Complexity string

const (
	ComplexitySimple   Complexity = "Simple"
	ComplexityModerate Complexity = "Moderate"
	ComplexityComplex  Complexity = "Complex"
)

// AnalysisResult is the structured outcome of the analysis stage. Every
// field is always populated; placeholder text stands in for anything the
// model output did not yield, so downstream prompt construction never
// needs nil checks.
type AnalysisResult struct {
	Intent         string
	Novelty        string
	CoreAlgorithms []string
	Complexity     Complexity
	Dependencies   []string
}

const notSpecified = "Not specified"

var analysisLabels = []string{"INTENT", "NOVELTY", "CORE_ALGORITHMS", "COMPLEXITY", "DEPENDENCIES"}

// analysisJSON is the embedded-JSON fallback shape for the analysis stage.
type analysisJSON struct {
	Intent         string   `json:"intent"`
	Novelty        string   `json:"novelty"`
	CoreAlgorithms []string `json:"core_algorithms"`
	Complexity     string   `json:"complexity"`
	Dependencies   []string `json:"dependencies"`
}

// Analysis extracts an AnalysisResult from model output. Strategy order:
// labeled fields, then an embedded JSON object when both headline fields
// are unresolved, then a minimal synthesized result from the raw text.
func Analysis(text string) AnalysisResult {
	fields := extractFields(text, analysisLabels)

	result := AnalysisResult{
		Intent:         fields["INTENT"],
		Novelty:        fields["NOVELTY"],
		CoreAlgorithms: splitList(fields["CORE_ALGORITHMS"]),
		Complexity:     normalizeComplexity(fields["COMPLEXITY"]),
		Dependencies:   splitList(fields["DEPENDENCIES"]),
	}

	if result.Intent == "" && result.Novelty == "" {
		var embedded analysisJSON
		if findJSONObject(text, &embedded) && (embedded.Intent != "" || embedded.Novelty != "") {
			result.Intent = embedded.Intent
			result.Novelty = embedded.Novelty
			if len(embedded.CoreAlgorithms) > 0 {
				result.CoreAlgorithms = embedded.CoreAlgorithms
			}
			if embedded.Complexity != "" {
				result.Complexity = normalizeComplexity(embedded.Complexity)
			}
			if len(embedded.Dependencies) > 0 {
				result.Dependencies = embedded.Dependencies
			}
		}
	}

	// Last resort: keep the pipeline able to reach the later stages even
	// with degraded analysis quality.
	if result.Intent == "" && result.Novelty == "" {
		result.Intent = truncate(text, 200)
		if result.Intent == "" {
			result.Intent = notSpecified
		}
	}

	if result.Intent == "" {
		result.Intent = notSpecified
	}
	if result.Novelty == "" {
		result.Novelty = notSpecified
	}
	if len(result.CoreAlgorithms) == 0 {
		result.CoreAlgorithms = []string{"main algorithm"}
	}
	if len(result.Dependencies) == 0 {
		result.Dependencies = []string{"numpy"}
	}
	return result
}

// normalizeComplexity maps free-form complexity text onto the closed
// grade set, defaulting to Moderate.
func normalizeComplexity(value string) Complexity {
	switch {
	case strings.EqualFold(value, "simple"):
		return ComplexitySimple
	case strings.EqualFold(value, "complex"):
		return ComplexityComplex
	default:
		return ComplexityModerate
	}
}
