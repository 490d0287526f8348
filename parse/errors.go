package parse

import "fmt"

// ParseError is the base type for parse failures: response text that no
// strategy could coerce into the target structure.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string { return "could not parse response: " + e.Message }

func (e *ParseError) Unwrap() error { return e.Cause }

// InsufficientContentError indicates fewer than two usable notebook cells
// were recoverable by any strategy. A 0-1 cell notebook is not useful
// enough to present to the user.
type InsufficientContentError struct {
	ParseError
	CellCount int
}

func insufficientContent(count int) *InsufficientContentError {
	return &InsufficientContentError{
		ParseError: ParseError{
			Message: fmt.Sprintf("only %d usable notebook cell(s) were recovered, need at least 2", count),
		},
		CellCount: count,
	}
}
