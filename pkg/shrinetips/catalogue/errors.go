package catalogue

import "fmt"

// CatalogueError represents a shape error in the knowledge base as a whole
// (not an array, empty payload). A CatalogueError aborts a build; the
// previously published catalogue stays in place.
type CatalogueError struct {
	Message string
	Cause   error
}

func (e *CatalogueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid knowledge base: %s: %v", e.Message, e.Cause)
	}
	return "invalid knowledge base: " + e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *CatalogueError) Unwrap() error {
	return e.Cause
}

// PatternError represents an error specific to a single pattern entry
// (invalid syntax, wrong shape). Builds skip the entry and keep going.
type PatternError struct {
	Effect   int    // index of the effect definition in the knowledge base, -1 if unknown
	Entry    int    // index of the pattern inside the effect definition, -1 if unknown
	Template string // template as written in the knowledge base
	Message  string
	Cause    error // underlying error (e.g., regex compile error)
}

func (e *PatternError) Error() string {
	if e.Effect >= 0 {
		return fmt.Sprintf("effect[%d] pattern[%d] %q: %s", e.Effect, e.Entry, e.Template, e.Message)
	}
	return fmt.Sprintf("pattern %q: %s", e.Template, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}
