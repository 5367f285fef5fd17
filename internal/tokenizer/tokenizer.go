// Package tokenizer estimates token counts for exported content.
package tokenizer

import "strings"

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// DefaultModel is the tokenizer model assumed when none is configured.
const DefaultModel = "gpt-4o"

// NewCounter returns a Counter for the requested model. The underlying
// encoding is resolved on first count so constructing a counter never
// touches the tokenizer data files.
func NewCounter(model string) Counter {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	return &openAICounter{model: strings.ToLower(trimmedModel)}
}
