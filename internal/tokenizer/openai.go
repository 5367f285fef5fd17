package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncodingName = "cl100k_base"

type openAICounter struct {
	model string

	resolveOnce sync.Once
	encoding    *tiktoken.Tiktoken
	resolveErr  error
}

func (counter *openAICounter) Name() string {
	return counter.model
}

func (counter *openAICounter) CountString(input string) (int, error) {
	counter.resolveOnce.Do(counter.resolveEncoding)
	if counter.resolveErr != nil {
		return 0, counter.resolveErr
	}
	tokenIdentifiers := counter.encoding.Encode(input, nil, nil)
	return len(tokenIdentifiers), nil
}

// resolveEncoding looks up the model encoding, falling back to cl100k_base
// for models tiktoken does not know.
func (counter *openAICounter) resolveEncoding() {
	encoding, modelErr := tiktoken.EncodingForModel(counter.model)
	if modelErr == nil && encoding != nil {
		counter.encoding = encoding
		return
	}
	fallbackEncoding, fallbackErr := tiktoken.GetEncoding(fallbackEncodingName)
	if fallbackErr != nil {
		counter.resolveErr = fmt.Errorf("initialize tokenizer for model %s: %w", counter.model, fallbackErr)
		return
	}
	counter.encoding = fallbackEncoding
}

var _ Counter = (*openAICounter)(nil)
