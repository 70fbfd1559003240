package llm

import (
	"context"
	"errors"
)

// Options mirror the generation knobs the interview prompts tune per call.
type Options struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// ErrBlocked reports that the model returned no usable text: either no
// candidates at all or a candidate terminated by a content filter. Callers
// are expected to synthesize a continuation rather than surface this.
var ErrBlocked = errors.New("llm: response blocked or empty")

// Provider is the single operation the dialogue layer needs from a model.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}
