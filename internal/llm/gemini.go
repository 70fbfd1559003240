package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// Model candidates in order of preference. Resolved exactly once when the
// client is constructed; requests never re-resolve.
var defaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash-exp",
	"gemini-2.0-flash",
	"gemini-pro-latest",
}

// GeminiProvider implements Provider on the Google GenAI API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider. An empty model picks
// the first entry of the default candidate list.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	resolved := resolveModel(model)
	log.Printf("llm: using gemini model %s", resolved)
	return &GeminiProvider{client: client, model: resolved}, nil
}

func resolveModel(model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return defaultModels[0]
}

// Model returns the resolved model identifier.
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		TopP:            genai.Ptr(opts.TopP),
		TopK:            genai.Ptr(opts.TopK),
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrBlocked
	}
	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return "", ErrBlocked
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", ErrBlocked
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrBlocked
	}
	return text, nil
}
