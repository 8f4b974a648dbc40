// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/predictlab/matpredict/internal/httputil"
	"github.com/predictlab/matpredict/pkg/types"
)

// geminiAPIBase overrides the Gemini endpoint when non-empty. Package-level
// var for test substitution.
var geminiAPIBase = ""

const defaultGeminiModel = "gemini-1.5-flash-latest"

// geminiSuggestCount is how many formulas the suggestion prompt asks for.
// Gemini has no system-prompt channel here, so the count keeps its free-form
// answers list-shaped.
const geminiSuggestCount = 10

// GeminiProvider calls the Gemini API through the official genai client.
type GeminiProvider struct {
	cli   *genai.Client
	model string
}

// NewGeminiProvider builds a provider from the shared provider
// configuration. The context covers client construction only.
func NewGeminiProvider(ctx context.Context, cfg types.ProviderConfig) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httputil.NewClient(cfg.HTTPConfig),
	}
	if geminiAPIBase != "" {
		clientCfg.HTTPOptions.BaseURL = geminiAPIBase
	}

	cli, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{cli: cli, model: model}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return "gemini" }

// Suggest asks the model to propose candidate formulas for the goal.
func (p *GeminiProvider) Suggest(ctx context.Context, goal string) (string, error) {
	prompt, err := renderSuggestListPrompt(goal, geminiSuggestCount)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return p.generate(ctx, prompt)
}

// Evaluate asks the model which formulas comply with the goal.
func (p *GeminiProvider) Evaluate(ctx context.Context, formulas []string, goal string) (string, error) {
	prompt, err := renderEvaluatePrompt(formulas, goal)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return p.generate(ctx, prompt)
}

// generate sends one text part and returns the first candidate's text.
func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.cli.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini API returned empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
