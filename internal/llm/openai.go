// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/predictlab/matpredict/internal/httputil"
	"github.com/predictlab/matpredict/pkg/types"
)

// openaiAPIBase is the Chat Completions endpoint. Package-level var for
// test substitution.
var openaiAPIBase = "https://api.openai.com/v1/chat/completions"

const defaultOpenAIModel = "gpt-4o"

// OpenAIProvider calls the OpenAI Chat Completions API.
type OpenAIProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewOpenAIProvider builds a provider from the shared provider configuration.
func NewOpenAIProvider(cfg types.ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: httputil.NewClient(cfg.HTTPConfig),
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return "openai" }

// Suggest asks the model to propose candidate formulas for the goal.
func (p *OpenAIProvider) Suggest(ctx context.Context, goal string) (string, error) {
	prompt, err := renderSuggestPrompt(goal)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return p.complete(ctx, prompt)
}

// Evaluate asks the model which formulas comply with the goal.
func (p *OpenAIProvider) Evaluate(ctx context.Context, formulas []string, goal string) (string, error) {
	prompt, err := renderEvaluatePrompt(formulas, goal)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return p.complete(ctx, prompt)
}

// openaiRequest is the request body for the Chat Completions API.
type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

// openaiMessage is a single message in the conversation.
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the response body from the Chat Completions API.
type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

// openaiChoice is one completion choice in the response.
type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

// complete sends the prompt as a single user message under the shared
// system prompt and returns the first choice's content.
func (p *OpenAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	model := p.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	reqBody := openaiRequest{
		Model: model,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	var resp openaiResponse
	if err := httputil.PostJSON(ctx, client, openaiAPIBase, header, reqBody, &resp); err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
