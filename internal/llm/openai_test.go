// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// --- Request construction ---

func TestOpenAISuggestRequest(t *testing.T) {
	var captured openaiRequest
	var capturedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"['TiO2', 'ZnO']"}}]}`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	p := &OpenAIProvider{APIKey: "sk-test", Model: "gpt-4o", Client: ts.Client()}
	got, err := p.Suggest(context.Background(), "a transparent conductor")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	if got != "['TiO2', 'ZnO']" {
		t.Errorf("Suggest = %q, want raw response text", got)
	}
	if capturedAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want %q", capturedAuth, "Bearer sk-test")
	}
	if captured.Model != "gpt-4o" {
		t.Errorf("model = %q, want %q", captured.Model, "gpt-4o")
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || !strings.Contains(captured.Messages[0].Content, "materials scientist") {
		t.Errorf("first message should be the system prompt, got %+v", captured.Messages[0])
	}
	if captured.Messages[1].Content != "Suggest chemical formulas for: a transparent conductor" {
		t.Errorf("user message = %q", captured.Messages[1].Content)
	}
}

func TestOpenAIEvaluateRequest(t *testing.T) {
	var captured openaiRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"['TiO2']"}}]}`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	p := &OpenAIProvider{APIKey: "sk-test", Client: ts.Client()}
	got, err := p.Evaluate(context.Background(), []string{"TiO2", "ZnO"}, "a transparent conductor")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "['TiO2']" {
		t.Errorf("Evaluate = %q, want raw response text", got)
	}

	user := captured.Messages[len(captured.Messages)-1].Content
	if !strings.Contains(user, "['TiO2', 'ZnO']") {
		t.Errorf("evaluate prompt should carry the candidate list, got:\n%s", user)
	}
	if !strings.Contains(user, "'a transparent conductor'") {
		t.Errorf("evaluate prompt should quote the goal, got:\n%s", user)
	}
}

func TestOpenAIDefaultModel(t *testing.T) {
	var captured openaiRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"[]"}}]}`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	p := &OpenAIProvider{APIKey: "sk-test", Client: ts.Client()}
	if _, err := p.Suggest(context.Background(), "goal"); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if captured.Model != defaultOpenAIModel {
		t.Errorf("model = %q, want default %q", captured.Model, defaultOpenAIModel)
	}
}

// --- Error handling ---

func TestOpenAIHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	p := &OpenAIProvider{APIKey: "bad", Client: ts.Client()}
	_, err := p.Suggest(context.Background(), "goal")
	if err == nil {
		t.Fatal("expected error for HTTP 401")
	}
	if !strings.Contains(err.Error(), "OpenAI") || !strings.Contains(err.Error(), "401") {
		t.Errorf("error should name the API and status, got: %v", err)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	p := &OpenAIProvider{APIKey: "sk-test", Client: ts.Client()}
	_, err := p.Suggest(context.Background(), "goal")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no-choices error, got: %v", err)
	}
}
