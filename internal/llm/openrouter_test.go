package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRouterProvider_Headers(t *testing.T) {
	var referer, title, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		auth = r.Header.Get("Authorization")
		writeCompletion(w, "Hallo!")
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "or-key",
		Model:   "deepseek/deepseek-chat",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{User("Hallo")}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Content != "Hallo!" {
		t.Errorf("content = %q", resp.Content)
	}
	if referer != "https://deutschlern.ai" {
		t.Errorf("HTTP-Referer = %q", referer)
	}
	if title != "DeutschLern AI" {
		t.Errorf("X-Title = %q", title)
	}
	if auth != "Bearer or-key" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestOpenRouterProvider_Defaults(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key"})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if p.ModelID() != DefaultModel {
		t.Errorf("ModelID() = %q, want %q", p.ModelID(), DefaultModel)
	}
}

func TestOpenRouterProvider_MissingKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{})
	var keyErr *ErrAPIKeyNotSet
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected *ErrAPIKeyNotSet, got %T", err)
	}
	if keyErr.EnvVar != "DEUTSCHLERN_OPENROUTER_API_KEY" {
		t.Errorf("EnvVar = %q", keyErr.EnvVar)
	}
}
