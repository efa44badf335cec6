package domain

import (
	"errors"
	"testing"
)

func TestAIProviderConstants(t *testing.T) {
	tests := []struct {
		provider AIProvider
		expected string
	}{
		{AIProviderGemini, "gemini"},
		{AIProviderOpenAI, "openai"},
		{AIProviderOllama, "ollama"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if string(tt.provider) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, string(tt.provider))
			}
			if !tt.provider.IsValid() {
				t.Errorf("expected %s to be valid", tt.provider)
			}
		})
	}

	if AIProvider("anthropic").IsValid() {
		t.Error("expected unknown provider to be invalid")
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"gemini without key", EmbeddingSettings{Provider: AIProviderGemini}, false},
		{"gemini with key", EmbeddingSettings{Provider: AIProviderGemini, APIKey: "k"}, true},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	if (&LLMSettings{Provider: AIProviderOpenAI}).IsConfigured() {
		t.Error("expected openai without key to be unconfigured")
	}
	if !(&LLMSettings{Provider: AIProviderOpenAI, APIKey: "k"}).IsConfigured() {
		t.Error("expected openai with key to be configured")
	}
}

func TestAISettings_Validate(t *testing.T) {
	valid := &AISettings{
		Embedding: EmbeddingSettings{Provider: AIProviderGemini},
		LLM:       LLMSettings{Provider: AIProviderOllama},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := &AISettings{LLM: LLMSettings{Provider: "cohere"}}
	if err := invalid.Validate(); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}
