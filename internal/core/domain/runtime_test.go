package domain

import (
	"sync"
	"testing"
)

func TestNewRuntimeConfig(t *testing.T) {
	config := NewRuntimeConfig("memory")

	caps := config.Capabilities()
	if caps.SessionBackend != "memory" {
		t.Errorf("expected memory, got %s", caps.SessionBackend)
	}
	if caps.CanEmbed || caps.CanAnswer {
		t.Error("expected no capabilities initially")
	}
	if caps.EmbeddingModel != "" || caps.LLMModel != "" {
		t.Errorf("expected no models initially, got %+v", caps)
	}
}

func TestRuntimeConfig_Capabilities(t *testing.T) {
	tests := []struct {
		name      string
		embedding bool
		llm       bool
		canEmbed  bool
		canAnswer bool
	}{
		{"nothing", false, false, false, false},
		{"embedding only", true, false, true, false},
		{"llm only", false, true, false, false},
		{"both", true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewRuntimeConfig("redis")
			config.SetEmbedding(tt.embedding, "embedding-001")
			config.SetLLM(tt.llm, "gemini-2.5-flash")

			if config.CanEmbed() != tt.canEmbed {
				t.Errorf("CanEmbed() = %v, want %v", config.CanEmbed(), tt.canEmbed)
			}
			if config.CanAnswer() != tt.canAnswer {
				t.Errorf("CanAnswer() = %v, want %v", config.CanAnswer(), tt.canAnswer)
			}
		})
	}
}

func TestRuntimeConfig_ModelClearedWhenUnavailable(t *testing.T) {
	config := NewRuntimeConfig("memory")
	config.SetEmbedding(true, "embedding-001")
	config.SetLLM(true, "gemini-2.5-flash")

	caps := config.Capabilities()
	if caps.EmbeddingModel != "embedding-001" || caps.LLMModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected models: %+v", caps)
	}

	config.SetLLM(false, "gemini-2.5-flash")
	caps = config.Capabilities()
	if caps.LLMModel != "" || caps.CanAnswer {
		t.Errorf("expected generation to be cleared, got %+v", caps)
	}
	if caps.EmbeddingModel != "embedding-001" {
		t.Errorf("expected embedding model to remain, got %q", caps.EmbeddingModel)
	}
}

func TestRuntimeConfig_ThreadSafety(t *testing.T) {
	config := NewRuntimeConfig("memory")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			config.SetEmbedding(true, "e")
			config.SetLLM(true, "l")
			config.SetEmbedding(false, "")
			config.SetLLM(false, "")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			caps := config.Capabilities()
			if caps.CanAnswer && !caps.CanEmbed {
				t.Error("inconsistent snapshot")
			}
		}
	}()
	wg.Wait()
}
