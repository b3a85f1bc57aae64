package bootstrap

import (
	"testing"

	"returns-backend/internal/llm"
	"returns-backend/internal/shared/config"
)

func TestBuildLLMFallsBackToPlaceholderWithoutKeyInDev(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := config.Config{LLMProvider: "openai", LLMModel: "gpt-4o-mini", Env: "dev"}
	client, err := buildLLM(cfg)
	if err != nil {
		t.Fatalf("buildLLM: %v", err)
	}
	if _, ok := client.(llm.PlaceholderClient); !ok {
		t.Fatalf("client = %T, want llm.PlaceholderClient", client)
	}
}

func TestBuildLLMUsesOpenAIWhenKeyPresent(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := config.Config{LLMProvider: "openai", LLMModel: "gpt-4o-mini", Env: "dev"}
	client, err := buildLLM(cfg)
	if err != nil {
		t.Fatalf("buildLLM: %v", err)
	}
	if _, ok := client.(llm.PlaceholderClient); ok {
		t.Fatal("expected a real client when the key is configured")
	}
}

func TestBuildLLMRequiresKeyOutsideDev(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := config.Config{LLMProvider: "openai", LLMModel: "gpt-4o-mini", Env: "production"}
	if _, err := buildLLM(cfg); err == nil {
		t.Fatal("expected an error when OPENAI_API_KEY is unset outside dev")
	}
}
