package config

import (
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// LLMConfig holds settings shared by every completion provider. They are process
// configuration and never vary per request.
type LLMConfig struct {
	Provider    string
	Temperature float32
	Timeout     time.Duration
	Retries     int
	RetryDelay  time.Duration
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = &LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", ProviderGemini),
			Temperature: float32(getEnvFloat("LLM_TEMPERATURE", 0.2)),
			Timeout:     getEnvDuration("LLM_TIMEOUT", 90*time.Second),
			Retries:     getEnvInt("LLM_RETRIES", 0),
			RetryDelay:  getEnvDuration("LLM_RETRY_DELAY", time.Second),
		}
	})
	return llmConfig
}
