package config

import "sync"

type OllamaConfig struct {
	BaseURL string
	Model   string
}

var (
	ollamaConfig *OllamaConfig
	ollamaOnce   sync.Once
)

func LoadOllamaConfig() *OllamaConfig {
	ollamaOnce.Do(func() {
		ollamaConfig = &OllamaConfig{
			BaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   getEnv("OLLAMA_MODEL", "llama3.1"),
		}
	})
	return ollamaConfig
}
