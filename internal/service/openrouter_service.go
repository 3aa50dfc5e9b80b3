package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// OpenRouterProvider talks to OpenRouter or any other OpenAI-compatible
// chat completions endpoint.
type OpenRouterProvider struct {
	client      *resty.Client
	model       string
	temperature float32
}

func NewOpenRouterProvider(cfg *config.OpenRouterConfig, temperature float32, timeout time.Duration) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OpenRouterProvider{client: client, model: cfg.Model, temperature: temperature}, nil
}

func (p *OpenRouterProvider) Name() string {
	return config.ProviderOpenRouter
}

func (p *OpenRouterProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":           p.model,
			"temperature":     p.temperature,
			"response_format": map[string]string{"type": "json_object"},
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", newTransportError(p.Name(), err)
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", newStatusError(p.Name(), resp.StatusCode(), fmt.Errorf("%s", msg))
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		return "", &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode(), Err: fmt.Errorf("no response from LLM")}
	}
	return content.String(), nil
}
