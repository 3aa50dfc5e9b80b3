package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/ollama/ollama/api"
)

type OllamaProvider struct {
	api         *api.Client
	model       string
	temperature float32
}

func NewOllamaProvider(cfg *config.OllamaConfig, temperature float32, httpClient *http.Client) (*OllamaProvider, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &OllamaProvider{
		api:         api.NewClient(u, httpClient),
		model:       cfg.Model,
		temperature: temperature,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return config.ProviderOllama
}

func (p *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Format:  json.RawMessage(`"json"`),
		Stream:  &stream,
		Options: map[string]any{"temperature": p.temperature},
	}

	var out strings.Builder
	err := p.api.Generate(ctx, req, func(r api.GenerateResponse) error {
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", newStatusError(p.Name(), statusErr.StatusCode, err)
		}
		return "", newTransportError(p.Name(), err)
	}
	if out.Len() == 0 {
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("empty response")}
	}
	return out.String(), nil
}
