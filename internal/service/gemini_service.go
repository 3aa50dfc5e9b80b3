package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"google.golang.org/genai"
)

type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiProvider(ctx context.Context, cfg *config.GeminiConfig, temperature float32) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{
		client:      client,
		model:       cfg.Model,
		temperature: temperature,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return config.ProviderGemini
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := p.client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(p.temperature),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("invalid response: %w", err)}
	}
	return result.Text(), nil
}

func classifyGeminiError(err error) error {
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return newStatusError(config.ProviderGemini, apiErrPtr.Code, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return newStatusError(config.ProviderGemini, apiErr.Code, err)
	}
	return newTransportError(config.ProviderGemini, err)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}
