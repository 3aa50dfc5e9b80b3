package service

import (
	"context"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/fadilmartias/resume-analyzer/internal/model"
)

// AnalysisService makes exactly one provider call per Analyze and never retries.
type AnalysisService struct {
	provider CompletionProvider
	parser   *SummaryParser
	timeout  time.Duration
}

func NewAnalysisService(provider CompletionProvider, timeout time.Duration) (*AnalysisService, error) {
	parser, err := NewSummaryParser()
	if err != nil {
		return nil, err
	}
	return &AnalysisService{provider: provider, parser: parser, timeout: timeout}, nil
}

func (s *AnalysisService) ProviderName() string {
	return s.provider.Name()
}

func (s *AnalysisService) Analyze(ctx context.Context, prompt string) (model.AiSummary, error) {
	const op = "analyze"

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return model.AiSummary{}, apperr.AnalysisFailed(op, "provider "+s.provider.Name(), err)
	}

	summary, err := s.parser.Parse(ctx, raw)
	if err != nil {
		// the raw completion may quote the resume, so only its size is logged
		logger.Warn().Str("op", op).Str("provider", s.provider.Name()).Int("response_len", len(raw)).Err(err).Msg("unusable model output")
		return model.AiSummary{}, apperr.AnalysisFailed(op, "parse response", err)
	}

	logger.Debug().Str("op", op).Str("provider", s.provider.Name()).Dur("latency", time.Since(start)).Int("overall_score", summary.OverallScore).Msg("analysis complete")
	return summary, nil
}
