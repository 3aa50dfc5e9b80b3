package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/prompt"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/google/uuid"
)

const maxSubmitterLen = 255

// StagedFile is an upload already written to disk by the transport layer, which
// also owns its removal.
type StagedFile struct {
	Path      string
	MediaType string
}

type SubmitInput struct {
	Name  string
	Email string
	Text  string
	File  *StagedFile
}

type SubmitResult struct {
	Summary  model.AiSummary
	ID       uuid.UUID
	Recorded bool
}

type Options struct {
	PersistFailureMode string
	Retries            int
	RetryDelay         time.Duration
	Cache              FilterOptionsCache
}

type AnalysisUsecase struct {
	store       AnalysisStore
	analyzer    Analyzer
	extractor   TextExtractor
	cache       FilterOptionsCache
	persistMode string
	retries     int
	retryDelay  time.Duration
}

func NewAnalysisUsecase(store AnalysisStore, analyzer Analyzer, extractor TextExtractor, opts Options) *AnalysisUsecase {
	mode := opts.PersistFailureMode
	if mode != config.PersistFailureDegrade {
		mode = config.PersistFailureFail
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &AnalysisUsecase{
		store:       store,
		analyzer:    analyzer,
		extractor:   extractor,
		cache:       opts.Cache,
		persistMode: mode,
		retries:     max(opts.Retries, 0),
		retryDelay:  delay,
	}
}

// Submit runs extraction, prompting, analysis and persistence in order. Nothing
// is stored unless the analysis succeeded.
func (uc *AnalysisUsecase) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	const op = "submit"

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if utf8.RuneCountInString(name) > maxSubmitterLen || utf8.RuneCountInString(email) > maxSubmitterLen {
		return nil, apperr.InvalidInput(op, "name and email must be at most 255 characters")
	}

	var text string
	switch {
	case in.File != nil:
		if !util.IsSupportedMediaType(in.File.MediaType) {
			return nil, apperr.UnsupportedMediaType(op, in.File.MediaType)
		}
		extracted, err := uc.extractor.Extract(in.File.MediaType, in.File.Path)
		if err != nil {
			uc.logFailure(op, err, 0)
			return nil, err
		}
		text = extracted
	case in.Text != "":
		text = util.Sanitize(in.Text)
	default:
		return nil, apperr.InvalidInput(op, "No resume provided")
	}

	if strings.TrimSpace(text) == "" {
		return nil, apperr.InvalidInput(op, "Resume text is empty")
	}

	summary, err := uc.analyze(ctx, prompt.Build(text))
	if err != nil {
		uc.logFailure(op, err, len(text))
		return nil, err
	}

	record := model.NewAnalysis(name, email, text, summary)
	if err := uc.store.Save(ctx, record); err != nil {
		if apperr.KindOf(err) == nil {
			err = apperr.PersistenceFailed(op, err)
		}
		uc.logFailure(op, err, len(text))
		if uc.persistMode == config.PersistFailureDegrade {
			return &SubmitResult{Summary: record.Summary(), Recorded: false}, nil
		}
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			logger.Warn().Str("op", op).Err(err).Msg("filter options cache invalidation failed")
		}
	}

	logger.Info().Str("op", op).Str("id", record.ID.String()).Str("provider", uc.analyzer.ProviderName()).Int("text_len", len(text)).Int("overall_score", summary.OverallScore).Msg("resume analyzed")
	return &SubmitResult{Summary: record.Summary(), ID: record.ID, Recorded: true}, nil
}

func (uc *AnalysisUsecase) GetByID(ctx context.Context, rawID string) (*model.Analysis, error) {
	const op = "get"

	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, apperr.InvalidInput(op, "Invalid resume id")
	}
	a, err := uc.store.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			uc.logFailure(op, err, 0)
		}
		return nil, err
	}
	return a, nil
}

// analyze calls the analyzer once, then again up to uc.retries times while the
// failure is retryable.
func (uc *AnalysisUsecase) analyze(ctx context.Context, p string) (model.AiSummary, error) {
	var lastErr error
	for attempt := 0; attempt <= uc.retries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(uc.retryDelay, attempt)
			logger.Warn().Str("op", "analyze").Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying analysis")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return model.AiSummary{}, apperr.AnalysisFailed("analyze", "cancelled during retry", ctx.Err())
			}
		}

		summary, err := uc.analyzer.Analyze(ctx, p)
		if err == nil {
			return summary, nil
		}
		lastErr = err
		if !isTemporary(err) {
			break
		}
	}
	return model.AiSummary{}, lastErr
}

func (uc *AnalysisUsecase) logFailure(op string, err error, textLen int) {
	logger.Error().
		Str("op", op).
		Str("kind", apperr.KindName(err)).
		Str("provider", uc.analyzer.ProviderName()).
		Int("text_len", textLen).
		Err(err).
		Msg("request failed")
}

const maxBackoff = 30 * time.Second

func calculateBackoff(base time.Duration, attempt int) time.Duration {
	delay := base << (attempt - 1)
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}
	return delay
}
