package usecase

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/google/uuid"
)

type AnalysisStore interface {
	Save(ctx context.Context, a *model.Analysis) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error)
	Find(ctx context.Context, filter repository.AnalysisFilter, s repository.AnalysisSort, skip, limit int) ([]model.Analysis, error)
	Count(ctx context.Context, filter repository.AnalysisFilter) (int64, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (model.AiSummary, error)
	ProviderName() string
}

// temporary is implemented by analyzer errors that are worth retrying.
type temporary interface {
	Temporary() bool
}

func isTemporary(err error) bool {
	var t temporary
	return errors.As(err, &t) && t.Temporary()
}

type TextExtractor interface {
	Extract(mediaType, path string) (string, error)
}

type FilterOptionsCache interface {
	Get(ctx context.Context) (*dto.FilterOptionsDTO, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, opts dto.FilterOptionsDTO) (bool, error)
	Invalidate(ctx context.Context) error
}
