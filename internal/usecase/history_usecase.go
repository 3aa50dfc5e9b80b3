package usecase

import (
	"context"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/fadilmartias/resume-analyzer/internal/response"
	"golang.org/x/sync/errgroup"
)

type HistoryUsecase struct {
	store AnalysisStore
	cache FilterOptionsCache
}

// NewHistoryUsecase accepts a nil cache.
func NewHistoryUsecase(store AnalysisStore, cache FilterOptionsCache) *HistoryUsecase {
	return &HistoryUsecase{store: store, cache: cache}
}

// ListHistory fetches the page and the total count concurrently.
func (uc *HistoryUsecase) ListHistory(ctx context.Context, p ListParams) (*dto.HistoryDTO, error) {
	g, gctx := errgroup.WithContext(ctx)

	var total int64
	g.Go(func() error {
		n, err := uc.store.Count(gctx, p.Filter)
		total = n
		return err
	})

	var records []model.Analysis
	g.Go(func() error {
		out, err := uc.store.Find(gctx, p.Filter, p.Sort, p.Skip(), p.Limit)
		records = out
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error().Str("op", "history").Str("kind", apperr.KindName(err)).Err(err).Msg("request failed")
		return nil, err
	}

	history := dto.NewHistoryDTO(records, response.NewPagination(p.Page, p.Limit, len(records), total))
	return &history, nil
}

// FilterOptions serves from cache when possible. Cache failures fall through to the store.
// The cache generation is read before the store so a save that lands in between
// keeps the older options from being cached.
func (uc *HistoryUsecase) FilterOptions(ctx context.Context) (*dto.FilterOptionsDTO, error) {
	cacheable := false
	var gen int64
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx)
		if err != nil {
			logger.Warn().Str("op", "filter-options").Err(err).Msg("filter options cache read failed")
		}
		if ok {
			return cached, nil
		}
		if gen, err = uc.cache.Generation(ctx); err != nil {
			logger.Warn().Str("op", "filter-options").Err(err).Msg("filter options cache read failed")
		} else {
			cacheable = true
		}
	}

	var opts dto.FilterOptionsDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := uc.store.DistinctValues(gctx, repository.FieldSkills)
		opts.Skills = v
		return err
	})
	g.Go(func() error {
		v, err := uc.store.DistinctValues(gctx, repository.FieldSuggestedRoles)
		opts.SuggestedRoles = v
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error().Str("op", "filter-options").Str("kind", apperr.KindName(err)).Err(err).Msg("request failed")
		return nil, err
	}

	if cacheable {
		written, err := uc.cache.Set(ctx, gen, opts)
		if err != nil {
			logger.Warn().Str("op", "filter-options").Err(err).Msg("filter options cache write failed")
		} else if !written {
			logger.Debug().Str("op", "filter-options").Int64("generation", gen).Msg("skipped stale filter options cache write")
		}
	}
	return &opts, nil
}
