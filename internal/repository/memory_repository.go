package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/google/uuid"
)

// MemoryRepository keeps records in process. It backs local development and tests
// and answers queries with the same semantics as AnalysisRepository.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []model.Analysis
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Save(ctx context.Context, a *model.Analysis) error {
	if err := ctx.Err(); err != nil {
		return apperr.PersistenceFailed("save", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.New()
	a.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
	r.records = append(r.records, cloneAnalysis(*a))
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id {
			out := cloneAnalysis(rec)
			return &out, nil
		}
	}
	return nil, apperr.NotFound("find", id.String())
}

func (r *MemoryRepository) Find(ctx context.Context, filter AnalysisFilter, s AnalysisSort, skip, limit int) ([]model.Analysis, error) {
	r.mu.RLock()
	matched := r.match(filter)
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if s.desc() {
			a, b = b, a
		}
		if s.Field == SortByOverallScore && a.OverallScore != b.OverallScore {
			return a.OverallScore < b.OverallScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	if skip >= len(matched) {
		return []model.Analysis{}, nil
	}
	end := len(matched)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	page := matched[skip:end]
	for i := range page {
		page[i].RawText = ""
	}
	return page, nil
}

func (r *MemoryRepository) Count(ctx context.Context, filter AnalysisFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

func (r *MemoryRepository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	if _, ok := arrayColumns[field]; !ok {
		return nil, apperr.InvalidInput("distinct", "unknown field "+field)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, rec := range r.records {
		values := rec.Skills
		if field == FieldSuggestedRoles {
			values = rec.SuggestedRoles
		}
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				seen[v] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// match must be called with at least a read lock held.
func (r *MemoryRepository) match(f AnalysisFilter) []model.Analysis {
	out := make([]model.Analysis, 0, len(r.records))
	for _, rec := range r.records {
		if len(f.Skills) > 0 && !containsFold(rec.Skills, f.Skills) {
			continue
		}
		if len(f.SuggestedRoles) > 0 && !containsFold(rec.SuggestedRoles, f.SuggestedRoles) {
			continue
		}
		if f.MinScore != nil && float64(rec.OverallScore) < *f.MinScore {
			continue
		}
		if f.MaxScore != nil && float64(rec.OverallScore) > *f.MaxScore {
			continue
		}
		out = append(out, cloneAnalysis(rec))
	}
	return out
}

func cloneAnalysis(a model.Analysis) model.Analysis {
	a.Skills = append([]string(nil), a.Skills...)
	a.SuggestedRoles = append([]string(nil), a.SuggestedRoles...)
	return a
}
