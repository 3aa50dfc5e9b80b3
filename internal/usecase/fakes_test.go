package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/google/uuid"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	results []error
	summary model.AiSummary
	prompts []string
}

func (f *fakeAnalyzer) ProviderName() string { return "fake" }

func (f *fakeAnalyzer) Analyze(ctx context.Context, prompt string) (model.AiSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if len(f.results) > 0 {
		err := f.results[0]
		f.results = f.results[1:]
		if err != nil {
			return model.AiSummary{}, err
		}
	}
	return f.summary, nil
}

func (f *fakeAnalyzer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeExtractor struct {
	text  string
	err   error
	paths []string
}

func (f *fakeExtractor) Extract(mediaType, path string) (string, error) {
	f.paths = append(f.paths, path)
	return f.text, f.err
}

// countingStore wraps a MemoryRepository, counting writes and optionally failing.
type countingStore struct {
	*repository.MemoryRepository
	mu        sync.Mutex
	saves     int
	saveErr   error
	queryErr  error
	countErr  error
	distincts int
	// onDistinct runs once, on the first DistinctValues call
	onDistinct func()
	once       sync.Once
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryRepository: repository.NewMemoryRepository()}
}

func (s *countingStore) Save(ctx context.Context, a *model.Analysis) error {
	s.mu.Lock()
	s.saves++
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryRepository.Save(ctx, a)
}

func (s *countingStore) Find(ctx context.Context, f repository.AnalysisFilter, so repository.AnalysisSort, skip, limit int) ([]model.Analysis, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.MemoryRepository.Find(ctx, f, so, skip, limit)
}

func (s *countingStore) Count(ctx context.Context, f repository.AnalysisFilter) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.MemoryRepository.Count(ctx, f)
}

func (s *countingStore) DistinctValues(ctx context.Context, field string) ([]string, error) {
	s.mu.Lock()
	s.distincts++
	s.mu.Unlock()
	if s.onDistinct != nil {
		s.once.Do(s.onDistinct)
	}
	return s.MemoryRepository.DistinctValues(ctx, field)
}

func (s *countingStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error) {
	return s.MemoryRepository.FindByID(ctx, id)
}

type fakeCache struct {
	mu          sync.Mutex
	value       *dto.FilterOptionsDTO
	getErr      error
	genErr      error
	gen         int64
	invalidated int
	sets        int
}

func (c *fakeCache) Get(ctx context.Context) (*dto.FilterOptionsDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.value, c.value != nil, nil
}

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, c.genErr
}

func (c *fakeCache) Set(ctx context.Context, gen int64, opts dto.FilterOptionsDTO) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false, nil
	}
	c.sets++
	c.value = &opts
	return true, nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.gen++
	c.value = nil
	return nil
}

var errBoom = errors.New("boom")

// temporaryErr mimics a provider failure that may succeed on a later attempt.
type temporaryErr struct{}

func (temporaryErr) Error() string   { return "service unavailable" }
func (temporaryErr) Temporary() bool { return true }
