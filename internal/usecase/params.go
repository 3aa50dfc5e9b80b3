package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery holds the raw history query parameters.
type ListQuery struct {
	Page           string
	Limit          string
	Skills         string
	SuggestedRoles string
	MinScore       string
	MaxScore       string
	SortBy         string
	SortOrder      string
}

type ListParams struct {
	Page   int
	Limit  int
	Filter repository.AnalysisFilter
	Sort   repository.AnalysisSort
}

func (p ListParams) Skip() int {
	return (p.Page - 1) * p.Limit
}

// ParseListParams validates q. Out-of-range values are rejected, never clamped.
func ParseListParams(q ListQuery) (ListParams, error) {
	const op = "history"

	p := ListParams{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  repository.AnalysisSort{Field: repository.SortByCreatedAt, Order: repository.SortDesc},
	}

	if s := strings.TrimSpace(q.Page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, apperr.InvalidInput(op, "page must be an integer >= 1")
		}
		p.Page = n
	}
	if s := strings.TrimSpace(q.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return p, apperr.InvalidInput(op, "limit must be an integer between 1 and 100")
		}
		p.Limit = n
	}
	if p.Page > math.MaxInt32/p.Limit {
		return p, apperr.InvalidInput(op, "page is out of range")
	}

	p.Filter.Skills = splitList(q.Skills)
	p.Filter.SuggestedRoles = splitList(q.SuggestedRoles)

	var err error
	if p.Filter.MinScore, err = parseScore(q.MinScore); err != nil {
		return p, apperr.InvalidInput(op, "minScore must be a number")
	}
	if p.Filter.MaxScore, err = parseScore(q.MaxScore); err != nil {
		return p, apperr.InvalidInput(op, "maxScore must be a number")
	}
	if p.Filter.MinScore != nil && p.Filter.MaxScore != nil && *p.Filter.MinScore > *p.Filter.MaxScore {
		return p, apperr.InvalidInput(op, "minScore must not exceed maxScore")
	}

	switch s := strings.TrimSpace(q.SortBy); s {
	case "":
	case repository.SortByCreatedAt, repository.SortByOverallScore:
		p.Sort.Field = s
	default:
		return p, apperr.InvalidInput(op, "sortBy must be createdAt or overallScore")
	}
	switch s := strings.ToLower(strings.TrimSpace(q.SortOrder)); s {
	case "":
	case repository.SortAsc, repository.SortDesc:
		p.Sort.Order = s
	default:
		return p, apperr.InvalidInput(op, "sortOrder must be asc or desc")
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseScore(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, strconv.ErrSyntax
	}
	return &f, nil
}
