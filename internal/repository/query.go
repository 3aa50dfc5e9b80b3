package repository

import "strings"

const (
	SortByCreatedAt    = "createdAt"
	SortByOverallScore = "overallScore"

	SortAsc  = "asc"
	SortDesc = "desc"

	FieldSkills         = "skills"
	FieldSuggestedRoles = "suggestedRoles"
)

// AnalysisFilter selects records. Terms within Skills (and within SuggestedRoles)
// are alternatives matched as case-insensitive substrings; the groups and the score
// bounds are combined with AND. Nil bounds are open.
type AnalysisFilter struct {
	Skills         []string
	SuggestedRoles []string
	MinScore       *float64
	MaxScore       *float64
}

type AnalysisSort struct {
	Field string
	Order string
}

func (s AnalysisSort) desc() bool {
	return s.Order != SortAsc
}

// likePattern escapes LIKE metacharacters in term and wraps it for a substring match.
// The array separator is dropped so a term can never span two elements.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, "\x1f", "")
	return "%" + r.Replace(term) + "%"
}

func containsFold(values []string, terms []string) bool {
	for _, term := range terms {
		t := strings.ToLower(term)
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), t) {
				return true
			}
		}
	}
	return false
}
