package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%go%`, likePattern("go"))
	assert.Equal(t, `%100\%\_x%`, likePattern("100%_x"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
	assert.Equal(t, `%ab%`, likePattern("a\x1fb"))
}

func TestAnyOfClause(t *testing.T) {
	clause, args := anyOfClause("skills", []string{"go", "sql"})
	assert.Contains(t, clause, " OR ")
	assert.Contains(t, clause, "unnest(skills)")
	assert.Equal(t, []any{"%go%", "%go%", "%sql%", "%sql%"}, args)

	clause, args = anyOfClause("skills", nil)
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC, id DESC", orderClause(AnalysisSort{}))
	assert.Equal(t, "overall_score ASC, created_at ASC, id ASC", orderClause(AnalysisSort{Field: SortByOverallScore, Order: SortAsc}))
}
