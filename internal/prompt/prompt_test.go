package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIsDeterministic(t *testing.T) {
	text := "Experienced backend engineer skilled in Go and PostgreSQL."
	assert.Equal(t, Build(text), Build(text))

	seg, ok := Embedded(Build(text))
	require.True(t, ok)
	assert.Equal(t, text, seg)
}

func TestBuildTruncatesLongText(t *testing.T) {
	text := strings.Repeat("abcdefghij", 2000)

	first, second := Build(text), Build(text)
	require.Equal(t, first, second)

	seg, ok := Embedded(first)
	require.True(t, ok)
	assert.Equal(t, MaxResumeChars, utf8.RuneCountInString(seg))
	assert.Equal(t, text[:MaxResumeChars], seg)
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("é", MaxResumeChars+10)
	out := Truncate(text)

	assert.Equal(t, MaxResumeChars, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

func TestTruncateLeavesShortTextAlone(t *testing.T) {
	text := strings.Repeat("x", MaxResumeChars)
	assert.Equal(t, text, Truncate(text))
}

func TestSchemaDescribesEveryField(t *testing.T) {
	p := Build("resume")
	for _, field := range []string{
		"overall_score", "summary", "skills", "suggested_roles", "category_scores",
		"readability", "technical", "buzzwords", "teamwork", "leadership", "communication",
		"points_gained", "improvement_areas", "resume_data", "education", "experience", "projects",
	} {
		assert.Contains(t, p, `"`+field+`"`)
	}
	assert.Contains(t, p, "Respond ONLY with valid JSON")
}
