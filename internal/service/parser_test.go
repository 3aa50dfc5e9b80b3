package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSummary = `{
  "overall_score": 82,
  "summary": "Backend engineer with strong Go experience.",
  "skills": ["Go", "PostgreSQL"],
  "suggested_roles": ["Backend Engineer"],
  "category_scores": {
    "readability": 8, "technical": 9, "buzzwords": 6,
    "teamwork": null, "leadership": 7, "communication": 8, "points_gained": 12
  },
  "improvement_areas": ["Quantify achievements"],
  "resume_data": {
    "name": "Jane Doe", "email": "jane@example.com", "location": "Jakarta",
    "linkedin": "", "github": "https://github.com/jane", "portfolio": null,
    "education": [{"institution": "ITB", "degree": "BSc Informatics", "gpa": 3.8, "duration": "2015-2019", "location": "Bandung"}],
    "experience": [{"title": "Engineer at Acme", "technologies": ["Go", "Redis"], "duration": "2019-now", "achievements": "Cut latency by 40%"}],
    "projects": [{"name": "resumectl", "link": "", "technologies": "Go", "highlights": ["CLI", "  "]}]
  }
}`

func newParser(t *testing.T) *SummaryParser {
	t.Helper()
	p, err := NewSummaryParser()
	require.NoError(t, err)
	return p
}

func TestParseValidSummary(t *testing.T) {
	s, err := newParser(t).Parse(context.Background(), validSummary)
	require.NoError(t, err)

	assert.Equal(t, 82, s.OverallScore)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, s.Skills)
	assert.Nil(t, s.CategoryScores.Teamwork)
	require.NotNil(t, s.CategoryScores.Leadership)
	assert.Equal(t, 7, *s.CategoryScores.Leadership)
	assert.Equal(t, 12, s.CategoryScores.PointsGained)

	rd := s.ResumeData
	assert.Equal(t, "", rd.Portfolio)
	assert.Equal(t, "3.8", rd.Education[0].GPA)
	assert.Equal(t, "Go, Redis", rd.Experience[0].Technologies)
	assert.Equal(t, []string{"Cut latency by 40%"}, rd.Experience[0].Achievements)
	assert.Equal(t, []string{"CLI"}, rd.Projects[0].Highlights)
}

func TestParseStripsCodeFence(t *testing.T) {
	s, err := newParser(t).Parse(context.Background(), "```json\n"+validSummary+"\n```")
	require.NoError(t, err)
	assert.Equal(t, 82, s.OverallScore)
}

func TestParseRoundsScores(t *testing.T) {
	raw := `{"overall_score": 74.6, "summary": "ok", "category_scores": {"readability": 7.4, "technical": 8, "buzzwords": 5, "communication": 6.5}}`
	s, err := newParser(t).Parse(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 75, s.OverallScore)
	assert.Equal(t, 7, *s.CategoryScores.Readability)
	assert.Equal(t, 7, *s.CategoryScores.Communication)
}

func TestParseDefaultsMissingCollections(t *testing.T) {
	raw := `{"overall_score": 50, "summary": "ok", "category_scores": {"readability": 5, "technical": 5, "buzzwords": 5, "communication": 5}}`
	s, err := newParser(t).Parse(context.Background(), raw)
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"skills":[]`)
	assert.Contains(t, string(out), `"improvement_areas":[]`)
	assert.Contains(t, string(out), `"education":[]`)
	assert.Contains(t, string(out), `"teamwork":null`)
}

func TestParseRejectsUnusableOutput(t *testing.T) {
	cases := map[string]string{
		"prose":            "Sure, here's your analysis: the resume is great.",
		"array":            `[{"overall_score": 80}]`,
		"missing score":    `{"summary": "ok", "category_scores": {"readability": 5, "technical": 5, "buzzwords": 5, "communication": 5}}`,
		"score too high":   `{"overall_score": 140, "summary": "ok", "category_scores": {"readability": 5, "technical": 5, "buzzwords": 5, "communication": 5}}`,
		"subscore too low": `{"overall_score": 40, "summary": "ok", "category_scores": {"readability": 0, "technical": 5, "buzzwords": 5, "communication": 5}}`,
		"score as text":    `{"overall_score": "80", "summary": "ok", "category_scores": {"readability": 5, "technical": 5, "buzzwords": 5, "communication": 5}}`,
		"points overflow":  `{"overall_score": 80, "summary": "ok", "category_scores": {"readability": 5, "technical": 5, "buzzwords": 5, "communication": 5, "points_gained": 1e20}}`,
		"object as name":   `{"overall_score": 80, "summary": "ok", "category_scores": {"readability": 5, "technical": 5, "buzzwords": 5, "communication": 5}, "resume_data": {"name": {"first": "J"}}}`,
	}
	p := newParser(t)
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Parse(context.Background(), raw)
			assert.Error(t, err)
		})
	}
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("  {\"a\":1}  "))
}
