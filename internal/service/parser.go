package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/qri-io/jsonschema"
	"github.com/tidwall/gjson"
)

// SchemaVersion names the output schema the prompt asks for.
const SchemaVersion = "ai_summary.v1"

//go:embed schema/ai_summary_v1.json
var aiSummarySchema []byte

// SummaryParser turns raw completion text into a validated AiSummary.
type SummaryParser struct {
	schema *jsonschema.Schema
}

func NewSummaryParser() (*SummaryParser, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(aiSummarySchema, rs); err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", SchemaVersion, err)
	}
	return &SummaryParser{schema: rs}, nil
}

// CleanJSON strips a surrounding markdown code fence.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

func (p *SummaryParser) Parse(ctx context.Context, raw string) (model.AiSummary, error) {
	var empty model.AiSummary

	body := CleanJSON(raw)
	if !gjson.Valid(body) {
		return empty, fmt.Errorf("response is not valid JSON")
	}
	if !gjson.Parse(body).IsObject() {
		return empty, fmt.Errorf("response is not a JSON object")
	}

	verrs, err := p.schema.ValidateBytes(ctx, []byte(body))
	if err != nil {
		return empty, fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for i, v := range verrs {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(v.PropertyPath)
			sb.WriteString(": ")
			sb.WriteString(v.Message)
		}
		return empty, fmt.Errorf("response does not match schema %s: %s", SchemaVersion, sb.String())
	}

	var w wireSummary
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return empty, fmt.Errorf("decode response: %w", err)
	}
	summary := w.toModel()
	summary.Normalize()
	return summary, nil
}

// wire types mirror the model's JSON loosely; toModel produces the strict form.
type wireSummary struct {
	OverallScore     float64         `json:"overall_score"`
	Summary          string          `json:"summary"`
	Skills           []string        `json:"skills"`
	SuggestedRoles   []string        `json:"suggested_roles"`
	CategoryScores   wireScores      `json:"category_scores"`
	ImprovementAreas []string        `json:"improvement_areas"`
	ResumeData       *wireResumeData `json:"resume_data"`
}

type wireScores struct {
	Readability   *float64 `json:"readability"`
	Technical     *float64 `json:"technical"`
	Buzzwords     *float64 `json:"buzzwords"`
	Teamwork      *float64 `json:"teamwork"`
	Leadership    *float64 `json:"leadership"`
	Communication *float64 `json:"communication"`
	PointsGained  *float64 `json:"points_gained"`
}

type wireResumeData struct {
	Name       flexText         `json:"name"`
	Email      flexText         `json:"email"`
	Location   flexText         `json:"location"`
	LinkedIn   flexText         `json:"linkedin"`
	GitHub     flexText         `json:"github"`
	Portfolio  flexText         `json:"portfolio"`
	Education  []wireEducation  `json:"education"`
	Experience []wireExperience `json:"experience"`
	Projects   []wireProject    `json:"projects"`
}

type wireEducation struct {
	Institution flexText `json:"institution"`
	Degree      flexText `json:"degree"`
	GPA         flexText `json:"gpa"`
	Duration    flexText `json:"duration"`
	Location    flexText `json:"location"`
}

type wireExperience struct {
	Title        flexText `json:"title"`
	Technologies flexText `json:"technologies"`
	Duration     flexText `json:"duration"`
	Achievements flexList `json:"achievements"`
}

type wireProject struct {
	Name         flexText `json:"name"`
	Link         flexText `json:"link"`
	Technologies flexText `json:"technologies"`
	Highlights   flexList `json:"highlights"`
}

// flexText accepts a string, number, bool or null. A list of scalars is joined with ", ".
type flexText string

func (t *flexText) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch {
	case r.Type == gjson.Null:
		*t = ""
	case r.IsArray():
		var parts []string
		for _, item := range r.Array() {
			if item.IsObject() || item.IsArray() {
				return fmt.Errorf("unexpected nested value %s", item.Raw)
			}
			if s := strings.TrimSpace(item.String()); s != "" {
				parts = append(parts, s)
			}
		}
		*t = flexText(strings.Join(parts, ", "))
	case r.IsObject():
		return fmt.Errorf("expected text, got object")
	default:
		*t = flexText(strings.TrimSpace(r.String()))
	}
	return nil
}

// flexList accepts a list of scalars, a single scalar or null.
type flexList []string

func (l *flexList) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch {
	case r.Type == gjson.Null:
		*l = nil
	case r.IsArray():
		out := make([]string, 0, len(r.Array()))
		for _, item := range r.Array() {
			if item.IsObject() || item.IsArray() {
				return fmt.Errorf("unexpected nested value %s", item.Raw)
			}
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		*l = out
	case r.IsObject():
		return fmt.Errorf("expected list, got object")
	default:
		if s := strings.TrimSpace(r.String()); s != "" {
			*l = []string{s}
		} else {
			*l = nil
		}
	}
	return nil
}

func roundScore(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(*v))
	return &n
}

func (w wireSummary) toModel() model.AiSummary {
	s := model.AiSummary{
		OverallScore:     int(math.Round(w.OverallScore)),
		Summary:          strings.TrimSpace(w.Summary),
		Skills:           w.Skills,
		SuggestedRoles:   w.SuggestedRoles,
		ImprovementAreas: w.ImprovementAreas,
		CategoryScores: model.CategoryScores{
			Readability:   roundScore(w.CategoryScores.Readability),
			Technical:     roundScore(w.CategoryScores.Technical),
			Buzzwords:     roundScore(w.CategoryScores.Buzzwords),
			Teamwork:      roundScore(w.CategoryScores.Teamwork),
			Leadership:    roundScore(w.CategoryScores.Leadership),
			Communication: roundScore(w.CategoryScores.Communication),
		},
	}
	if w.CategoryScores.PointsGained != nil {
		s.CategoryScores.PointsGained = int(math.Round(*w.CategoryScores.PointsGained))
	}
	if w.ResumeData == nil {
		return s
	}

	rd := w.ResumeData
	s.ResumeData = model.ResumeData{
		Name:      string(rd.Name),
		Email:     string(rd.Email),
		Location:  string(rd.Location),
		LinkedIn:  string(rd.LinkedIn),
		GitHub:    string(rd.GitHub),
		Portfolio: string(rd.Portfolio),
	}
	for _, e := range rd.Education {
		s.ResumeData.Education = append(s.ResumeData.Education, model.Education{
			Institution: string(e.Institution),
			Degree:      string(e.Degree),
			GPA:         string(e.GPA),
			Duration:    string(e.Duration),
			Location:    string(e.Location),
		})
	}
	for _, e := range rd.Experience {
		s.ResumeData.Experience = append(s.ResumeData.Experience, model.Experience{
			Title:        string(e.Title),
			Technologies: string(e.Technologies),
			Duration:     string(e.Duration),
			Achievements: []string(e.Achievements),
		})
	}
	for _, p := range rd.Projects {
		s.ResumeData.Projects = append(s.ResumeData.Projects, model.Project{
			Name:         string(p.Name),
			Link:         string(p.Link),
			Technologies: string(p.Technologies),
			Highlights:   []string(p.Highlights),
		})
	}
	return s
}
