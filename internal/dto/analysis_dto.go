package dto

import (
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/response"
	"github.com/google/uuid"
)

// AnalysisListItemDTO is one history row. The raw resume text is never part of it.
type AnalysisListItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	AiSummary model.AiSummary `json:"aiSummary"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AnalysisDetailDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	ResumeText string          `json:"resumeText"`
	AiSummary  model.AiSummary `json:"aiSummary"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type HistoryDTO struct {
	Resumes    []AnalysisListItemDTO `json:"resumes"`
	Pagination response.Pagination   `json:"pagination"`
}

type FilterOptionsDTO struct {
	Skills         []string `json:"skills"`
	SuggestedRoles []string `json:"suggested_roles"`
}

func NewAnalysisListItemDTO(a model.Analysis) AnalysisListItemDTO {
	return AnalysisListItemDTO{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		AiSummary: a.Summary(),
		CreatedAt: a.CreatedAt,
	}
}

func NewAnalysisDetailDTO(a model.Analysis) AnalysisDetailDTO {
	return AnalysisDetailDTO{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		ResumeText: a.RawText,
		AiSummary:  a.Summary(),
		CreatedAt:  a.CreatedAt,
	}
}

func NewHistoryDTO(records []model.Analysis, pagination response.Pagination) HistoryDTO {
	items := make([]AnalysisListItemDTO, 0, len(records))
	for _, r := range records {
		items = append(items, NewAnalysisListItemDTO(r))
	}
	return HistoryDTO{Resumes: items, Pagination: pagination}
}
