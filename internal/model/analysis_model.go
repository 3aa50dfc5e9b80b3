package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const AnonymousSubmitter = "Anonymous"

// Analysis is one persisted resume submission. Skills, SuggestedRoles and
// OverallScore duplicate fields of AiSummary so they can be indexed.
type Analysis struct {
	ID             uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string                        `gorm:"type:varchar(255);not null" json:"name"`
	Email          string                        `gorm:"type:varchar(255);not null" json:"email"`
	RawText        string                        `gorm:"type:text;not null" json:"resumeText"`
	AiSummary      datatypes.JSONType[AiSummary] `gorm:"type:jsonb;not null" json:"aiSummary"`
	Skills         pq.StringArray                `gorm:"type:text[];not null" json:"-"`
	SuggestedRoles pq.StringArray                `gorm:"type:text[];not null" json:"-"`
	OverallScore   int                           `gorm:"not null" json:"-"`
	CreatedAt      time.Time                     `gorm:"not null" json:"createdAt"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// NewAnalysis builds an unsaved record. ID and CreatedAt are assigned by the store.
func NewAnalysis(name, email, rawText string, summary AiSummary) *Analysis {
	if name == "" {
		name = AnonymousSubmitter
	}
	summary.Normalize()
	return &Analysis{
		Name:           name,
		Email:          email,
		RawText:        rawText,
		AiSummary:      datatypes.NewJSONType(summary),
		Skills:         pq.StringArray(append([]string{}, summary.Skills...)),
		SuggestedRoles: pq.StringArray(append([]string{}, summary.SuggestedRoles...)),
		OverallScore:   summary.OverallScore,
	}
}

func (a *Analysis) Summary() AiSummary {
	return a.AiSummary.Data()
}
