package model

// AiSummary is the structured analysis the model returns for one resume.
// Field names follow the JSON the model is instructed to emit.
type AiSummary struct {
	OverallScore     int            `json:"overall_score"`
	Summary          string         `json:"summary"`
	Skills           []string       `json:"skills"`
	SuggestedRoles   []string       `json:"suggested_roles"`
	CategoryScores   CategoryScores `json:"category_scores"`
	ImprovementAreas []string       `json:"improvement_areas"`
	ResumeData       ResumeData     `json:"resume_data"`
}

// CategoryScores are 1-10 sub-scores. Teamwork and Leadership are nil when the
// resume gives nothing to judge them by.
type CategoryScores struct {
	Readability   *int `json:"readability"`
	Technical     *int `json:"technical"`
	Buzzwords     *int `json:"buzzwords"`
	Teamwork      *int `json:"teamwork"`
	Leadership    *int `json:"leadership"`
	Communication *int `json:"communication"`
	PointsGained  int  `json:"points_gained"`
}

type ResumeData struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Location   string       `json:"location"`
	LinkedIn   string       `json:"linkedin"`
	GitHub     string       `json:"github"`
	Portfolio  string       `json:"portfolio"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	GPA         string `json:"gpa"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
}

type Experience struct {
	Title        string   `json:"title"`
	Technologies string   `json:"technologies"`
	Duration     string   `json:"duration"`
	Achievements []string `json:"achievements"`
}

type Project struct {
	Name         string   `json:"name"`
	Link         string   `json:"link"`
	Technologies string   `json:"technologies"`
	Highlights   []string `json:"highlights"`
}

// Normalize replaces nil slices with empty ones so the summary always
// serializes with arrays, never null.
func (s *AiSummary) Normalize() {
	s.Skills = nonNil(s.Skills)
	s.SuggestedRoles = nonNil(s.SuggestedRoles)
	s.ImprovementAreas = nonNil(s.ImprovementAreas)

	rd := &s.ResumeData
	if rd.Education == nil {
		rd.Education = []Education{}
	}
	if rd.Experience == nil {
		rd.Experience = []Experience{}
	}
	if rd.Projects == nil {
		rd.Projects = []Project{}
	}
	for i := range rd.Experience {
		rd.Experience[i].Achievements = nonNil(rd.Experience[i].Achievements)
	}
	for i := range rd.Projects {
		rd.Projects[i].Highlights = nonNil(rd.Projects[i].Highlights)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
