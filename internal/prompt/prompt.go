// Package prompt builds the instruction sent to the completion provider for one resume.
package prompt

import (
	"strings"
	"unicode/utf8"
)

const (
	// Version identifies the instruction text and the output schema it describes.
	Version = "v1"

	// MaxResumeChars bounds the resume text embedded in the prompt, in characters.
	MaxResumeChars = 15000
)

const header = `Analyze the following resume text comprehensively and provide a detailed analysis in JSON format.

Resume Text: "`

const schema = `"

Provide a comprehensive analysis with the following structure:
{
    "overall_score": <number between 0-100 based on resume quality>,
    "summary": "<2-3 sentence professional summary>",
    "skills": ["<skill1>", "<skill2>", ...],
    "suggested_roles": ["<role1>", "<role2>"],
    "category_scores": {
        "readability": <score 1-10>,
        "technical": <score 1-10>,
        "buzzwords": <score 1-10>,
        "teamwork": <score 1-10 or null if not applicable>,
        "leadership": <score 1-10 or null if not applicable>,
        "communication": <score 1-10>,
        "points_gained": <number>
    },
    "improvement_areas": ["<specific improvement suggestion 1>", "<specific improvement suggestion 2>", ...],
    "resume_data": {
        "name": "<extracted name or 'Unknown'>",
        "email": "<extracted email or ''>",
        "location": "<extracted location or ''>",
        "linkedin": "<extracted linkedin url or ''>",
        "github": "<extracted github url or ''>",
        "portfolio": "<extracted portfolio url or ''>",
        "education": [
            {
                "institution": "<school name>",
                "degree": "<degree title>",
                "gpa": "<gpa if mentioned>",
                "duration": "<date range>",
                "location": "<location>"
            }
        ],
        "experience": [
            {
                "title": "<job title at company>",
                "technologies": "<comma separated technologies>",
                "duration": "<date range>",
                "achievements": ["<achievement 1>", "<achievement 2>"]
            }
        ],
        "projects": [
            {
                "name": "<project name>",
                "link": "<project url if any>",
                "technologies": "<comma separated technologies>",
                "highlights": ["<highlight 1>", "<highlight 2>"]
            }
        ]
    }
}

Be thorough but realistic with scoring. Respond ONLY with valid JSON.`

// Build returns the prompt for text. It is a pure function of its input.
func Build(text string) string {
	t := Truncate(text)
	var b strings.Builder
	b.Grow(len(header) + len(t) + len(schema))
	b.WriteString(header)
	b.WriteString(t)
	b.WriteString(schema)
	return b.String()
}

// Truncate keeps the first MaxResumeChars characters of text.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxResumeChars {
		return text
	}
	n := 0
	for i := range text {
		if n == MaxResumeChars {
			return text[:i]
		}
		n++
	}
	return text
}

// Embedded returns the resume segment of a prompt produced by Build.
func Embedded(p string) (string, bool) {
	if !strings.HasPrefix(p, header) || !strings.HasSuffix(p, schema) {
		return "", false
	}
	return p[len(header) : len(p)-len(schema)], true
}
