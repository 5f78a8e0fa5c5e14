package types

import (
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"
)

// ScoreResumeInput represents the input for scoring a resume
type ScoreResumeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Save           bool   `json:"save"`
}

// ScoreResumeOutput is an ATS score plus its pass verdict. ID is set only
// when the score was saved.
type ScoreResumeOutput struct {
	ats.ATSScore
	ID        string `json:"id,omitempty"`
	Passed    bool   `json:"passed"`
	Threshold int    `json:"threshold"`
}

// ScoreCoverLetterInput represents the input for scoring a cover letter
type ScoreCoverLetterInput struct {
	CoverLetterText string `json:"coverLetterText"`
	JobDescription  string `json:"jobDescription"`
}

// ScoreCoverLetterOutput is a cover letter score plus its pass verdict
type ScoreCoverLetterOutput struct {
	ats.CoverLetterScore
	Passed    bool `json:"passed"`
	Threshold int  `json:"threshold"`
}

// ScoreInterviewInput represents the input for scoring an interview answer
type ScoreInterviewInput struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// ScoreInterviewOutput is an interview answer score plus its pass verdict
type ScoreInterviewOutput struct {
	ats.InterviewScore
	Passed    bool `json:"passed"`
	Threshold int  `json:"threshold"`
}

// ExtractKeywordsInput represents the input for keyword extraction
type ExtractKeywordsInput struct {
	JobDescription string `json:"jobDescription"`
}

// KeywordsOutput lists the keywords a job description is scored against.
// Source is "job" when taken from the description, "generic" otherwise.
type KeywordsOutput struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
	Source   string   `json:"source"`
}

// BatchItem is one resume in a batch request
type BatchItem struct {
	ID         string `json:"id" validate:"omitempty,max=128"`
	ResumeText string `json:"resumeText"`
}

// BatchScoreInput scores many resumes against one job description
type BatchScoreInput struct {
	JobDescription string      `json:"jobDescription"`
	Items          []BatchItem `json:"items" validate:"required,min=1,dive"`
	Save           bool        `json:"save"`
}

// BatchItemResult holds the score or the error for one batch item
type BatchItemResult struct {
	ID     string             `json:"id"`
	Score  *ScoreResumeOutput `json:"score,omitempty"`
	Error  string             `json:"error,omitempty"`
	Passed bool               `json:"passed"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Total        int `json:"total"`
	Scored       int `json:"scored"`
	Failed       int `json:"failed"`
	Passed       int `json:"passed"`
	AverageScore int `json:"averageScore"`
}

// BatchScoreOutput holds per-item results in request order
type BatchScoreOutput struct {
	RequestID string            `json:"requestId"`
	Results   []BatchItemResult `json:"results"`
	Summary   BatchSummary      `json:"summary"`
}

// StoredScore is a saved score as returned by history lookups
type StoredScore struct {
	ID             string       `json:"id"`
	CreatedAt      time.Time    `json:"createdAt"`
	JobDescription string       `json:"jobDescription,omitempty"`
	Score          ats.ATSScore `json:"score"`
}

// ScoreHistoryOutput lists saved scores, newest first
type ScoreHistoryOutput struct {
	Scores []StoredScore `json:"scores"`
	Count  int           `json:"count"`
}

// ValidationReport is the result of checking a score document against the
// ATS score schema
type ValidationReport struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
