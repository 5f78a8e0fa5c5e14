package formatters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreOutput() types.ScoreResumeOutput {
	return types.ScoreResumeOutput{
		ATSScore: ats.ATSScore{
			Overall:         64,
			Breakdown:       ats.Breakdown{KeywordMatch: 50, Formatting: 80, Structure: 75, Readability: 55},
			Details:         ats.Details{TotalKeywords: 4, MatchedCount: 2, MatchPercentage: 50},
			MatchedKeywords: []string{"go", "docker"},
			MissingKeywords: []string{"kafka", "terraform"},
			Improvements:    []string{"Add missing keywords: kafka, terraform"},
		},
		Passed:    false,
		Threshold: 70,
	}
}

func TestJSONFormatterInlinesScore(t *testing.T) {
	out, err := GlobalRegistry.Format(scoreOutput(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(64), decoded["overall"])
	assert.Equal(t, false, decoded["passed"])
	assert.NotContains(t, decoded, "id")
}

func TestScoreFormatters(t *testing.T) {
	text, err := GlobalRegistry.Format(scoreOutput(), "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Overall: 64/100 (BELOW THRESHOLD, threshold 70)")
	assert.Contains(t, text, "Matched 2 of 4 (50%)")
	assert.Contains(t, text, "Missing: kafka, terraform")
	assert.Contains(t, text, "1. Add missing keywords: kafka, terraform")

	md, err := GlobalRegistry.Format(scoreOutput(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "# ATS Score")
	assert.Contains(t, md, "| Keyword match | 50 |")
}

func TestScoreTextShowsSavedID(t *testing.T) {
	out := scoreOutput()
	out.ID = "0d1f6a0e-7c55-4c1a-9d9e-5a1b2c3d4e5f"
	out.Passed = true

	text, err := GlobalRegistry.Format(out, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Saved as: "+out.ID)
	assert.Contains(t, text, "(PASS, threshold 70)")
}

func TestInterviewFormatterListsStarComponents(t *testing.T) {
	out := types.ScoreInterviewOutput{
		InterviewScore: ats.InterviewScore{
			Overall:        55,
			StarComponents: ats.StarComponents{Situation: true, Action: true},
			Improvements:   []string{},
		},
		Threshold: 70,
	}

	text, err := GlobalRegistry.Format(out, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "(Situation, Action)")
	assert.Contains(t, text, "No improvements needed.")
}

func TestBatchFormatters(t *testing.T) {
	score := scoreOutput()
	out := types.BatchScoreOutput{
		RequestID: "req-1",
		Results: []types.BatchItemResult{
			{ID: "alice.txt", Score: &score},
			{ID: "bob.txt", Error: "resumeText: text is not valid UTF-8"},
		},
		Summary: types.BatchSummary{Total: 2, Scored: 1, Failed: 1, AverageScore: 64},
	}

	text, err := GlobalRegistry.Format(out, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "alice.txt: 64/100 (BELOW THRESHOLD)")
	assert.Contains(t, text, "bob.txt: ERROR resumeText")
	assert.Contains(t, text, "Total: 2, scored: 1, failed: 1, passed: 0")

	md, err := GlobalRegistry.Format(out, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| alice.txt | 64 | BELOW THRESHOLD |")
}

func TestHistoryAndKeywordFormatters(t *testing.T) {
	history := types.ScoreHistoryOutput{
		Scores: []types.StoredScore{{
			ID:        "abc",
			CreatedAt: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
			Score:     scoreOutput().ATSScore,
		}},
		Count: 1,
	}
	text, err := GlobalRegistry.Format(history, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "2026-05-04 09:30  abc  64/100")

	keywords, err := GlobalRegistry.Format(types.KeywordsOutput{Keywords: []string{"go", "sql"}, Count: 2, Source: "job"}, "text")
	require.NoError(t, err)
	assert.Contains(t, keywords, "- go\n- sql\n")
}

func TestValidationReportFormatter(t *testing.T) {
	text, err := GlobalRegistry.Format(types.ValidationReport{File: "score.json", Valid: true}, "text")
	require.NoError(t, err)
	assert.Equal(t, "score.json: valid\n", text)

	text, err = GlobalRegistry.Format(types.ValidationReport{
		File:   "score.json",
		Errors: []string{"overall: Must be less than or equal to 100"},
	}, "markdown")
	require.NoError(t, err)
	assert.Contains(t, text, "score.json: invalid\n- overall")
}

func TestUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(scoreOutput(), "xml")
	assert.ErrorContains(t, err, "no formatter found for format 'xml'")
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, GlobalRegistry.GetSupportedFormats())
}

func TestFormatterTypeMismatch(t *testing.T) {
	_, err := (&ScoreTextFormatter{}).Format(types.KeywordsOutput{})
	assert.ErrorContains(t, err, "expected ScoreResumeOutput")
}
