package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScore() ats.ATSScore {
	return ats.ATSScore{
		Overall:         78,
		Breakdown:       ats.Breakdown{KeywordMatch: 80, Formatting: 90, Structure: 75, Readability: 60},
		Details:         ats.Details{TotalKeywords: 5, MatchedCount: 4, MatchPercentage: 80},
		MatchedKeywords: []string{"go", "kubernetes", "postgresql", "terraform"},
		MissingKeywords: []string{"kafka"},
		Improvements:    []string{"Add missing keywords: kafka"},
	}
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, ValidateScore(validScore()))
}

func TestValidateScoreEngineOutput(t *testing.T) {
	score, err := ats.CalculateATSScore("Summary\nBuilt Go services.\n\nSkills\n- Go\n- SQL", "We need Go and SQL experience.")
	require.NoError(t, err)
	assert.NoError(t, ValidateScore(score))
}

func TestValidateScoreJSONAcceptsVerdictFields(t *testing.T) {
	doc := `{"overall":71,"breakdown":{"keywordMatch":70,"formatting":80,"structure":75,"readability":55},` +
		`"details":{"totalKeywords":2,"matchedCount":1,"matchPercentage":50},` +
		`"matchedKeywords":["go"],"missingKeywords":["kafka"],"improvements":[],` +
		`"id":"0d1f6a0e-7c55-4c1a-9d9e-5a1b2c3d4e5f","passed":true,"threshold":70}`
	assert.NoError(t, ValidateScoreJSON([]byte(doc)))
}

func TestValidateScoreRejectsOutOfRange(t *testing.T) {
	score := validScore()
	score.Overall = 140
	score.Breakdown.Readability = -1

	err := ValidateScore(score)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "overall")
	assert.Contains(t, fields, "breakdown.readability")
}

func TestValidateScoreRejectsNullLists(t *testing.T) {
	score := validScore()
	score.Improvements = nil

	err := ValidateScore(score)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "improvements", verr.Errors[0].Field)
}

func TestValidateScoreJSON(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantLoad bool
		wantErr  bool
	}{
		{
			name:     "missing required fields",
			document: `{"overall": 50}`,
			wantErr:  true,
		},
		{
			name:     "unknown property",
			document: `{"overall":1,"breakdown":{"keywordMatch":1,"formatting":1,"structure":1,"readability":1},"details":{"totalKeywords":0,"matchedCount":0,"matchPercentage":0},"matchedKeywords":[],"missingKeywords":[],"improvements":[],"extra":true}`,
			wantErr:  true,
		},
		{
			name:     "duplicate matched keywords",
			document: `{"overall":1,"breakdown":{"keywordMatch":1,"formatting":1,"structure":1,"readability":1},"details":{"totalKeywords":2,"matchedCount":2,"matchPercentage":100},"matchedKeywords":["go","go"],"missingKeywords":[],"improvements":[]}`,
			wantErr:  true,
		},
		{
			name:     "not json",
			document: `{overall`,
			wantLoad: true,
		},
		{
			name:     "minimal valid",
			document: `{"overall":1,"breakdown":{"keywordMatch":1,"formatting":1,"structure":1,"readability":1},"details":{"totalKeywords":0,"matchedCount":0,"matchPercentage":0},"matchedKeywords":[],"missingKeywords":[],"improvements":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScoreJSON([]byte(tt.document))
			switch {
			case tt.wantLoad:
				var loadErr *SchemaLoadError
				assert.ErrorAs(t, err, &loadErr)
			case tt.wantErr:
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScoreFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"overall":1,"breakdown":{"keywordMatch":1,"formatting":1,"structure":1,"readability":1},"details":{"totalKeywords":0,"matchedCount":0,"matchPercentage":0},"matchedKeywords":[],"missingKeywords":[],"improvements":[]}`), 0600))
	assert.NoError(t, ValidateScoreFile(good))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("not json"), 0600))
	err := ValidateScoreFile(broken)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, broken, loadErr.Path)

	err = ValidateScoreFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"ada"}`))

	err := ValidateJSONString(schema, `{}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
	assert.Contains(t, err.Error(), "schema validation failed")

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
