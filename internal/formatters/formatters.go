package formatters

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScoreResumeOutput", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreResumeOutput", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreCoverLetterOutput", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreCoverLetterOutput", &CoverLetterMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreInterviewOutput", &InterviewTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreInterviewOutput", &InterviewMarkdownFormatter{})
	registry.RegisterFormatter("text", "KeywordsOutput", &KeywordsTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordsOutput", &KeywordsMarkdownFormatter{})
	registry.RegisterFormatter("text", "BatchScoreOutput", &BatchTextFormatter{})
	registry.RegisterFormatter("markdown", "BatchScoreOutput", &BatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreHistoryOutput", &HistoryTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreHistoryOutput", &HistoryMarkdownFormatter{})
	registry.RegisterFormatter("text", "ValidationReport", &ValidationTextFormatter{})
	registry.RegisterFormatter("markdown", "ValidationReport", &ValidationTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	return slices.Sorted(maps.Keys(fr.formatters))
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScoreResumeOutput:
		return "ScoreResumeOutput"
	case types.ScoreCoverLetterOutput:
		return "ScoreCoverLetterOutput"
	case types.ScoreInterviewOutput:
		return "ScoreInterviewOutput"
	case types.KeywordsOutput:
		return "KeywordsOutput"
	case types.BatchScoreOutput:
		return "BatchScoreOutput"
	case types.ScoreHistoryOutput:
		return "ScoreHistoryOutput"
	case types.ValidationReport:
		return "ValidationReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func verdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "BELOW THRESHOLD"
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// writeBullets writes items as "- item" lines, or a placeholder when empty
func writeBullets(out *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(out, "%s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
}

func writeNumbered(out *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(out, "%s\n", empty)
		return
	}
	for i, item := range items {
		fmt.Fprintf(out, "%d. %s\n", i+1, item)
	}
}

// ScoreTextFormatter handles text formatting for resume scores
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS SCORE ===\n")
	fmt.Fprintf(&output, "Overall: %d/100 (%s, threshold %d)\n", result.Overall, verdict(result.Passed), result.Threshold)
	if result.ID != "" {
		fmt.Fprintf(&output, "Saved as: %s\n", result.ID)
	}
	output.WriteString("\n=== BREAKDOWN ===\n")
	fmt.Fprintf(&output, "Keyword match: %d/100\n", result.Breakdown.KeywordMatch)
	fmt.Fprintf(&output, "Formatting:    %d/100\n", result.Breakdown.Formatting)
	fmt.Fprintf(&output, "Structure:     %d/100\n", result.Breakdown.Structure)
	fmt.Fprintf(&output, "Readability:   %d/100\n", result.Breakdown.Readability)

	output.WriteString("\n=== KEYWORDS ===\n")
	fmt.Fprintf(&output, "Matched %d of %d (%d%%)\n", result.Details.MatchedCount, result.Details.TotalKeywords, result.Details.MatchPercentage)
	fmt.Fprintf(&output, "Matched: %s\n", orNone(result.MatchedKeywords))
	fmt.Fprintf(&output, "Missing: %s\n", orNone(result.MissingKeywords))

	output.WriteString("\n=== IMPROVEMENTS ===\n")
	writeNumbered(&output, result.Improvements, "No improvements needed.")

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreResumeOutput"
}

// ScoreMarkdownFormatter handles markdown formatting for resume scores
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Score\n\n")
	fmt.Fprintf(&output, "**Overall:** %d/100 (%s, threshold %d)\n\n", result.Overall, verdict(result.Passed), result.Threshold)
	if result.ID != "" {
		fmt.Fprintf(&output, "**Saved as:** `%s`\n\n", result.ID)
	}

	output.WriteString("## Breakdown\n\n")
	output.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&output, "| Keyword match | %d |\n", result.Breakdown.KeywordMatch)
	fmt.Fprintf(&output, "| Formatting | %d |\n", result.Breakdown.Formatting)
	fmt.Fprintf(&output, "| Structure | %d |\n", result.Breakdown.Structure)
	fmt.Fprintf(&output, "| Readability | %d |\n\n", result.Breakdown.Readability)

	output.WriteString("## Keywords\n\n")
	fmt.Fprintf(&output, "Matched %d of %d (%d%%)\n\n", result.Details.MatchedCount, result.Details.TotalKeywords, result.Details.MatchPercentage)
	fmt.Fprintf(&output, "**Matched:** %s\n\n", orNone(result.MatchedKeywords))
	fmt.Fprintf(&output, "**Missing:** %s\n\n", orNone(result.MissingKeywords))

	output.WriteString("## Improvements\n\n")
	writeNumbered(&output, result.Improvements, "No improvements needed.")

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreResumeOutput"
}

// CoverLetterTextFormatter handles text formatting for cover letter scores
type CoverLetterTextFormatter struct{}

func (ctf *CoverLetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreCoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreCoverLetterOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COVER LETTER SCORE ===\n")
	fmt.Fprintf(&output, "Overall: %d/100 (%s, threshold %d)\n", result.Overall, verdict(result.Passed), result.Threshold)
	output.WriteString("\n=== BREAKDOWN ===\n")
	fmt.Fprintf(&output, "Keyword match:   %d/100\n", result.Breakdown.KeywordMatch)
	fmt.Fprintf(&output, "Structure:       %d/100\n", result.Breakdown.Structure)
	fmt.Fprintf(&output, "Personalization: %d/100\n", result.Breakdown.Personalization)
	fmt.Fprintf(&output, "Readability:     %d/100\n", result.Breakdown.Readability)

	output.WriteString("\n=== KEYWORDS ===\n")
	fmt.Fprintf(&output, "Matched: %s\n", orNone(result.MatchedKeywords))
	fmt.Fprintf(&output, "Missing: %s\n", orNone(result.MissingKeywords))

	output.WriteString("\n=== IMPROVEMENTS ===\n")
	writeNumbered(&output, result.Improvements, "No improvements needed.")

	return output.String(), nil
}

func (ctf *CoverLetterTextFormatter) SupportedType() string {
	return "ScoreCoverLetterOutput"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover letter scores
type CoverLetterMarkdownFormatter struct{}

func (cmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreCoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreCoverLetterOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Cover Letter Score\n\n")
	fmt.Fprintf(&output, "**Overall:** %d/100 (%s, threshold %d)\n\n", result.Overall, verdict(result.Passed), result.Threshold)
	output.WriteString("## Breakdown\n\n")
	output.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&output, "| Keyword match | %d |\n", result.Breakdown.KeywordMatch)
	fmt.Fprintf(&output, "| Structure | %d |\n", result.Breakdown.Structure)
	fmt.Fprintf(&output, "| Personalization | %d |\n", result.Breakdown.Personalization)
	fmt.Fprintf(&output, "| Readability | %d |\n\n", result.Breakdown.Readability)

	output.WriteString("## Improvements\n\n")
	writeNumbered(&output, result.Improvements, "No improvements needed.")

	return output.String(), nil
}

func (cmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "ScoreCoverLetterOutput"
}

func starLine(result types.ScoreInterviewOutput) string {
	var present []string
	c := result.StarComponents
	for _, part := range []struct {
		name string
		ok   bool
	}{
		{"Situation", c.Situation},
		{"Task", c.Task},
		{"Action", c.Action},
		{"Result", c.Result},
	} {
		if part.ok {
			present = append(present, part.name)
		}
	}
	return orNone(present)
}

// InterviewTextFormatter handles text formatting for interview answer scores
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreInterviewOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreInterviewOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW ANSWER SCORE ===\n")
	fmt.Fprintf(&output, "Overall: %d/100 (%s, threshold %d)\n", result.Overall, verdict(result.Passed), result.Threshold)
	fmt.Fprintf(&output, "Words: %d\n", result.WordCount)
	output.WriteString("\n=== BREAKDOWN ===\n")
	fmt.Fprintf(&output, "STAR:        %d/100 (%s)\n", result.Breakdown.Star, starLine(result))
	fmt.Fprintf(&output, "Relevance:   %d/100\n", result.Breakdown.Relevance)
	fmt.Fprintf(&output, "Specificity: %d/100\n", result.Breakdown.Specificity)
	fmt.Fprintf(&output, "Delivery:    %d/100\n", result.Breakdown.Delivery)

	output.WriteString("\n=== QUESTION TERMS ===\n")
	fmt.Fprintf(&output, "Addressed: %s\n", orNone(result.MatchedTerms))
	fmt.Fprintf(&output, "Missing:   %s\n", orNone(result.MissingTerms))

	output.WriteString("\n=== IMPROVEMENTS ===\n")
	writeNumbered(&output, result.Improvements, "No improvements needed.")

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "ScoreInterviewOutput"
}

// InterviewMarkdownFormatter handles markdown formatting for interview answer scores
type InterviewMarkdownFormatter struct{}

func (imf *InterviewMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreInterviewOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreInterviewOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Answer Score\n\n")
	fmt.Fprintf(&output, "**Overall:** %d/100 (%s, threshold %d)\n\n", result.Overall, verdict(result.Passed), result.Threshold)
	fmt.Fprintf(&output, "**STAR components:** %s\n\n", starLine(result))
	output.WriteString("## Breakdown\n\n")
	output.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&output, "| STAR | %d |\n", result.Breakdown.Star)
	fmt.Fprintf(&output, "| Relevance | %d |\n", result.Breakdown.Relevance)
	fmt.Fprintf(&output, "| Specificity | %d |\n", result.Breakdown.Specificity)
	fmt.Fprintf(&output, "| Delivery | %d |\n\n", result.Breakdown.Delivery)

	output.WriteString("## Improvements\n\n")
	writeNumbered(&output, result.Improvements, "No improvements needed.")

	return output.String(), nil
}

func (imf *InterviewMarkdownFormatter) SupportedType() string {
	return "ScoreInterviewOutput"
}

// KeywordsTextFormatter handles text formatting for extracted keywords
type KeywordsTextFormatter struct{}

func (ktf *KeywordsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.KeywordsOutput)
	if !ok {
		return "", fmt.Errorf("expected KeywordsOutput, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== KEYWORDS (%d, %s) ===\n", result.Count, result.Source)
	writeBullets(&output, result.Keywords, "No keywords found.")
	return output.String(), nil
}

func (ktf *KeywordsTextFormatter) SupportedType() string {
	return "KeywordsOutput"
}

// KeywordsMarkdownFormatter handles markdown formatting for extracted keywords
type KeywordsMarkdownFormatter struct{}

func (kmf *KeywordsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.KeywordsOutput)
	if !ok {
		return "", fmt.Errorf("expected KeywordsOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Keywords\n\n")
	fmt.Fprintf(&output, "**Count:** %d (source: %s)\n\n", result.Count, result.Source)
	writeBullets(&output, result.Keywords, "No keywords found.")
	return output.String(), nil
}

func (kmf *KeywordsMarkdownFormatter) SupportedType() string {
	return "KeywordsOutput"
}

// BatchTextFormatter handles text formatting for batch results
type BatchTextFormatter struct{}

func (btf *BatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BatchScoreOutput)
	if !ok {
		return "", fmt.Errorf("expected BatchScoreOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== BATCH SCORES ===\n")
	fmt.Fprintf(&output, "Request: %s\n\n", result.RequestID)
	for _, item := range result.Results {
		if item.Error != "" {
			fmt.Fprintf(&output, "%s: ERROR %s\n", item.ID, item.Error)
			continue
		}
		fmt.Fprintf(&output, "%s: %d/100 (%s)\n", item.ID, item.Score.Overall, verdict(item.Passed))
	}

	s := result.Summary
	output.WriteString("\n=== SUMMARY ===\n")
	fmt.Fprintf(&output, "Total: %d, scored: %d, failed: %d, passed: %d\n", s.Total, s.Scored, s.Failed, s.Passed)
	fmt.Fprintf(&output, "Average score: %d/100\n", s.AverageScore)

	return output.String(), nil
}

func (btf *BatchTextFormatter) SupportedType() string {
	return "BatchScoreOutput"
}

// BatchMarkdownFormatter handles markdown formatting for batch results
type BatchMarkdownFormatter struct{}

func (bmf *BatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BatchScoreOutput)
	if !ok {
		return "", fmt.Errorf("expected BatchScoreOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Batch Scores\n\n")
	output.WriteString("| Resume | Overall | Result |\n|---|---|---|\n")
	for _, item := range result.Results {
		if item.Error != "" {
			fmt.Fprintf(&output, "| %s | - | error: %s |\n", item.ID, item.Error)
			continue
		}
		fmt.Fprintf(&output, "| %s | %d | %s |\n", item.ID, item.Score.Overall, verdict(item.Passed))
	}

	s := result.Summary
	fmt.Fprintf(&output, "\n**Passed:** %d of %d, **average:** %d/100\n", s.Passed, s.Total, s.AverageScore)

	return output.String(), nil
}

func (bmf *BatchMarkdownFormatter) SupportedType() string {
	return "BatchScoreOutput"
}

// HistoryTextFormatter handles text formatting for saved score listings
type HistoryTextFormatter struct{}

func (htf *HistoryTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreHistoryOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreHistoryOutput, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== SAVED SCORES (%d) ===\n", result.Count)
	if len(result.Scores) == 0 {
		output.WriteString("No saved scores.\n")
	}
	for _, stored := range result.Scores {
		fmt.Fprintf(&output, "%s  %s  %d/100  missing: %s\n",
			stored.CreatedAt.Format("2006-01-02 15:04"), stored.ID, stored.Score.Overall, orNone(stored.Score.MissingKeywords))
	}
	return output.String(), nil
}

func (htf *HistoryTextFormatter) SupportedType() string {
	return "ScoreHistoryOutput"
}

// HistoryMarkdownFormatter handles markdown formatting for saved score listings
type HistoryMarkdownFormatter struct{}

func (hmf *HistoryMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreHistoryOutput)
	if !ok {
		return "", fmt.Errorf("expected ScoreHistoryOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Saved Scores\n\n")
	output.WriteString("| Created | ID | Overall |\n|---|---|---|\n")
	for _, stored := range result.Scores {
		fmt.Fprintf(&output, "| %s | `%s` | %d |\n",
			stored.CreatedAt.Format("2006-01-02 15:04"), stored.ID, stored.Score.Overall)
	}
	return output.String(), nil
}

func (hmf *HistoryMarkdownFormatter) SupportedType() string {
	return "ScoreHistoryOutput"
}

// ValidationTextFormatter renders schema validation reports
type ValidationTextFormatter struct{}

func (vtf *ValidationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ValidationReport)
	if !ok {
		return "", fmt.Errorf("expected ValidationReport, got %T", data)
	}

	var output strings.Builder
	if result.Valid {
		fmt.Fprintf(&output, "%s: valid\n", result.File)
		return output.String(), nil
	}
	fmt.Fprintf(&output, "%s: invalid\n", result.File)
	writeBullets(&output, result.Errors, "")
	return output.String(), nil
}

func (vtf *ValidationTextFormatter) SupportedType() string {
	return "ValidationReport"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
