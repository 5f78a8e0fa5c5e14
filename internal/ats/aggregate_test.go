package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	weights := DefaultSettings().Weights

	tests := []struct {
		name      string
		breakdown Breakdown
		want      int
	}{
		{"all perfect", Breakdown{KeywordMatch: 100, Structure: 100, Formatting: 100, Readability: 100}, 100},
		{"all zero", Breakdown{}, 0},
		{"weighted mix", Breakdown{KeywordMatch: 80, Structure: 60, Formatting: 50, Readability: 40}, 63},
		{"keywords only", Breakdown{KeywordMatch: 100}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.breakdown, weights))
		})
	}
}

func TestRankImprovements(t *testing.T) {
	got := RankImprovements(70, []Deficiency{
		{Category: CategoryKeywords, Score: 60, Messages: []string{"k"}},
		{Category: CategoryStructure, Score: 40, Messages: []string{"s1", "s2"}},
		{Category: CategoryFormatting, Score: 60, Messages: []string{"f"}},
		{Category: CategoryReadability, Score: 90, Messages: []string{"r"}},
	})

	assert.Equal(t, []string{"s1", "s2", "k", "f"}, got)
}

func TestRankImprovementsFallback(t *testing.T) {
	got := RankImprovements(70, []Deficiency{
		{Category: CategoryKeywords, Score: 10, Fallback: "fallback"},
		{Category: CategoryStructure, Score: 70, Messages: []string{"at threshold"}},
	})

	assert.Equal(t, []string{"fallback"}, got)
}

func TestBuildImprovementsEmptyResumeFirst(t *testing.T) {
	got := BuildImprovements(Breakdown{}, DefaultThreshold, Findings{
		Empty:           true,
		TotalKeywords:   2,
		MissingKeywords: []string{"go", "sql"},
		MissingSections: []string{SectionSummary},
	})

	assert.Equal(t, EmptyResumeMessage, got[0])
	assert.Contains(t, got, "Add 2 missing keywords from the job description, such as: go, sql")
	assert.Contains(t, got, "Add a clearly labeled Summary section")
}

func TestBuildImprovementsNothingBelowThreshold(t *testing.T) {
	got := BuildImprovements(Breakdown{KeywordMatch: 90, Structure: 90, Formatting: 90, Readability: 90}, 70, Findings{
		MissingKeywords: []string{"go"},
		TotalKeywords:   10,
	})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildImprovementsNoKeywordFallbackWithoutKeywords(t *testing.T) {
	got := BuildImprovements(Breakdown{}, DefaultThreshold, Findings{Empty: true})

	assert.Equal(t, EmptyResumeMessage, got[0])
	assert.NotContains(t, got, "Mirror the exact wording of the job description's key skills")

	withKeywords := BuildImprovements(Breakdown{}, DefaultThreshold, Findings{TotalKeywords: 3})
	assert.Contains(t, withKeywords, "Mirror the exact wording of the job description's key skills")
}
