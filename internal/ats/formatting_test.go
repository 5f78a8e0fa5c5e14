package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	bulletedExperience = `- Built a payment service in Go handling 2 million requests per day
- Optimized PostgreSQL queries and cut report latency by 40 percent
- Led a team of five engineers through a cloud migration to AWS`

	proseExperience = `I was responsible for a payment service in Go that was built to handle 2 million requests per day and my work also included queries for PostgreSQL where report latency was reduced by 40 percent and I was leading a team of five engineers through a cloud migration to AWS.`
)

func TestAnalyzeFormattingEmpty(t *testing.T) {
	got := AnalyzeFormatting(" \n ")
	assert.Equal(t, 0, got.Score)
	assert.NotNil(t, got.Issues)
}

func TestAnalyzeFormattingStrongResume(t *testing.T) {
	got := AnalyzeFormatting(readFixture(t, "resume_strong.txt"))

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, 9, got.BulletLines)
	assert.True(t, got.ContactNearTop)
	assert.Empty(t, got.Issues)
}

func TestAnalyzeFormattingBulletsVersusProse(t *testing.T) {
	bulleted := AnalyzeFormatting(bulletedExperience)
	prose := AnalyzeFormatting(proseExperience)

	// 70 base + 15 consistent bullets - 20 short
	assert.Equal(t, 65, bulleted.Score)
	// 70 base - 15 no bullets - 20 short
	assert.Equal(t, 35, prose.Score)
	assert.Contains(t, prose.Issues, IssueNoBullets)
	assert.NotContains(t, bulleted.Issues, IssueNoBullets)
}

func TestAnalyzeFormattingPenalties(t *testing.T) {
	base := readFixture(t, "resume_strong.txt")

	tests := []struct {
		name      string
		resume    string
		wantScore int
		wantIssue string
	}{
		{
			name:      "table layout",
			resume:    base + "\n| Skill | Years |\n| Go | 8 |",
			wantScore: 90,
			wantIssue: IssueTableArtifacts,
		},
		{
			name:      "control characters",
			resume:    base + "\n\x0cPage 2",
			wantScore: 90,
			wantIssue: IssueControlCharacters,
		},
		{
			name:      "decorative bullets",
			resume:    strings.ReplaceAll(base, "\n- ", "\n➤ "),
			wantScore: 95,
			wantIssue: IssueUnusualBullets,
		},
		{
			name:      "long unbroken paragraph",
			resume:    base + "\n" + strings.Repeat("lots of words here ", 20),
			wantScore: 90,
			wantIssue: IssueLongParagraphs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeFormatting(tt.resume)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Contains(t, got.Issues, tt.wantIssue)
		})
	}
}

func TestAnalyzeFormattingMixedBullets(t *testing.T) {
	resume := "- first item with words\n* second item with words\n• third item with words\n- fourth item with words"
	got := AnalyzeFormatting(resume)

	// 70 base + 5 mixed bullets - 20 short
	assert.Equal(t, 55, got.Score)
	assert.Contains(t, got.Issues, IssueMixedBullets)
}

func TestHasTableArtifact(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"| Company | Role | Years |", true},
		{"+------+------+", true},
		{"Name\tRole\tYears", true},
		{"┌──────┐", true},
		{"jane@example.com | 555-123-4567 | linkedin.com/in/jane", false},
		{"---", false},
		{"Built APIs in Go", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, hasTableArtifact(tt.line))
		})
	}
}

func TestHasControlChars(t *testing.T) {
	assert.False(t, hasControlChars("plain text\nwith\ttabs\r\n"))
	assert.True(t, hasControlChars("form\x0cfeed"))
	assert.True(t, hasControlChars("broken � glyph"))
	assert.True(t, hasControlChars("bell\x07"))
}

func TestParseBullet(t *testing.T) {
	tests := []struct {
		line        string
		wantMarker  string
		wantUnusual bool
		wantOK      bool
	}{
		{"- Built things", "-", false, true},
		{"  • Built things", "•", false, true},
		{"1. Built things", numberedBulletMarker, false, true},
		{"➤ Built things", "➤", true, true},
		{"-Built things", "", false, false},
		{"**Bold header**", "", false, false},
		{"2019 - 2021", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			b, ok := parseBullet(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMarker, b.marker)
			assert.Equal(t, tt.wantUnusual, b.unusual)
		})
	}
}
