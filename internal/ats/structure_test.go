package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t testing.TB, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e
}

func TestAnalyzeStructure(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name        string
		resume      string
		wantScore   int
		wantFound   []string
		wantMissing []string
		wantOrder   bool
	}{
		{
			name:        "complete resume",
			resume:      readFixture(t, "resume_strong.txt"),
			wantScore:   100,
			wantFound:   []string{SectionSummary, SectionExperience, SectionEducation, SectionSkills},
			wantMissing: []string{},
			wantOrder:   true,
		},
		{
			name:        "experience and education in order without contact",
			resume:      "Experience\nBuilt things\n\nEducation\nB.A. History",
			wantScore:   45,
			wantFound:   []string{SectionExperience, SectionEducation},
			wantMissing: []string{SectionSummary, SectionSkills},
			wantOrder:   true,
		},
		{
			name:        "education before experience",
			resume:      "Education\nB.A. History\n\nWork History\nBuilt things",
			wantScore:   35,
			wantFound:   []string{SectionExperience, SectionEducation},
			wantMissing: []string{SectionSummary, SectionSkills},
			wantOrder:   false,
		},
		{
			name:        "single section earns no order bonus",
			resume:      "jane@example.com\nSKILLS & TOOLS\nGo, SQL",
			wantScore:   38,
			wantFound:   []string{SectionSkills},
			wantMissing: []string{SectionSummary, SectionExperience, SectionEducation},
			wantOrder:   false,
		},
		{
			name:        "empty",
			resume:      "  ",
			wantScore:   0,
			wantFound:   []string{},
			wantMissing: []string{SectionSummary, SectionExperience, SectionEducation, SectionSkills},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.AnalyzeStructure(tt.resume)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantFound, got.FoundSections)
			assert.Equal(t, tt.wantMissing, got.MissingSections)
			assert.Equal(t, tt.wantOrder, got.InOrder)
		})
	}
}

func TestSectionHeader(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		line    string
		want    string
		wantHit bool
	}{
		{"## Work Experience", SectionExperience, true},
		{"SKILLS & TOOLS", SectionSkills, true},
		{"Education:", SectionEducation, true},
		{"**Professional Summary**", SectionSummary, true},
		{"Education and Training", SectionEducation, true},
		{"Experience with Kubernetes and Terraform", "", false},
		{"I have experience.", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := e.sectionHeader(tt.line)
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContactPredicates(t *testing.T) {
	tests := []struct {
		text      string
		wantEmail bool
		wantPhone bool
	}{
		{"jane.doe@example.com", true, false},
		{"(555) 123-4567", false, true},
		{"+1 415 555 0100", false, true},
		{"2019 - 2021", false, false},
		{"Call 555-1234", false, false},
		{"jane@x.io | 555.123.4567", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.wantEmail, hasEmail(tt.text))
			assert.Equal(t, tt.wantPhone, hasPhone(tt.text))
		})
	}
}
