package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultBank(), DefaultMaxKeywords)
}

func TestExtractKeywordsPrefersLongerPhrases(t *testing.T) {
	jd := "Strong project management skills. Project management experience required. Management of vendors."

	got := newTestExtractor().ExtractKeywords(jd)

	require.NotEmpty(t, got)
	assert.Equal(t, "project management", got[0])
	assert.Contains(t, got, "management")
	assert.NotContains(t, got, "vendors")
}

func TestExtractKeywordsFreeTerms(t *testing.T) {
	jd := "We build payments infrastructure. Payments reliability matters. Our payments team owns reliability."

	got := newTestExtractor().ExtractKeywords(jd)

	assert.Equal(t, []string{"payments", "reliability"}, got)
}

func TestExtractKeywordsRanking(t *testing.T) {
	tests := []struct {
		name string
		jd   string
		want []string
	}{
		{
			name: "technical outranks soft skill at equal frequency",
			jd:   "Teamwork matters here, and so does Python.",
			want: []string{"python", "teamwork"},
		},
		{
			name: "ties broken by first occurrence",
			jd:   "Kubernetes and Docker experience.",
			want: []string{"kubernetes", "docker"},
		},
		{
			name: "frequency raises rank",
			jd:   "Docker, Kubernetes operators, Kubernetes operators and more Kubernetes.",
			want: []string{"kubernetes", "docker", "operators"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newTestExtractor().ExtractKeywords(tt.jd))
		})
	}
}

func TestExtractKeywordsCapsAtMax(t *testing.T) {
	bank := DefaultBank()
	jd := strings.Join(bank.Technical, ", ")

	got := NewExtractor(bank, 25).ExtractKeywords(jd)
	assert.Len(t, got, 25)

	got = NewExtractor(bank, 5).ExtractKeywords(jd)
	assert.Len(t, got, 5)
}

func TestExtractKeywordsGenericFallback(t *testing.T) {
	e := newTestExtractor()

	empty := e.ExtractKeywords("")
	blank := e.ExtractKeywords(" \n\t ")

	assert.Len(t, empty, 50)
	assert.Equal(t, empty, blank)
	assert.Equal(t, "communication", empty[0])

	// The fallback must be a copy.
	empty[0] = "mutated"
	assert.Equal(t, "communication", e.ExtractKeywords("")[0])
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	jd := readFixture(t, "job_backend.txt")
	e := newTestExtractor()

	first := e.ExtractKeywords(jd)
	for range 10 {
		assert.Equal(t, first, e.ExtractKeywords(jd))
	}
	assert.Equal(t, "distributed systems", first[0])
	assert.Equal(t, "backend", first[1])
}

func TestExtractKeywordsAreUnique(t *testing.T) {
	jd := readFixture(t, "job_backend.txt")
	seen := map[string]bool{}
	for _, k := range newTestExtractor().ExtractKeywords(jd) {
		assert.False(t, seen[strings.ToLower(k)], "duplicate keyword %q", k)
		seen[strings.ToLower(k)] = true
	}
}

func BenchmarkExtractKeywords(b *testing.B) {
	jd := readFixture(b, "job_backend.txt")
	e := newTestExtractor()
	b.ReportAllocs()
	for b.Loop() {
		e.ExtractKeywords(jd)
	}
}
