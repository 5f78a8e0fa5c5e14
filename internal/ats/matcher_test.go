package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"managed", "manag"},
		{"managing", "manag"},
		{"manages", "manag"},
		{"management", "manag"},
		{"manage", "manag"},
		{"processes", "process"},
		{"process", "process"},
		{"companies", "company"},
		{"apis", "api"},
		{"analysis", "analysis"},
		{"status", "status"},
		{"aws", "aws"},
		{"node.js", "node.js"},
		{"c++", "c++"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := stem(tt.token); got != tt.want {
				t.Errorf("stem(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestMatchKeywords(t *testing.T) {
	resume := Normalize("Managed a team building Node.js microservices. Led project management for payments.")
	keywords := []string{"management", "node.js", "microservices", "kubernetes", "Node.js", "project management", "payment"}

	got := MatchKeywords(resume, keywords)

	assert.Equal(t, []string{"management", "node.js", "microservices", "project management", "payment"}, got.Matched)
	assert.Equal(t, []string{"kubernetes"}, got.Missing)
}

func TestMatchKeywordsRequiresContiguousPhrase(t *testing.T) {
	resume := Normalize("Management of every project we touched")
	got := MatchKeywords(resume, []string{"project management"})

	assert.Empty(t, got.Matched)
	assert.Equal(t, []string{"project management"}, got.Missing)
}

func TestMatchKeywordsNeverNil(t *testing.T) {
	got := MatchKeywords(nil, nil)
	assert.NotNil(t, got.Matched)
	assert.NotNil(t, got.Missing)
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name           string
		matched, total int
		want           int
	}{
		{"no keywords", 0, 0, 100},
		{"none matched", 0, 4, 0},
		{"three of four", 3, 4, 75},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 67},
		{"all matched", 5, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeywordScore(tt.matched, tt.total))
		})
	}
}

func TestMatchPercentageWithoutKeywords(t *testing.T) {
	assert.Equal(t, 0, MatchPercentage(0, 0))
	assert.Equal(t, 50, MatchPercentage(1, 2))
}
