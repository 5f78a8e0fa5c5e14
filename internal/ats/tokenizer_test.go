package ats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "symbol suffix languages",
			input: "Senior C++ and C# developer",
			want:  []string{"senior", "c++", "and", "c#", "developer"},
		},
		{
			name:  "dotted framework names",
			input: "Node.js, React/Redux and .NET Core 3.1",
			want:  []string{"node.js", "react", "redux", "and", ".net", "core", "3.1"},
		},
		{
			name:  "short slash pairs stay whole",
			input: "Owned CI/CD and TCP/IP tuning",
			want:  []string{"owned", "ci/cd", "and", "tcp/ip", "tuning"},
		},
		{
			name:  "apostrophes are dropped",
			input: "The team's roadmap",
			want:  []string{"the", "teams", "roadmap"},
		},
		{
			name:  "hyphenated words split",
			input: "cross-team, real-time",
			want:  []string{"cross", "team", "real", "time"},
		},
		{
			name:  "sentence punctuation trimmed",
			input: "Shipped v2.0.1. Then rested...",
			want:  []string{"shipped", "v2.0.1", "then", "rested"},
		},
		{
			name:  "stray plus signs dropped",
			input: "Grade A+ student",
			want:  []string{"grade", "a", "student"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize("  \n\t ... ,;"))
}

func TestIsTechnicalToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"c++", true},
		{"f#", true},
		{"node.js", true},
		{"asp.net", true},
		{".net", true},
		{"ci/cd", true},
		{"1.2.3", true},
		{"v10.4", true},
		{"react/redux", false},
		{"hello", false},
		{"e.g", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := isTechnicalToken(tt.token); got != tt.want {
				t.Errorf("isTechnicalToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	text := strings.Repeat(readFixture(b, "resume_strong.txt"), 20)
	b.ReportAllocs()
	for b.Loop() {
		Normalize(text)
	}
}
