package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBankFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadBankFileYAML(t *testing.T) {
	path := writeBankFile(t, "bank.yaml", `technical:
  - haskell
  - ocaml
sections:
  skills:
    - toolbox
`)

	bank, err := LoadBankFile(path)
	require.NoError(t, err)

	defaults := ats.DefaultBank()
	assert.Equal(t, []string{"haskell", "ocaml"}, bank.Technical)
	assert.Equal(t, []string{"toolbox"}, bank.Sections[ats.SectionSkills])
	assert.Equal(t, defaults.Sections[ats.SectionSummary], bank.Sections[ats.SectionSummary])
	assert.Equal(t, defaults.Generic, bank.Generic)
	assert.Equal(t, defaults.ActionVerbs, bank.ActionVerbs)
}

func TestLoadBankFileJSON(t *testing.T) {
	path := writeBankFile(t, "bank.json", `{"softSkills": ["diplomacy"], "fillerWords": ["like"]}`)

	bank, err := LoadBankFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"diplomacy"}, bank.SoftSkills)
	assert.Equal(t, []string{"like"}, bank.FillerWords)
	assert.Equal(t, ats.DefaultBank().Technical, bank.Technical)
}

func TestLoadBankFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: "keyword bank file not found",
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeBankFile(t, "bank.toml", "technical = []") },
			wantErr: "unsupported keyword bank format",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeBankFile(t, "bank.yaml", "  \n") },
			wantErr: "is empty",
		},
		{
			name:    "malformed yaml",
			path:    func(t *testing.T) string { return writeBankFile(t, "bank.yaml", "technical: [unclosed") },
			wantErr: "failed to parse keyword bank file",
		},
		{
			name:    "blank keyword",
			path:    func(t *testing.T) string { return writeBankFile(t, "bank.yaml", "technical:\n  - \"  \"\n") },
			wantErr: "empty keyword entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBankFile(tt.path(t))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeBankKeepsBaseForEmptyOverrides(t *testing.T) {
	base := ats.DefaultBank()
	merged := mergeBank(ats.DefaultBank(), ats.KeywordBank{
		StarCues: map[string][]string{"Result": {"shipped"}},
	})

	assert.Equal(t, base.Technical, merged.Technical)
	assert.Equal(t, []string{"shipped"}, merged.StarCues[ats.StarResult])
	assert.Equal(t, base.StarCues[ats.StarTask], merged.StarCues[ats.StarTask])
}
