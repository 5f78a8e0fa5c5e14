package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "resume.txt")
	writeFile(t, small, "Summary\nGo developer\n")

	tests := []struct {
		name    string
		file    string
		maxSize int64
		wantErr string
	}{
		{name: "readable file", file: small},
		{name: "within limit", file: small, maxSize: 1024},
		{name: "empty name", file: "", wantErr: "filename cannot be empty"},
		{name: "missing", file: filepath.Join(dir, "nope.txt"), wantErr: "file does not exist"},
		{name: "directory", file: dir, wantErr: "path is a directory"},
		{name: "too large", file: small, maxSize: 4, wantErr: "limit is 4 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.file, tt.maxSize)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "nested", "score.json")

	require.NoError(t, ValidateOutputFile(target))
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, ValidateOutputFile(""))
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "a.md"), "a")
	writeFile(t, filepath.Join(dir, "photo.png"), "png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0750))
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "c")

	extra := filepath.Join(t.TempDir(), "extra.pdf")
	writeFile(t, extra, "pdf")

	files, err := ExpandInputs([]string{dir, extra, filepath.Join(dir, "b.txt")})
	require.NoError(t, err)

	expected := []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.txt"), extra}
	assert.ElementsMatch(t, expected, files)
	assert.Len(t, files, 3)

	_, err = ExpandInputs([]string{filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "cannot access")
}

func TestIsTextFile(t *testing.T) {
	assert.True(t, IsTextFile("resume.TXT"))
	assert.True(t, IsTextFile("notes.markdown"))
	assert.False(t, IsTextFile("resume.pdf"))
	assert.False(t, IsTextFile("README"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", FormatFileSize(2*1024*1024))
}
