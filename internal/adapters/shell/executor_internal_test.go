package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		sysEnv   []string
		extra    []string
		expected []string
	}{
		{
			name:     "System Only",
			sysEnv:   []string{"USER=test", "PATH=/bin"},
			expected: []string{"PATH=/bin", "USER=test"},
		},
		{
			name:     "Extra Added",
			sysEnv:   []string{"PATH=/bin"},
			extra:    []string{"CC=clang"},
			expected: []string{"CC=clang", "PATH=/bin"},
		},
		{
			name:     "Extra Overrides",
			sysEnv:   []string{"PATH=/bin", "CC=gcc"},
			extra:    []string{"CC=clang"},
			expected: []string{"CC=clang", "PATH=/bin"},
		},
		{
			name:     "Malformed Entries Ignored",
			sysEnv:   []string{"PATH=/bin", "garbage"},
			expected: []string{"PATH=/bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.extra))
		})
	}
}

func TestLookPath_EmptyPATH(t *testing.T) {
	_, err := lookPath("sh", []string{"HOME=/root"})
	require.Error(t, err)
}

func TestLookPath_Found(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "cmake")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o700))

	got, err := lookPath("cmake", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}

func TestFindExecutable_Directory(t *testing.T) {
	assert.ErrorIs(t, findExecutable(t.TempDir()), os.ErrPermission)
}

func TestCRLFWriter(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{name: "single chunk", chunks: []string{"a\r\nb\r\n"}, want: "a\nb\n"},
		{name: "split pair", chunks: []string{"a\r", "\nb"}, want: "a\nb"},
		{name: "bare carriage return", chunks: []string{"50%\r100%\r\n"}, want: "50%\r100%\n"},
		{name: "split bare carriage return", chunks: []string{"50%\r", "100%"}, want: "50%\r100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := &crlfWriter{w: &buf}
			for _, c := range tt.chunks {
				n, err := w.Write([]byte(c))
				require.NoError(t, err)
				assert.Equal(t, len(c), n)
			}
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
