package fs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/GrinlexGH/deps/internal/adapters/fs"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type match struct {
	Source string
	Rel    string
	Rule   int
}

func matchRel(t *testing.T, root string, rules []domain.InstallRule) []match {
	t.Helper()
	got, err := fs.NewMatcher(fs.NewWalker()).Match(root, rules)
	require.NoError(t, err)
	out := make([]match, 0, len(got))
	for _, m := range got {
		rel, err := filepath.Rel(root, m.Source)
		require.NoError(t, err)
		out = append(out, match{Source: filepath.ToSlash(rel), Rel: m.Rel, Rule: m.Rule})
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"redistributable_bin/win64/a.dll": "a",
		"redistributable_bin/win64/a.lib": "a",
		"redistributable_bin/b.dll":       "b",
		"public/steam/steam_api.h":        "h",
		"public/steam/lib/isteamclient.h": "h",
		"tiny_obj_loader.h":               "h",
		"include/SDL3/SDL.h":              "h",
		"include/SDL3/SDL_video.h":        "h",
		"glm/glm.hpp":                     "h",
		"glm/detail/setup.hpp":            "h",
		"glm/detail/func.inl":             "h",
		"glm/detail/CMakeLists.txt":       "cmake",
	})

	tests := []struct {
		name  string
		rules []domain.InstallRule
		want  []match
	}{
		{
			name:  "recursive glob strips constant prefix",
			rules: []domain.InstallRule{{Include: "redistributable_bin/**/*.dll", Destination: "bin"}},
			want: []match{
				{Source: "redistributable_bin/b.dll", Rel: "b.dll"},
				{Source: "redistributable_bin/win64/a.dll", Rel: "win64/a.dll"},
			},
		},
		{
			name:  "literal file maps to basename",
			rules: []domain.InstallRule{{Include: "tiny_obj_loader.h"}},
			want:  []match{{Source: "tiny_obj_loader.h", Rel: "tiny_obj_loader.h"}},
		},
		{
			name:  "literal nested file maps to basename",
			rules: []domain.InstallRule{{Include: "public/steam/steam_api.h"}},
			want:  []match{{Source: "public/steam/steam_api.h", Rel: "steam_api.h"}},
		},
		{
			name:  "matched directory contributes its subtree",
			rules: []domain.InstallRule{{Include: "include/SDL3"}},
			want: []match{
				{Source: "include/SDL3/SDL.h", Rel: "SDL3/SDL.h"},
				{Source: "include/SDL3/SDL_video.h", Rel: "SDL3/SDL_video.h"},
			},
		},
		{
			name:  "braces",
			rules: []domain.InstallRule{{Include: "glm/**/*.{hpp,inl}"}},
			want: []match{
				{Source: "glm/detail/func.inl", Rel: "detail/func.inl"},
				{Source: "glm/detail/setup.hpp", Rel: "detail/setup.hpp"},
				{Source: "glm/glm.hpp", Rel: "glm.hpp"},
			},
		},
		{
			name: "exclude wins over include",
			rules: []domain.InstallRule{{
				Include:  "public/steam",
				Excludes: []string{"public/steam/lib"},
			}},
			want: []match{{Source: "public/steam/steam_api.h", Rel: "steam/steam_api.h"}},
		},
		{
			name: "exclude applies only to its own rule",
			rules: []domain.InstallRule{
				{Include: "redistributable_bin/*.dll", Excludes: []string{"**/*.dll"}},
				{Include: "redistributable_bin/*.dll"},
			},
			want: []match{{Source: "redistributable_bin/b.dll", Rel: "b.dll", Rule: 1}},
		},
		{
			name: "rules keep declaration order",
			rules: []domain.InstallRule{
				{Include: "tiny_obj_loader.h"},
				{Include: "glm/glm.hpp"},
			},
			want: []match{
				{Source: "tiny_obj_loader.h", Rel: "tiny_obj_loader.h", Rule: 0},
				{Source: "glm/glm.hpp", Rel: "glm.hpp", Rule: 1},
			},
		},
		{
			name:  "missing prefix matches nothing",
			rules: []domain.InstallRule{{Include: "does/not/exist/*.h"}},
			want:  []match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchRel(t, root, tt.rules))
		})
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"z.h", "a.h", "m/b.h", "m/a.h", "c/d/e.h"} {
		files["inc/"+name] = name
	}
	writeTree(t, root, files)
	rules := []domain.InstallRule{{Include: "inc/**/*.h"}}

	first := matchRel(t, root, rules)
	for range 5 {
		assert.Equal(t, first, matchRel(t, root, rules))
	}
	assert.Equal(t, []string{"a.h", "c/d/e.h", "m/a.h", "m/b.h", "z.h"}, rels(first))
}

func rels(ms []match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Rel)
	}
	return out
}

func TestMatcher_Errors(t *testing.T) {
	root := t.TempDir()
	m := fs.NewMatcher(fs.NewWalker())

	_, err := m.Match(filepath.Join(root, "missing"), []domain.InstallRule{{Include: "*"}})
	assert.ErrorContains(t, err, domain.ErrPatternFailed.Error())

	_, err = m.Match(root, []domain.InstallRule{{Include: "a/[b"}})
	assert.ErrorContains(t, err, domain.ErrPatternFailed.Error())
}

func TestMatcher_UnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"locked/a.h": "a"})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) }) //nolint:gosec // Restore for cleanup

	_, err := fs.NewMatcher(fs.NewWalker()).Match(root, []domain.InstallRule{{Include: "locked/*.h"}})
	assert.ErrorContains(t, err, domain.ErrPatternFailed.Error())
}
