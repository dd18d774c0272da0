package domain_test

import (
	"testing"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestJob_ID(t *testing.T) {
	tests := []struct {
		name string
		job  domain.Job
		want domain.JobID
	}{
		{
			name: "cmake",
			job:  domain.NewCMakeJob("SDL", "SDL3", "build", nil),
			want: "SDL@SDL3",
		},
		{
			name: "paths are normalized",
			job:  domain.NewCMakeJob("./libs//SDL/", `out\SDL3`, "", nil),
			want: "libs/SDL@out/SDL3",
		},
		{
			name: "header-only is namespaced",
			job:  domain.NewHeaderOnlyJob("tinyobjloader", ".", []string{"tiny_obj_loader.h"}),
			want: "tinyobjloader@header:.",
		},
		{
			name: "manual",
			job:  domain.NewManualJob("SteamworksSDK", "", []domain.InstallRule{{Include: "a"}}),
			want: "SteamworksSDK@.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.job.ID())
		})
	}
}

func TestJob_IDIgnoresPayload(t *testing.T) {
	a := domain.NewCMakeJob("SDL", "SDL3", "build", []string{"-DA=1"})
	b := domain.NewCMakeJob("SDL", "SDL3", "out", []string{"-DA=2"})
	assert.Equal(t, a.ID(), b.ID())
}

func TestJob_Name(t *testing.T) {
	job := domain.NewCMakeJob("third_party/SDL", "SDL3", "", nil)
	assert.Equal(t, "SDL", job.Name())
	assert.Equal(t, domain.DefaultBuildFolder, job.CMake.BuildFolder)
}

func TestJob_Rules(t *testing.T) {
	header := domain.NewHeaderOnlyJob("glm", "glm", []string{"glm/**/*.hpp", "glm/**/*.inl"})
	assert.Equal(t, []domain.InstallRule{
		{Include: "glm/**/*.hpp"},
		{Include: "glm/**/*.inl"},
	}, header.Rules())

	rules := []domain.InstallRule{{Include: "bin/*.dll", Destination: "bin", Excludes: []string{"bin/x.dll"}}}
	manual := domain.NewManualJob("sdk", "sdk", rules)
	assert.Equal(t, rules, manual.Rules())

	cmake := domain.NewCMakeJob("SDL", "SDL3", "", nil)
	assert.Nil(t, cmake.Rules())
}

func TestJob_BuildFolderPatterns(t *testing.T) {
	job := domain.NewCMakeJob("SDL", "SDL3", "build", nil)
	assert.Equal(t, []string{"build", "build/**", "build-*", "build-*/**"}, job.BuildFolderPatterns())

	header := domain.NewHeaderOnlyJob("glm", "glm", []string{"*.hpp"})
	assert.Empty(t, header.BuildFolderPatterns())
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":            ".",
		".":           ".",
		"./":          ".",
		"a/../b":      "b",
		`a\b\c`:       "a/b/c",
		"a//b/":       "a/b",
		"header-only": "header-only",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.NormalizePath(in), "input %q", in)
	}
}
