package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/GrinlexGH/deps/internal/adapters/fs"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newInstaller(t *testing.T) (*fs.Installer, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	return fs.NewInstaller(fs.NewMatcher(fs.NewWalker()), fs.NewHasher(), logger), logger
}

func newSettings(t *testing.T) *domain.Settings {
	t.Helper()
	s := domain.DefaultSettings()
	s.SourcesDir = "src"
	s.InstallDir = "bin"
	s = s.Resolve(t.TempDir())
	return &s
}

func TestInstaller_ManualJob(t *testing.T) {
	settings := newSettings(t)
	writeTree(t, filepath.Join(settings.SourcesDir, "SteamworksSDK"), map[string]string{
		"redistributable_bin/win64/a.dll": "a",
		"redistributable_bin/b.dll":       "b",
		"public/steam/steam_api.h":        "h",
		"public/steam/lib/internal.h":     "h",
	})
	job := domain.NewManualJob("SteamworksSDK", "SteamworksSDK", []domain.InstallRule{
		{Include: "redistributable_bin/**/*.dll", Destination: "bin"},
		{Include: "public/steam", Destination: "include", Excludes: []string{"public/steam/lib"}},
	})
	installer, _ := newInstaller(t)
	ctx := context.Background()

	plan, err := installer.Plan(ctx, &job, settings)
	require.NoError(t, err)

	report, err := installer.Apply(ctx, plan, domain.ModeApply)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)

	root := filepath.Join(settings.InstallDir, "SteamworksSDK")
	assert.FileExists(t, filepath.Join(root, "bin", "win64", "a.dll"))
	assert.FileExists(t, filepath.Join(root, "bin", "b.dll"))
	assert.FileExists(t, filepath.Join(root, "include", "steam", "steam_api.h"))
	assert.NoDirExists(t, filepath.Join(root, "include", "steam", "lib"))

	// A second run changes nothing.
	plan, err = installer.Plan(ctx, &job, settings)
	require.NoError(t, err)
	report, err = installer.Apply(ctx, plan, domain.ModeApply)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Changes())
	assert.Equal(t, 3, report.Unchanged)
}

func TestInstaller_HeaderOnlyJob(t *testing.T) {
	settings := newSettings(t)
	writeTree(t, filepath.Join(settings.SourcesDir, "tinyobjloader"), map[string]string{
		"tiny_obj_loader.h":  "h",
		"tiny_obj_loader.cc": "cc",
	})
	job := domain.NewHeaderOnlyJob("tinyobjloader", ".", []string{"tiny_obj_loader.h"})
	installer, _ := newInstaller(t)

	plan, err := installer.Plan(context.Background(), &job, settings)
	require.NoError(t, err)
	_, err = installer.Apply(context.Background(), plan, domain.ModeApply)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(settings.InstallDir, "header-only", "tiny_obj_loader.h"))
	assert.NoFileExists(t, filepath.Join(settings.InstallDir, "header-only", "tiny_obj_loader.cc"))
}

func TestInstaller_WarnsOnEmptyPatternAndOverride(t *testing.T) {
	settings := newSettings(t)
	writeTree(t, filepath.Join(settings.SourcesDir, "lib"), map[string]string{
		"a/config.h": "first",
		"b/config.h": "second",
	})
	job := domain.NewManualJob("lib", "lib", []domain.InstallRule{
		{Include: "a/config.h", Destination: "include"},
		{Include: "b/config.h", Destination: "include"},
		{Include: "missing/*.h", Destination: "include"},
	})
	installer, logger := newInstaller(t)
	logger.EXPECT().Warn(gomock.Any()).Times(2)

	plan, err := installer.Plan(context.Background(), &job, settings)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	require.Len(t, plan.Overrides, 1)

	_, err = installer.Apply(context.Background(), plan, domain.ModeApply)
	require.NoError(t, err)
	assert.Equal(t, "second", readFile(t, filepath.Join(settings.InstallDir, "lib", "include", "config.h")))
}

func TestInstaller_DryRunTouchesNothing(t *testing.T) {
	settings := newSettings(t)
	writeTree(t, filepath.Join(settings.SourcesDir, "lib"), map[string]string{"x.h": "x"})
	job := domain.NewHeaderOnlyJob("lib", "lib", []string{"*.h"})
	installer, _ := newInstaller(t)

	plan, err := installer.Plan(context.Background(), &job, settings)
	require.NoError(t, err)
	report, err := installer.Apply(context.Background(), plan, domain.ModeDryRun)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.NoDirExists(t, settings.InstallDir)
}

func TestInstaller_CrossJobOverwriteWarns(t *testing.T) {
	settings := newSettings(t)
	writeTree(t, filepath.Join(settings.SourcesDir, "one"), map[string]string{"common.h": "one"})
	writeTree(t, filepath.Join(settings.SourcesDir, "two"), map[string]string{"common.h": "two"})
	first := domain.NewHeaderOnlyJob("one", ".", []string{"common.h"})
	second := domain.NewHeaderOnlyJob("two", ".", []string{"common.h"})
	installer, logger := newInstaller(t)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	for _, job := range []domain.Job{first, second} {
		plan, err := installer.Plan(context.Background(), &job, settings)
		require.NoError(t, err)
		_, err = installer.Apply(context.Background(), plan, domain.ModeApply)
		require.NoError(t, err)
	}

	assert.Equal(t, "two", readFile(t, filepath.Join(settings.InstallDir, "header-only", "common.h")))
}

func TestInstaller_PreserveSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	settings := newSettings(t)
	settings.PreserveSymlinks = true
	src := filepath.Join(settings.SourcesDir, "prebuilt")
	writeTree(t, src, map[string]string{"lib/libfoo.so.1": "elf"})
	require.NoError(t, os.Symlink("libfoo.so.1", filepath.Join(src, "lib", "libfoo.so")))
	job := domain.NewManualJob("prebuilt", "prebuilt", []domain.InstallRule{{Include: "lib/*", Destination: "lib"}})
	installer, _ := newInstaller(t)

	plan, err := installer.Plan(context.Background(), &job, settings)
	require.NoError(t, err)
	report, err := installer.Apply(context.Background(), plan, domain.ModeApply)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Linked)
	assert.Equal(t, 1, report.Created)

	target, err := os.Readlink(filepath.Join(settings.InstallDir, "prebuilt", "lib", "libfoo.so"))
	require.NoError(t, err)
	assert.Equal(t, "libfoo.so.1", target)
}

func TestInstaller_CanceledContext(t *testing.T) {
	settings := newSettings(t)
	writeTree(t, filepath.Join(settings.SourcesDir, "lib"), map[string]string{"x.h": "x"})
	job := domain.NewHeaderOnlyJob("lib", "lib", []string{"*.h"})
	installer, _ := newInstaller(t)

	plan, err := installer.Plan(context.Background(), &job, settings)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = installer.Apply(ctx, plan, domain.ModeApply)
	assert.ErrorIs(t, err, context.Canceled)
}
