package cmake_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/GrinlexGH/deps/internal/adapters/cmake"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports/mocks"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	settings domain.Settings
	job      domain.Job
	executor *mocks.MockExecutor
	logger   *mocks.MockLogger
	builder  *cmake.Builder
}

func newFixture(t *testing.T, args ...string) *fixture {
	t.Helper()
	root := t.TempDir()

	settings := domain.DefaultSettings()
	settings.SourcesDir = "src"
	settings.InstallDir = "bin/Linux"
	settings = settings.Resolve(root)

	job := domain.NewCMakeJob("SDL", "SDL", "build", args)
	require.NoError(t, os.MkdirAll(settings.SourceDir(&job), 0o750))

	ctrl := gomock.NewController(t)
	f := &fixture{
		settings: settings,
		job:      job,
		executor: mocks.NewMockExecutor(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.builder = cmake.NewBuilder(f.executor, f.logger)
	return f
}

func (f *fixture) srcDir() string { return f.settings.SourceDir(&f.job) }
func (f *fixture) prefix() string { return f.settings.InstallRoot(&f.job) }
func (f *fixture) buildDir() string { return filepath.Join(f.srcDir(), "build") }

func TestBuilder_Build_RunsStepsInOrder(t *testing.T) {
	f := newFixture(t, "-DSDL_SHARED=ON")
	f.settings.GlobalArgs = []string{"-G", "Ninja"}

	require.NoError(t, os.MkdirAll(filepath.Join(f.prefix(), "stale"), 0o750))

	var calls [][]string
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			assert.Equal(t, "cmake", cmd.Name)
			assert.Equal(t, f.srcDir(), cmd.Dir)
			calls = append(calls, cmd.Args)
			if cmd.Args[0] == "--install" {
				_, err := os.Stat(filepath.Join(f.prefix(), "stale"))
				assert.True(t, os.IsNotExist(err), "prefix must be wiped before install")
				assert.DirExists(t, f.prefix())
			}
			return nil
		}).Times(3)

	err := f.builder.Build(context.Background(), &f.job, &f.settings, io.Discard)
	require.NoError(t, err)

	require.Len(t, calls, 3)
	assert.Equal(t, []string{
		"-S", f.srcDir(),
		"-B", f.buildDir(),
		"-DCMAKE_BUILD_TYPE=Release",
		"-DCMAKE_INSTALL_PREFIX=" + f.prefix(),
		"-DCMAKE_PREFIX_PATH=" + f.settings.InstallDir,
		"-DSDL_SHARED=ON",
		"-G", "Ninja",
	}, calls[0])
	assert.Equal(t, []string{"--build", f.buildDir(), "--config", "Release", "--parallel"}, calls[1])
	assert.Equal(t, []string{"--install", f.buildDir(), "--config", "Release"}, calls[2])

	assert.NoDirExists(t, f.buildDir())
}

func TestBuilder_Build_KeepBuildDir(t *testing.T) {
	f := newFixture(t)
	f.settings.KeepBuildDir = true
	f.settings.Debug = true

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			assert.Contains(t, cmd.Args, "Debug")
			return nil
		}).
		AnyTimes()

	require.NoError(t, f.builder.Build(context.Background(), &f.job, &f.settings, io.Discard))
	assert.DirExists(t, f.buildDir())
}

func TestBuilder_Build_EmptiesBuildDirFirst(t *testing.T) {
	f := newFixture(t)
	f.settings.KeepBuildDir = true

	stale := filepath.Join(f.buildDir(), "CMakeCache.txt")
	require.NoError(t, os.MkdirAll(f.buildDir(), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o600))

	first := true
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Command, _, _ io.Writer) error {
			if first {
				assert.NoFileExists(t, stale)
				first = false
			}
			return nil
		}).
		Times(3)

	require.NoError(t, f.builder.Build(context.Background(), &f.job, &f.settings, io.Discard))
}

func TestBuilder_Build_StepFailure(t *testing.T) {
	f := newFixture(t)

	marker := filepath.Join(f.prefix(), "lib", "libSDL3.so")
	require.NoError(t, os.MkdirAll(filepath.Dir(marker), 0o750))
	require.NoError(t, os.WriteFile(marker, []byte("old"), 0o600))

	exitErr := zerr.With(zerr.New("command failed"), "exit_code", 1)
	gomock.InOrder(
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(exitErr),
	)

	err := f.builder.Build(context.Background(), &f.job, &f.settings, io.Discard)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrBuildStepFailed.Error())

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, cmake.StepBuild, zErr.Metadata()["step"])

	assert.FileExists(t, marker, "a failed build must not touch the previous install")
}

func TestBuilder_Build_LockedBuildDirFallsBack(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)

	require.NoError(t, os.MkdirAll(f.buildDir(), 0o750))
	held := flock.New(filepath.Join(f.buildDir(), domain.LockFileName))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = held.Unlock() })

	fallback := f.buildDir() + "-1"
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			assert.Contains(t, cmd.Args, fallback)
			return nil
		}).
		Times(3)

	require.NoError(t, f.builder.Build(context.Background(), &f.job, &f.settings, io.Discard))
	assert.DirExists(t, f.buildDir(), "the locked directory belongs to the other process")
	assert.NoDirExists(t, fallback)
}

func TestBuilder_Build_Canceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Command, _, _ io.Writer) error {
			cancel()
			return errors.New("signal: killed")
		})

	err := f.builder.Build(ctx, &f.job, &f.settings, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--build", "b", "--config", "Debug", "--parallel", "8"},
		cmake.BuildArgs("b", "Debug", 8),
	)
	assert.Equal(t,
		[]string{"--build", "b", "--config", "Release", "--parallel"},
		cmake.BuildArgs("b", "Release", 1),
	)
}
