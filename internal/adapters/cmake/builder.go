// Package cmake configures, builds and installs CMake projects.
package cmake

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/gofrs/flock"
	"go.trai.ch/zerr"
)

var _ ports.ProjectBuilder = (*Builder)(nil)

// Step names reported in build errors.
const (
	StepConfigure = "configure"
	StepBuild     = "build"
	StepInstall   = "install"
)

// Builder implements ports.ProjectBuilder by driving the cmake executable.
type Builder struct {
	executor ports.Executor
	logger   ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(executor ports.Executor, logger ports.Logger) *Builder {
	return &Builder{executor: executor, logger: logger}
}

// Build configures, builds and installs the job into its install root.
// The install root is wiped right before the install step.
func (b *Builder) Build(ctx context.Context, job *domain.Job, settings *domain.Settings, out io.Writer) error {
	srcDir := settings.SourceDir(job)
	buildDir, lock, err := b.acquireBuildDir(srcDir, job.CMake.BuildFolder)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	if err := emptyDir(buildDir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBuildDirPrepareFailed.Error()), "path", buildDir)
	}

	cfg := settings.BuildConfiguration(job)
	prefix := settings.InstallRoot(job)

	steps := []struct {
		name string
		args []string
	}{
		{StepConfigure, ConfigureArgs(srcDir, buildDir, prefix, cfg)},
		{StepBuild, BuildArgs(buildDir, cfg.BuildType, settings.Jobs)},
	}
	for _, step := range steps {
		if err := b.run(ctx, step.name, settings.CMake, step.args, srcDir, out); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(prefix); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallPrefixWipeFailed.Error()), "path", prefix)
	}
	if err := os.MkdirAll(prefix, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInstallPrefixWipeFailed.Error()), "path", prefix)
	}

	if err := b.run(ctx, StepInstall, settings.CMake, InstallArgs(buildDir, cfg.BuildType), srcDir, out); err != nil {
		return err
	}

	if settings.KeepBuildDir {
		return nil
	}
	if err := emptyDir(buildDir); err != nil {
		b.logger.Warn("could not remove build directory " + buildDir + ": " + err.Error())
		return nil
	}
	_ = lock.Unlock()
	if err := os.RemoveAll(buildDir); err != nil {
		b.logger.Warn("could not remove build directory " + buildDir + ": " + err.Error())
	}
	return nil
}

func (b *Builder) run(ctx context.Context, step, cmake string, args []string, dir string, out io.Writer) error {
	cmd := &domain.Command{Name: cmake, Args: args, Dir: dir}
	if err := b.executor.Execute(ctx, cmd, out, out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zerr.With(zerr.Wrap(ctxErr, domain.ErrBuildStepFailed.Error()), "step", step)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrBuildStepFailed.Error()), "step", step)
	}
	return nil
}

// acquireBuildDir locks <src>/<folder>, falling back to <folder>-1, <folder>-2, ...
// while another process holds the lock.
func (b *Builder) acquireBuildDir(srcDir, folder string) (string, *flock.Flock, error) {
	base := filepath.Join(srcDir, filepath.FromSlash(domain.NormalizePath(folder)))
	for n := range domain.MaxBuildDirAttempts {
		dir := base
		if n > 0 {
			dir = base + "-" + strconv.Itoa(n)
		}
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return "", nil, zerr.With(zerr.Wrap(err, domain.ErrBuildDirPrepareFailed.Error()), "path", dir)
		}
		lock := flock.New(filepath.Join(dir, domain.LockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return "", nil, zerr.With(zerr.Wrap(err, domain.ErrBuildDirLockFailed.Error()), "path", dir)
		}
		if locked {
			if n > 0 {
				b.logger.Warn("build directory " + base + " is locked, using " + dir)
			}
			return dir, lock, nil
		}
	}
	return "", nil, zerr.With(domain.ErrBuildDirLockFailed, "path", base)
}

// emptyDir removes everything in dir except the lock file.
func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == domain.LockFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureArgs returns the arguments of the configure step.
func ConfigureArgs(srcDir, buildDir, prefix string, cfg domain.BuildConfiguration) []string {
	args := []string{
		"-S", srcDir,
		"-B", buildDir,
		"-DCMAKE_BUILD_TYPE=" + cfg.BuildType,
		"-DCMAKE_INSTALL_PREFIX=" + prefix,
		"-DCMAKE_PREFIX_PATH=" + cfg.InstallRoot,
	}
	args = append(args, cfg.JobArgs...)
	return append(args, cfg.GlobalArgs...)
}

// BuildArgs returns the arguments of the build step.
// A parallelism below 2 leaves the job count to the generator.
func BuildArgs(buildDir, buildType string, parallel int) []string {
	args := []string{"--build", buildDir, "--config", buildType, "--parallel"}
	if parallel > 1 {
		args = append(args, strconv.Itoa(parallel))
	}
	return args
}

// InstallArgs returns the arguments of the install step.
func InstallArgs(buildDir, buildType string) []string {
	return []string{"--install", buildDir, "--config", buildType}
}
