package commands

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/GrinlexGH/deps/internal/app"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"
)

// Environment variables providing defaults for the global flags.
const (
	EnvSourcesDir   = "DEPS_SOURCES_DIR"
	EnvInstallDir   = "DEPS_INSTALL_DIR"
	EnvCacheDir     = "DEPS_CACHE_DIR"
	EnvHeaderSubdir = "DEPS_HEADER_SUBDIR"
	EnvCMake        = "DEPS_CMAKE"
	EnvCMakeArgs    = "DEPS_CMAKE_ARGS"
	EnvJobs         = "DEPS_JOBS"
)

// globalOptions holds the values of the flags shared by every job command.
type globalOptions struct {
	sourcesDir       string
	installDir       string
	cacheDir         string
	headerSubdir     string
	cmake            string
	cmakeArgs        string
	debug            bool
	jobs             int
	timeout          time.Duration
	noCache          bool
	keepBuildDir     bool
	preserveSymlinks bool
	strict           bool
	cacheBackend     string
	metricsFile      string
	jobsFile         string
	verbose          bool
	logJSON          bool
	help             bool
}

func newGlobalFlagSet(name string, o *globalOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&o.sourcesDir, "sources-dir", domain.DefaultSourcesDir, "Directory containing the dependency sources")
	fs.StringVar(&o.installDir, "install-dir", domain.DefaultInstallDir(), "Installation output directory")
	fs.StringVar(&o.cacheDir, "cache-dir", "", "Cache directory (default <install-dir>/"+domain.CacheDirName+")")
	fs.StringVar(&o.headerSubdir, "header-subdir", domain.DefaultHeaderSubdir, "Subdirectory of the install dir for header-only libraries")
	fs.StringVar(&o.cmake, "cmake", domain.DefaultCMake, "CMake executable")
	fs.StringVar(&o.cmakeArgs, "cmake-args", "", "Global CMake arguments as one quoted string")
	fs.BoolVar(&o.debug, "debug", false, "Build CMake projects in Debug configuration")
	fs.IntVarP(&o.jobs, "jobs", "j", 1, "Number of jobs to run in parallel")
	fs.DurationVar(&o.timeout, "timeout", 0, "Abort the run after this duration (0 disables)")
	fs.BoolVar(&o.noCache, "no-cache", false, "Rebuild every CMake project regardless of the cache")
	fs.BoolVar(&o.keepBuildDir, "keep-build-dir", false, "Keep build directories after a successful install")
	fs.BoolVar(&o.preserveSymlinks, "preserve-symlinks", false, "Recreate in-tree symlinks instead of copying their targets")
	fs.BoolVar(&o.strict, "strict", false, "Fail jobs whose source directory is missing instead of skipping them")
	fs.StringVar(&o.cacheBackend, "cache-backend", string(domain.CacheBackendFile), "Cache backend: file or sqlite")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")
	fs.StringVar(&o.jobsFile, "jobs-file", "", "Declarative jobs file (default ./"+domain.JobsFileName+" when no jobs are given)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&o.logJSON, "log-json", false, "Write logs as JSON")
	fs.BoolVarP(&o.help, "help", "h", false, "Show help for command")
	return fs
}

// parseFlags parses the tokens left after the job groups were split out.
func parseFlags(fs *pflag.FlagSet, rest []string) error {
	if err := fs.Parse(rest); err != nil {
		return errors.Join(domain.ErrUnknownFlag, err)
	}
	if fs.NArg() > 0 {
		return zerr.With(domain.ErrUnknownFlag, "argument", fs.Arg(0))
	}
	return nil
}

// buildRequest applies precedence flag > jobs file > environment > default.
// The jobs file level is applied by the app once the file has been read.
func buildRequest(
	fs *pflag.FlagSet,
	o *globalOptions,
	jobs []domain.Job,
	lookupEnv func(string) (string, bool),
) (app.Request, error) {
	wd, err := os.Getwd()
	if err != nil {
		return app.Request{}, zerr.Wrap(err, "failed to get working directory")
	}

	base := domain.DefaultSettings()
	env, err := envOverrides(lookupEnv)
	if err != nil {
		return app.Request{}, err
	}
	env.Apply(&base)

	base.Timeout = o.timeout
	base.NoCache = o.noCache
	base.KeepBuildDir = o.keepBuildDir
	base.PreserveSymlinks = o.preserveSymlinks
	base.Strict = o.strict
	base.CacheBackend = domain.CacheBackend(o.cacheBackend)
	base.MetricsFile = o.metricsFile

	flags, err := flagOverrides(fs, o)
	if err != nil {
		return app.Request{}, err
	}

	jobsFile := o.jobsFile
	if jobsFile == "" && len(jobs) == 0 {
		if _, err := os.Stat(filepath.Join(wd, domain.JobsFileName)); err == nil {
			jobsFile = filepath.Join(wd, domain.JobsFileName)
		}
	}

	return app.Request{
		Base:     base,
		Flags:    flags,
		JobsFile: jobsFile,
		Jobs:     jobs,
		WorkDir:  wd,
	}, nil
}

func flagOverrides(fs *pflag.FlagSet, o *globalOptions) (domain.SettingsOverrides, error) {
	var flags domain.SettingsOverrides
	stringFlag := func(name string, v *string) *string {
		if fs.Changed(name) {
			return v
		}
		return nil
	}
	flags.SourcesDir = stringFlag("sources-dir", &o.sourcesDir)
	flags.InstallDir = stringFlag("install-dir", &o.installDir)
	flags.CacheDir = stringFlag("cache-dir", &o.cacheDir)
	flags.HeaderSubdir = stringFlag("header-subdir", &o.headerSubdir)
	flags.CMake = stringFlag("cmake", &o.cmake)
	if fs.Changed("cmake-args") {
		args, err := splitArgs("--cmake-args", o.cmakeArgs)
		if err != nil {
			return flags, err
		}
		if args == nil {
			args = []string{}
		}
		flags.GlobalArgs = args
	}
	if fs.Changed("debug") {
		flags.Debug = &o.debug
	}
	if fs.Changed("jobs") {
		flags.Jobs = &o.jobs
	}
	return flags, nil
}

func envOverrides(lookupEnv func(string) (string, bool)) (domain.SettingsOverrides, error) {
	var env domain.SettingsOverrides
	stringEnv := func(key string) *string {
		if v, ok := lookupEnv(key); ok && v != "" {
			return &v
		}
		return nil
	}
	env.SourcesDir = stringEnv(EnvSourcesDir)
	env.InstallDir = stringEnv(EnvInstallDir)
	env.CacheDir = stringEnv(EnvCacheDir)
	env.HeaderSubdir = stringEnv(EnvHeaderSubdir)
	env.CMake = stringEnv(EnvCMake)
	if v := stringEnv(EnvCMakeArgs); v != nil {
		args, err := splitArgs(EnvCMakeArgs, *v)
		if err != nil {
			return env, err
		}
		env.GlobalArgs = args
	}
	if v := stringEnv(EnvJobs); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return env, zerr.With(zerr.Wrap(err, domain.ErrConfiguration.Error()), EnvJobs, *v)
		}
		env.Jobs = &n
	}
	return env, nil
}

func splitArgs(source, value string) ([]string, error) {
	args, err := shlex.Split(value)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfiguration.Error()), "source", source)
	}
	return args, nil
}
