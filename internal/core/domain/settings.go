package domain

import (
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// CacheBackend selects how cache records are persisted.
type CacheBackend string

const (
	// CacheBackendFile stores one JSON record per job.
	CacheBackendFile CacheBackend = "file"
	// CacheBackendSQLite stores all records in a single sqlite index.
	CacheBackendSQLite CacheBackend = "sqlite"
)

// Settings holds the resolved global options of one invocation.
type Settings struct {
	SourcesDir   string
	InstallDir   string
	CacheDir     string
	HeaderSubdir string
	CMake        string
	GlobalArgs   []string
	Debug        bool

	Jobs             int
	Timeout          time.Duration
	NoCache          bool
	KeepBuildDir     bool
	PreserveSymlinks bool
	Strict           bool
	CacheBackend     CacheBackend
	MetricsFile      string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		SourcesDir:   DefaultSourcesDir,
		InstallDir:   DefaultInstallDir(),
		HeaderSubdir: DefaultHeaderSubdir,
		CMake:        DefaultCMake,
		Jobs:         1,
		CacheBackend: CacheBackendFile,
	}
}

// Resolve makes all directories absolute against base and fills derived defaults.
func (s Settings) Resolve(base string) Settings {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	s.SourcesDir = abs(s.SourcesDir)
	s.InstallDir = abs(s.InstallDir)
	s.CacheDir = abs(s.CacheDir)
	s.MetricsFile = abs(s.MetricsFile)
	if s.CacheDir == "" {
		s.CacheDir = DefaultCacheDir(s.InstallDir)
	}
	if s.HeaderSubdir == "" {
		s.HeaderSubdir = DefaultHeaderSubdir
	}
	if s.CMake == "" {
		s.CMake = DefaultCMake
	}
	if s.Jobs < 1 {
		s.Jobs = 1
	}
	if s.CacheBackend == "" {
		s.CacheBackend = CacheBackendFile
	}
	return s
}

// BuildType returns the CMake build type selected by the debug flag.
func (s *Settings) BuildType() string {
	if s.Debug {
		return "Debug"
	}
	return "Release"
}

// SourceDir returns the absolute source directory of a job.
func (s *Settings) SourceDir(job *Job) string {
	return filepath.Join(s.SourcesDir, filepath.FromSlash(NormalizePath(job.SourceSubdir)))
}

// InstallRoot returns the absolute directory a job installs into.
func (s *Settings) InstallRoot(job *Job) string {
	return filepath.Join(s.InstallDir, filepath.FromSlash(s.RootOf(job)))
}

// RootOf returns the install root of a job relative to the install dir, with forward slashes.
func (s *Settings) RootOf(job *Job) string {
	if job.Kind == KindHeaderOnly {
		return NormalizePath(NormalizePath(s.HeaderSubdir) + "/" + NormalizePath(job.InstallSubdir))
	}
	return NormalizePath(job.InstallSubdir)
}

// BuildConfiguration returns the resolved configuration a CMake job is built with.
func (s *Settings) BuildConfiguration(job *Job) BuildConfiguration {
	cfg := BuildConfiguration{
		BuildType:   s.BuildType(),
		CMake:       s.CMake,
		InstallRoot: s.InstallDir,
		GlobalArgs:  s.GlobalArgs,
	}
	if job.CMake != nil {
		cfg.JobArgs = job.CMake.Args
	}
	return cfg
}

// Validate checks settings that must hold before any job runs.
func (s *Settings) Validate() error {
	switch s.CacheBackend {
	case CacheBackendFile, CacheBackendSQLite:
	default:
		return zerr.With(ErrInvalidCacheBackend, "backend", string(s.CacheBackend))
	}
	if strings.TrimSpace(s.HeaderSubdir) != "" && !isContained(s.HeaderSubdir) {
		return zerr.With(ErrPathEscapesRoot, "header_subdir", s.HeaderSubdir)
	}
	return nil
}
