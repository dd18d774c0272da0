package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// Kind identifies the variant of a job.
type Kind uint8

const (
	// KindCMake builds a CMake project from source and installs it into its prefix.
	KindCMake Kind = iota + 1
	// KindHeaderOnly copies matched files into the shared header root.
	KindHeaderOnly
	// KindManual copies matched files according to ordered install rules.
	KindManual
)

func (k Kind) String() string {
	switch k {
	case KindCMake:
		return "cmake"
	case KindHeaderOnly:
		return "header"
	case KindManual:
		return "manual"
	default:
		return "unknown"
	}
}

// InstallRule maps files matched by Include into Destination, minus anything matched by Excludes.
type InstallRule struct {
	Include     string
	Destination string
	Excludes    []string
}

// CMakeSpec is the payload of a KindCMake job.
type CMakeSpec struct {
	BuildFolder string
	Args        []string
}

// HeaderOnlySpec is the payload of a KindHeaderOnly job.
type HeaderOnlySpec struct {
	Patterns []string
}

// ManualSpec is the payload of a KindManual job.
type ManualSpec struct {
	Rules []InstallRule
}

// Job is one dependency to build or install.
// Exactly one of CMake, HeaderOnly or Manual is set, matching Kind.
type Job struct {
	Kind          Kind
	SourceSubdir  string
	InstallSubdir string

	CMake      *CMakeSpec
	HeaderOnly *HeaderOnlySpec
	Manual     *ManualSpec
}

// NewCMakeJob creates a job that builds and installs a CMake project.
func NewCMakeJob(source, install, buildFolder string, args []string) Job {
	if buildFolder == "" {
		buildFolder = DefaultBuildFolder
	}
	return Job{
		Kind:          KindCMake,
		SourceSubdir:  source,
		InstallSubdir: install,
		CMake:         &CMakeSpec{BuildFolder: buildFolder, Args: args},
	}
}

// NewHeaderOnlyJob creates a job that copies headers into the header root.
func NewHeaderOnlyJob(source, install string, patterns []string) Job {
	return Job{
		Kind:          KindHeaderOnly,
		SourceSubdir:  source,
		InstallSubdir: install,
		HeaderOnly:    &HeaderOnlySpec{Patterns: patterns},
	}
}

// NewManualJob creates a job that copies files according to install rules.
func NewManualJob(source, install string, rules []InstallRule) Job {
	return Job{
		Kind:          KindManual,
		SourceSubdir:  source,
		InstallSubdir: install,
		Manual:        &ManualSpec{Rules: rules},
	}
}

// JobID identifies a job across runs.
type JobID string

func (id JobID) String() string {
	return string(id)
}

// ID returns the stable identity of the job.
func (j *Job) ID() JobID {
	install := NormalizePath(j.InstallSubdir)
	if j.Kind == KindHeaderOnly {
		install = "header:" + install
	}
	return JobID(NormalizePath(j.SourceSubdir) + "@" + install)
}

// Name returns a short display name for the job.
func (j *Job) Name() string {
	return path.Base(NormalizePath(j.SourceSubdir))
}

// Rules returns the install rules the job copies files with.
// Header-only patterns become rules that install into the job root.
func (j *Job) Rules() []InstallRule {
	switch j.Kind {
	case KindManual:
		return j.Manual.Rules
	case KindHeaderOnly:
		rules := make([]InstallRule, 0, len(j.HeaderOnly.Patterns))
		for _, p := range j.HeaderOnly.Patterns {
			rules = append(rules, InstallRule{Include: p})
		}
		return rules
	default:
		return nil
	}
}

// BuildFolderPatterns returns the source-relative patterns covering the job's build directories.
func (j *Job) BuildFolderPatterns() []string {
	if j.Kind != KindCMake {
		return nil
	}
	bf := NormalizePath(j.CMake.BuildFolder)
	return []string{bf, bf + "/**", bf + "-*", bf + "-*/**"}
}

// NormalizePath cleans a relative path and uses forward slashes. The empty path becomes ".".
func NormalizePath(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// isContained reports whether p is a relative path that does not climb out of its root.
func isContained(p string) bool {
	if p == "" {
		return true
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") || filepath.VolumeName(p) != "" {
		return false
	}
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
