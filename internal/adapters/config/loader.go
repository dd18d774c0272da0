// Package config loads declarative jobs files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.JobsFileLoader = (*Loader)(nil)

// Loader implements ports.JobsFileLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the jobs file at path.
// Relative directories in its settings are resolved against the file's directory.
func (l *Loader) Load(path string) (*domain.JobsFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJobsFileReadFailed.Error()), "path", path)
	}

	var file Jobsfile
	if err := readAndUnmarshalYAML(absPath, &file); err != nil {
		return nil, zerr.With(err, "path", absPath)
	}

	if file.Version != "" && file.Version != JobsFileVersion {
		return nil, zerr.With(zerr.With(domain.ErrJobsFileParseFailed, "version", file.Version), "path", absPath)
	}

	baseDir := filepath.Dir(absPath)
	jobs := make([]domain.Job, 0, len(file.Jobs))
	for i, entry := range file.Jobs {
		job, err := buildJob(entry)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "index", i), "path", absPath)
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		l.Logger.Warn(fmt.Sprintf("%s declares no jobs", absPath))
	}

	return &domain.JobsFile{
		Path:     absPath,
		Settings: buildOverrides(file.Settings, baseDir),
		Jobs:     jobs,
	}, nil
}

func buildJob(entry JobEntryDTO) (domain.Job, error) {
	set := 0
	for _, present := range []bool{entry.CMake != nil, entry.Header != nil, entry.Manual != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return domain.Job{}, zerr.With(domain.ErrJobsFileParseFailed, "reason", "each job needs exactly one of cmake, header or manual")
	}

	switch {
	case entry.CMake != nil:
		dto := entry.CMake
		return domain.NewCMakeJob(dto.Source, dto.Install, dto.BuildFolder, dto.Args), nil
	case entry.Header != nil:
		dto := entry.Header
		return domain.NewHeaderOnlyJob(dto.Source, dto.Install, dto.Patterns), nil
	default:
		dto := entry.Manual
		rules := make([]domain.InstallRule, 0, len(dto.Rules))
		for _, r := range dto.Rules {
			rules = append(rules, domain.InstallRule{
				Include:     r.Include,
				Destination: r.Destination,
				Excludes:    r.Exclude,
			})
		}
		return domain.NewManualJob(dto.Source, dto.Install, rules), nil
	}
}

func buildOverrides(dto SettingsDTO, baseDir string) domain.SettingsOverrides {
	o := domain.SettingsOverrides{
		SourcesDir:   resolveDir(baseDir, dto.SourcesDir),
		InstallDir:   resolveDir(baseDir, dto.InstallDir),
		CacheDir:     resolveDir(baseDir, dto.CacheDir),
		HeaderSubdir: dto.HeaderSubdir,
		CMake:        dto.CMake,
		Debug:        dto.Debug,
		Jobs:         dto.Jobs,
	}
	if dto.CMakeArgs != nil {
		o.GlobalArgs = []string(*dto.CMakeArgs)
	}
	return o
}

func resolveDir(baseDir string, dir *string) *string {
	if dir == nil {
		return nil
	}
	resolved := *dir
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}
	return &resolved
}

// readAndUnmarshalYAML reads a YAML file and decodes it into target, rejecting unknown keys.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path is provided by the user on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrJobsFileReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrJobsFileParseFailed.Error())
	}
	return nil
}
