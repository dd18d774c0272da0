package config

import (
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// JobsFileVersion is the only jobs file version understood by this build.
const JobsFileVersion = "1"

// Jobsfile represents the structure of the deps.yaml jobs file.
type Jobsfile struct {
	Version  string        `yaml:"version"`
	Settings SettingsDTO   `yaml:"settings"`
	Jobs     []JobEntryDTO `yaml:"jobs"`
}

// SettingsDTO holds the optional global settings of a jobs file.
type SettingsDTO struct {
	SourcesDir   *string  `yaml:"sources_dir"`
	InstallDir   *string  `yaml:"install_dir"`
	CacheDir     *string  `yaml:"cache_dir"`
	HeaderSubdir *string  `yaml:"header_subdir"`
	CMake        *string  `yaml:"cmake"`
	CMakeArgs    *ArgList `yaml:"cmake_args"`
	Debug        *bool    `yaml:"debug"`
	Jobs         *int     `yaml:"jobs"`
}

// JobEntryDTO is one job; exactly one of its fields must be set.
type JobEntryDTO struct {
	CMake  *CMakeJobDTO  `yaml:"cmake"`
	Header *HeaderJobDTO `yaml:"header"`
	Manual *ManualJobDTO `yaml:"manual"`
}

// CMakeJobDTO declares a CMake project.
type CMakeJobDTO struct {
	Source      string  `yaml:"source"`
	Install     string  `yaml:"install"`
	BuildFolder string  `yaml:"build_folder"`
	Args        ArgList `yaml:"args"`
}

// HeaderJobDTO declares a header-only library.
type HeaderJobDTO struct {
	Source   string   `yaml:"source"`
	Install  string   `yaml:"install"`
	Patterns []string `yaml:"patterns"`
}

// ManualJobDTO declares manually staged artifacts.
type ManualJobDTO struct {
	Source  string    `yaml:"source"`
	Install string    `yaml:"install"`
	Rules   []RuleDTO `yaml:"rules"`
}

// RuleDTO is one install rule of a manual job.
type RuleDTO struct {
	Include     string     `yaml:"include"`
	Destination string     `yaml:"destination"`
	Exclude     StringList `yaml:"exclude"`
}

// ArgList is a command line given either as one shell-quoted string or as a list.
type ArgList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ArgList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		args, err := shlex.Split(value.Value)
		if err != nil {
			return err
		}
		*a = args
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*a = list
	return nil
}

// StringList accepts a single string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = []string{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}
