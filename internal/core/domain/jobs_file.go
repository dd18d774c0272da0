package domain

// JobsFile is the content of a declarative jobs file.
// Nil settings fields were not set in the file.
type JobsFile struct {
	Path     string
	Settings SettingsOverrides
	Jobs     []Job
}

// SettingsOverrides holds optional values that replace defaults and environment values.
type SettingsOverrides struct {
	SourcesDir   *string
	InstallDir   *string
	CacheDir     *string
	HeaderSubdir *string
	CMake        *string
	GlobalArgs   []string
	Debug        *bool
	Jobs         *int
}

// Apply copies every set override into s.
func (o *SettingsOverrides) Apply(s *Settings) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&s.SourcesDir, o.SourcesDir)
	setString(&s.InstallDir, o.InstallDir)
	setString(&s.CacheDir, o.CacheDir)
	setString(&s.HeaderSubdir, o.HeaderSubdir)
	setString(&s.CMake, o.CMake)
	if o.GlobalArgs != nil {
		s.GlobalArgs = o.GlobalArgs
	}
	if o.Debug != nil {
		s.Debug = *o.Debug
	}
	if o.Jobs != nil {
		s.Jobs = *o.Jobs
	}
}
