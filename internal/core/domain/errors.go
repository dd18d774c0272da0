package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrConfiguration is returned when the invocation cannot be turned into a valid job list.
	ErrConfiguration = zerr.New("invalid configuration")

	// ErrUnknownFlag is returned when the argument list contains an unrecognized option.
	ErrUnknownFlag = zerr.New("unknown flag")

	// ErrMissingJobArgument is returned when a job group ends before all of its positional values.
	ErrMissingJobArgument = zerr.New("missing job argument")

	// ErrEmptySourceSubdir is returned when a job has no source subdirectory.
	ErrEmptySourceSubdir = zerr.New("source subdirectory must not be empty")

	// ErrPathEscapesRoot is returned when a job path is absolute or climbs out of its root.
	ErrPathEscapesRoot = zerr.New("path must be relative and stay inside its root")

	// ErrNoPatterns is returned when a header-only job has no patterns.
	ErrNoPatterns = zerr.New("header-only job needs at least one pattern")

	// ErrEmptyPattern is returned when an install pattern is empty.
	ErrEmptyPattern = zerr.New("install pattern must not be empty")

	// ErrNoInstallRules is returned when a manual job has no install rules.
	ErrNoInstallRules = zerr.New("manual job needs at least one install rule")

	// ErrDuplicateJob is returned when two jobs resolve to the same identity.
	ErrDuplicateJob = zerr.New("duplicate job")

	// ErrConflictingInstallRoot is returned when a CMake install root equals or nests with another job's root.
	ErrConflictingInstallRoot = zerr.New("conflicting install roots")

	// ErrCacheInsideInstallRoot is returned when the cache directory would be wiped by a CMake install.
	ErrCacheInsideInstallRoot = zerr.New("cache directory is inside a CMake install root")

	// ErrInvalidCacheBackend is returned when the cache backend name is not recognized.
	ErrInvalidCacheBackend = zerr.New("invalid cache backend, expected 'file' or 'sqlite'")

	// ErrNoJobs is returned when the invocation declares no jobs.
	ErrNoJobs = zerr.New("no jobs specified")

	// ErrStoreCreateFailed is returned when the cache store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache store directory")

	// ErrStoreReadFailed is returned when a cache record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache record")

	// ErrStoreUnmarshalFailed is returned when a cache record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal cache record")

	// ErrStoreMarshalFailed is returned when a cache record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache record")

	// ErrStoreWriteFailed is returned when a cache record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache record")

	// ErrStoreUnknownFormat is returned when a cache record carries a format this build does not understand.
	ErrStoreUnknownFormat = zerr.New("unknown cache record format")

	// ErrStoreOpenFailed is returned when the index database cannot be opened.
	ErrStoreOpenFailed = zerr.New("failed to open cache index")

	// ErrRevisionReadFailed is returned when the source revision cannot be determined.
	ErrRevisionReadFailed = zerr.New("failed to read source revision")

	// ErrBuildDirLockFailed is returned when no build directory lock can be taken.
	ErrBuildDirLockFailed = zerr.New("failed to lock build directory")

	// ErrBuildDirPrepareFailed is returned when the build directory cannot be emptied or created.
	ErrBuildDirPrepareFailed = zerr.New("failed to prepare build directory")

	// ErrBuildStepFailed is returned when a cmake step exits unsuccessfully.
	ErrBuildStepFailed = zerr.New("cmake step failed")

	// ErrInstallPrefixWipeFailed is returned when the install prefix cannot be reset before install.
	ErrInstallPrefixWipeFailed = zerr.New("failed to reset install prefix")

	// ErrPatternFailed is returned when a glob pattern cannot be evaluated against the source tree.
	ErrPatternFailed = zerr.New("failed to evaluate pattern")

	// ErrInstallFailed is returned when a file cannot be installed.
	ErrInstallFailed = zerr.New("failed to install file")

	// ErrSourceMissing is returned in strict mode when a job's source directory does not exist.
	ErrSourceMissing = zerr.New("source directory not found")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrJobsFileReadFailed is returned when the jobs file cannot be read.
	ErrJobsFileReadFailed = zerr.New("failed to read jobs file")

	// ErrJobsFileParseFailed is returned when the jobs file cannot be parsed.
	ErrJobsFileParseFailed = zerr.New("failed to parse jobs file")

	// ErrJobFailed is returned when at least one job of a run failed.
	ErrJobFailed = zerr.New("one or more jobs failed")

	// ErrDriftDetected is returned by verify when the install tree does not match the plan.
	ErrDriftDetected = zerr.New("install tree is out of date")

	// ErrCleanFailed is returned when removing cached state fails.
	ErrCleanFailed = zerr.New("failed to clean")

	// ErrMetricsWriteFailed is returned when the metrics file cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")
)

// ErrorClass categorizes a job failure.
type ErrorClass string

const (
	// ClassPattern marks failures evaluating install patterns.
	ClassPattern ErrorClass = "pattern"
	// ClassBuild marks failures of a cmake step.
	ClassBuild ErrorClass = "build"
	// ClassInstall marks failures copying files.
	ClassInstall ErrorClass = "install"
	// ClassCache marks failures reading or writing cache state.
	ClassCache ErrorClass = "cache"
	// ClassSource marks a missing source directory under --strict.
	ClassSource ErrorClass = "source"
	// ClassCanceled marks jobs interrupted or never started because the run was canceled.
	ClassCanceled ErrorClass = "canceled"
)

// JobError attaches the failing job and an error class to an error.
type JobError struct {
	Job   JobID
	Name  string
	Class ErrorClass
	Err   error
}

// NewJobError creates a JobError for the given job.
func NewJobError(job *Job, class ErrorClass, err error) *JobError {
	return &JobError{Job: job.ID(), Name: job.Name(), Class: class, Err: err}
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s job %s failed: %v", e.Class, e.Name, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// Message returns the error's own message without its cause.
func (e *JobError) Message() string {
	return fmt.Sprintf("%s job %s failed", e.Class, e.Name)
}

// Metadata returns the job identity.
func (e *JobError) Metadata() map[string]any {
	return map[string]any{"job": string(e.Job)}
}
