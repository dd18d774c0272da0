package domain

import (
	"errors"
	"time"
)

// JobStatus is the final state of a job in a run.
type JobStatus uint8

const (
	// StatusBuilt means a CMake job was configured, built and installed.
	StatusBuilt JobStatus = iota + 1
	// StatusUpToDate means a CMake job matched its cache record, or a file job had nothing to copy.
	StatusUpToDate
	// StatusInstalled means a file job copied at least one file.
	StatusInstalled
	// StatusOutdated means a dry run found pending work.
	StatusOutdated
	// StatusSkipped means the job's source directory does not exist.
	StatusSkipped
	// StatusFailed means the job failed.
	StatusFailed
	// StatusCanceled means the run was canceled before or while the job ran.
	StatusCanceled
)

func (s JobStatus) String() string {
	switch s {
	case StatusBuilt:
		return "built"
	case StatusUpToDate:
		return "up-to-date"
	case StatusInstalled:
		return "installed"
	case StatusOutdated:
		return "outdated"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// JobResult is the outcome of one job.
type JobResult struct {
	Job         Job
	Status      JobStatus
	Err         error
	Duration    time.Duration
	Fingerprint string
	Install     InstallReport
	// Record is the cache record to persist after a successful build.
	Record *CacheRecord
}

// RunReport is the outcome of one run, with results in declaration order.
type RunReport struct {
	RunID   string
	Mode    ApplyMode
	Results []JobResult
}

// Count returns the number of results with the given status.
func (r *RunReport) Count(status JobStatus) int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Status == status {
			n++
		}
	}
	return n
}

// Failed returns the results of failed or canceled jobs.
func (r *RunReport) Failed() []JobResult {
	var out []JobResult
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusCanceled {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of all failed jobs, or returns nil if every job succeeded.
func (r *RunReport) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrJobFailed}, errs...)...)
}
