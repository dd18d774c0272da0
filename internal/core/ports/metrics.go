package ports

import "time"

// MetricsRecorder collects run metrics.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type MetricsRecorder interface {
	// ObserveJob records the final status and duration of a job.
	ObserveJob(kind, status string, d time.Duration)
	// ObserveCache records whether a CMake job was served by its cache record.
	ObserveCache(hit bool)
	// ObserveFiles records how many install actions changed the tree.
	ObserveFiles(kind string, changed int)
	// ObserveRun records the identity, mode and wall time of the whole run.
	ObserveRun(runID, mode string, d time.Duration)
	// WriteTo persists the collected metrics to path in textfile format.
	WriteTo(path string) error
}
