package ports

import "time"

// Renderer presents job progress to the user.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPlanEmit is called once with the job names in declaration order.
	OnPlanEmit(jobs []string)

	// OnTaskStart is called when a job begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called with raw subprocess output of a job.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a job finishes.
	OnTaskComplete(spanID string, endTime time.Time, err error)

	// Flush writes any buffered partial lines.
	Flush() error
}
