package domain

import "time"

// CacheRecordFormat is the record layout written by this build.
const CacheRecordFormat = 1

// CacheRecord is the persisted outcome of the last successful build of a CMake job.
type CacheRecord struct {
	Format      int       `json:"format"`
	JobID       JobID     `json:"job_id"`
	Fingerprint string    `json:"fingerprint"`
	Revision    string    `json:"revision"`
	RecordedAt  time.Time `json:"recorded_at"`
	ToolVersion string    `json:"tool_version"`
}

// NewCacheRecord creates a record in the current format.
func NewCacheRecord(id JobID, fingerprint, revision, toolVersion string, at time.Time) CacheRecord {
	return CacheRecord{
		Format:      CacheRecordFormat,
		JobID:       id,
		Fingerprint: fingerprint,
		Revision:    revision,
		RecordedAt:  at.UTC(),
		ToolVersion: toolVersion,
	}
}

// Matches reports whether the record proves a build with the given fingerprint is installed.
func (r *CacheRecord) Matches(fingerprint string) bool {
	return r != nil && r.Format == CacheRecordFormat && r.Fingerprint == fingerprint
}
