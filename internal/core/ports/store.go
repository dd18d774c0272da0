package ports

import "github.com/GrinlexGH/deps/internal/core/domain"

// CacheStore persists the cache record of each CMake job.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Get retrieves the record of a job from the store rooted at dir.
	// Returns nil, nil if not found.
	Get(dir string, id domain.JobID) (*domain.CacheRecord, error)

	// Put replaces the record of a job atomically.
	Put(dir string, record domain.CacheRecord) error

	// Close releases any handles the store keeps open.
	Close() error
}
