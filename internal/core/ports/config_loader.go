package ports

import "github.com/GrinlexGH/deps/internal/core/domain"

// JobsFileLoader reads a declarative jobs file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type JobsFileLoader interface {
	Load(path string) (*domain.JobsFile, error)
}
