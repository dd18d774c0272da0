package ports

import (
	"context"
	"io"

	"github.com/GrinlexGH/deps/internal/core/domain"
)

// ProjectBuilder configures, builds and installs a CMake job.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type ProjectBuilder interface {
	Build(ctx context.Context, job *domain.Job, settings *domain.Settings, out io.Writer) error
}
