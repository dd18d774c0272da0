package ports

import (
	"context"
	"io"

	"github.com/GrinlexGH/deps/internal/core/domain"
)

// Executor runs external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command to completion, streaming its output.
	// A non-zero exit status is returned as an error carrying the exit code.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}
