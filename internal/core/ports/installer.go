package ports

import (
	"context"

	"github.com/GrinlexGH/deps/internal/core/domain"
)

// FileInstaller copies the files selected by a job's install rules.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type FileInstaller interface {
	// Plan matches the job's rules against its source tree and resolves destinations.
	Plan(ctx context.Context, job *domain.Job, settings *domain.Settings) (domain.InstallPlan, error)

	// Apply executes a plan in the given mode.
	Apply(ctx context.Context, plan domain.InstallPlan, mode domain.ApplyMode) (domain.InstallReport, error)
}

// GlobMatcher expands install rules below a source root.
type GlobMatcher interface {
	Match(root string, rules []domain.InstallRule) ([]domain.FileMatch, error)
}
