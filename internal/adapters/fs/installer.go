package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
)

var _ ports.FileInstaller = (*Installer)(nil)

// Installer copies the files of header-only and manual jobs.
type Installer struct {
	matcher ports.GlobMatcher
	hasher  *Hasher
	logger  ports.Logger
}

// NewInstaller creates a new Installer.
func NewInstaller(matcher ports.GlobMatcher, hasher *Hasher, logger ports.Logger) *Installer {
	return &Installer{
		matcher: matcher,
		hasher:  hasher,
		logger:  logger,
	}
}

// Plan resolves the install actions of a job.
func (i *Installer) Plan(_ context.Context, job *domain.Job, settings *domain.Settings) (domain.InstallPlan, error) {
	srcRoot := settings.SourceDir(job)
	dstRoot := settings.InstallRoot(job)
	rules := job.Rules()

	matches, err := i.matcher.Match(srcRoot, rules)
	if err != nil {
		return domain.InstallPlan{Job: job.ID()}, err
	}

	counts := make([]int, len(rules))
	actions := make([]domain.InstallAction, 0, len(matches))
	for _, m := range matches {
		counts[m.Rule]++
		rel := domain.JoinDestination(rules[m.Rule].Destination, m.Rel)
		action := domain.InstallAction{
			Source:      m.Source,
			Destination: filepath.Join(dstRoot, filepath.FromSlash(rel)),
			Rule:        m.Rule,
		}
		if settings.PreserveSymlinks && runtime.GOOS != "windows" {
			action.LinkTarget = inTreeLinkTarget(m.Source, srcRoot)
		}
		actions = append(actions, action)
	}

	for idx, n := range counts {
		if n == 0 {
			i.logger.Warn(fmt.Sprintf("%s: pattern %q matched no files", job.Name(), rules[idx].Include))
		}
	}

	plan := domain.NewInstallPlan(job.ID(), actions)
	for _, o := range plan.Overrides {
		i.logger.Warn(fmt.Sprintf("%s: %s overrides %s at %s", job.Name(), o.Winner, o.Dropped, o.Destination))
	}
	return plan, nil
}

// Apply executes a plan. Files written before a failure are left in place.
func (i *Installer) Apply(ctx context.Context, plan domain.InstallPlan, mode domain.ApplyMode) (domain.InstallReport, error) {
	var report domain.InstallReport
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := ApplyAction(action, mode, i.hasher)
		if err != nil {
			return report, err
		}
		report.Record(action.Destination, outcome)
	}
	return report, nil
}

// inTreeLinkTarget returns the link target of src if src is a relative symlink
// that resolves inside root, or "" if it must be copied as a regular file.
func inTreeLinkTarget(src, root string) string {
	info, err := os.Lstat(src)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return ""
	}
	target, err := os.Readlink(src)
	if err != nil || filepath.IsAbs(target) {
		return ""
	}
	resolved := filepath.Join(filepath.Dir(src), target)
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	if _, err := os.Stat(resolved); err != nil {
		return ""
	}
	return target
}
