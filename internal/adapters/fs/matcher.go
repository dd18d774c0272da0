package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zerr"
)

var _ ports.GlobMatcher = (*Matcher)(nil)

// Matcher expands install rules into the files they select.
type Matcher struct {
	walker *Walker
}

// NewMatcher creates a new Matcher.
func NewMatcher(walker *Walker) *Matcher {
	return &Matcher{walker: walker}
}

// Match returns the files selected by rules below root, rule by rule.
// Within a rule, matches are sorted by their source-relative path.
func (m *Matcher) Match(root string, rules []domain.InstallRule) ([]domain.FileMatch, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPatternFailed.Error()), "root", root)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrPatternFailed, "root", root)
	}

	var out []domain.FileMatch
	for i, rule := range rules {
		matches, err := m.matchRule(root, rule)
		if err != nil {
			return nil, zerr.With(err, "pattern", rule.Include)
		}
		for _, fm := range matches {
			fm.Rule = i
			out = append(out, fm)
		}
	}
	return out, nil
}

func (m *Matcher) matchRule(root string, rule domain.InstallRule) ([]domain.FileMatch, error) {
	pattern := domain.NormalizePath(rule.Include)
	if !doublestar.ValidatePattern(pattern) {
		return nil, domain.ErrPatternFailed
	}
	excludes := make([]string, 0, len(rule.Excludes))
	for _, ex := range rule.Excludes {
		ex = domain.NormalizePath(ex)
		if !doublestar.ValidatePattern(ex) {
			return nil, zerr.With(domain.ErrPatternFailed, "exclude", ex)
		}
		excludes = append(excludes, ex)
	}

	// The constant directory prefix is not part of the destination.
	base, rest := doublestar.SplitPattern(pattern)
	baseDir := filepath.Join(root, filepath.FromSlash(base))
	if _, err := os.Stat(baseDir); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrPatternFailed.Error())
	}

	hits, err := doublestar.Glob(os.DirFS(baseDir), rest, doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPatternFailed.Error())
	}

	seen := make(map[string]struct{})
	var out []domain.FileMatch
	add := func(source, rel string) {
		key := source + "\x00" + rel
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, domain.FileMatch{Source: source, Rel: rel})
	}

	for _, hit := range hits {
		if isExcluded(path.Join(base, hit), excludes) {
			continue
		}
		abs := filepath.Join(baseDir, filepath.FromSlash(hit))
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				// Dangling symlink.
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrPatternFailed.Error()), "path", abs)
		}
		if !info.IsDir() {
			add(abs, hit)
			continue
		}
		for file, err := range m.walker.WalkFiles(abs, nil) {
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrPatternFailed.Error()), "path", abs)
			}
			sub, _ := filepath.Rel(abs, file)
			rel := path.Join(hit, filepath.ToSlash(sub))
			if isExcluded(path.Join(base, rel), excludes) {
				continue
			}
			add(file, rel)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rel < out[j].Rel
	})
	return out, nil
}

// isExcluded reports whether an exclude matches rel or one of its parent directories.
func isExcluded(rel string, excludes []string) bool {
	for _, ex := range excludes {
		for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
			if ok, _ := doublestar.Match(ex, p); ok {
				return true
			}
		}
	}
	return false
}
