// Package git reads source revisions from git worktrees and plain directories.
package git

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GrinlexGH/deps/internal/adapters/fs"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.trai.ch/zerr"
)

const (
	dirtyPrefix = "+dirty."
	treePrefix  = "tree."
)

var _ ports.RevisionReader = (*Reader)(nil)

// Reader implements ports.RevisionReader.
// Inside a git worktree the revision is the HEAD commit, suffixed with a content
// digest of the changed files when the worktree is dirty. Outside of git it is a
// digest of every file path and content.
type Reader struct {
	walker  *fs.Walker
	digests fs.Digester
}

// NewReader creates a new Reader.
func NewReader(walker *fs.Walker, digests fs.Digester) *Reader {
	return &Reader{walker: walker, digests: digests}
}

// Revision returns the revision of the tree at dir.
func (r *Reader) Revision(ctx context.Context, dir string, exclude []string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return r.treeRevision(ctx, dir, exclude)
	}
	if err != nil {
		return "", revisionErr(err, dir)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: nothing committed yet.
		return r.treeRevision(ctx, dir, exclude)
	}
	if err != nil {
		return "", revisionErr(err, dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", revisionErr(err, dir)
	}
	status, err := wt.Status()
	if err != nil {
		return "", revisionErr(err, dir)
	}

	prefix, err := worktreePrefix(wt.Filesystem.Root(), dir)
	if err != nil {
		return "", revisionErr(err, dir)
	}

	var changed []string
	for p, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		rel, ok := strings.CutPrefix(p, prefix)
		if !ok || excluded(rel, exclude) {
			continue
		}
		changed = append(changed, p)
	}

	commit := head.Hash().String()
	if len(changed) == 0 {
		return commit, nil
	}
	sort.Strings(changed)

	h := xxhash.New()
	var buf [8]byte
	for _, p := range changed {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s := status[p]
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0, byte(s.Staging), byte(s.Worktree), 0})
		if s.Worktree == git.Deleted || (s.Staging == git.Deleted && s.Worktree != git.Untracked) {
			continue
		}
		sum, err := r.digests.ComputeFileHash(filepath.Join(wt.Filesystem.Root(), filepath.FromSlash(p)))
		if err != nil {
			// Raced with a deletion; the status byte already differs from the clean state.
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], sum)
		_, _ = h.Write(buf[:])
	}

	return fmt.Sprintf("%s%s%016x", commit, dirtyPrefix, h.Sum64()), nil
}

func (r *Reader) treeRevision(ctx context.Context, dir string, exclude []string) (string, error) {
	h := xxhash.New()
	var buf [8]byte
	for path, err := range r.walker.WalkFiles(dir, exclude) {
		if err != nil {
			return "", revisionErr(err, dir)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return "", revisionErr(err, dir)
		}
		sum, err := r.digests.ComputeFileHash(path)
		if err != nil {
			return "", revisionErr(err, dir)
		}
		_, _ = h.WriteString(filepath.ToSlash(rel))
		_, _ = h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], sum)
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("%s%016x", treePrefix, h.Sum64()), nil
}

// worktreePrefix returns the slash-separated path of dir inside the worktree, with a trailing slash.
func worktreePrefix(root, dir string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(realRoot, realDir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func revisionErr(err error, dir string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrRevisionReadFailed.Error()), "path", dir)
}
