// Package fs provides file system adapters for matching, hashing and installing files.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root in lexical order, skipping .git.
// Symlinked directories are descended into once; yielded paths keep the link path.
// Ignores are doublestar patterns matched against the slash-separated path relative to root.
// The first I/O error is yielded and ends the walk.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		real, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield("", err)
			return
		}
		w.walk(root, root, real, ignores, map[string]bool{}, yield)
	}
}

// walk walks realDir and reports paths as if they were below displayDir.
func (w *Walker) walk(
	root, displayDir, realDir string,
	ignores []string,
	visited map[string]bool,
	yield func(string, error) bool,
) bool {
	if visited[realDir] {
		return true
	}
	visited[realDir] = true

	cont := true
	err := filepath.WalkDir(realDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == realDir {
			return nil
		}
		rel, _ := filepath.Rel(realDir, p)
		display := filepath.Join(displayDir, rel)

		if w.shouldSkip(root, display, d, ignores) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if info, statErr := os.Stat(p); statErr == nil && info.IsDir() {
				target, evalErr := filepath.EvalSymlinks(p)
				if evalErr != nil {
					return evalErr
				}
				if !w.walk(root, display, target, ignores, visited, yield) {
					cont = false
					return filepath.SkipAll
				}
				return nil
			}
		}

		if !yield(display, nil) {
			cont = false
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && cont {
		yield("", err)
		return false
	}
	return cont
}

func (w *Walker) shouldSkip(root, path string, d fs.DirEntry, ignores []string) bool {
	if d.IsDir() && d.Name() == ".git" {
		return true
	}
	if len(ignores) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ignore := range ignores {
		if matched, _ := doublestar.Match(ignore, rel); matched {
			return true
		}
	}
	return false
}
