package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"go.trai.ch/zerr"
)

// ApplyAction brings one destination in line with its source.
// In ModeDryRun and ModeVerify the outcome is computed without touching the filesystem.
func ApplyAction(action domain.InstallAction, mode domain.ApplyMode, digests Digester) (domain.Outcome, error) {
	if action.LinkTarget != "" {
		return applyLink(action, mode)
	}

	srcInfo, err := os.Stat(action.Source)
	if err != nil {
		return 0, installErr(err, action)
	}

	outcome, err := compare(action, srcInfo, digests)
	if err != nil {
		return 0, installErr(err, action)
	}
	if outcome == domain.OutcomeUnchanged || mode != domain.ModeApply {
		return outcome, nil
	}

	if err := copyFile(action.Source, action.Destination, srcInfo); err != nil {
		return 0, installErr(err, action)
	}
	return outcome, nil
}

func compare(action domain.InstallAction, srcInfo iofs.FileInfo, digests Digester) (domain.Outcome, error) {
	dstInfo, err := os.Lstat(action.Destination)
	if errors.Is(err, iofs.ErrNotExist) {
		return domain.OutcomeCreated, nil
	}
	if err != nil {
		return 0, err
	}
	if dstInfo.IsDir() {
		return 0, zerr.With(domain.ErrInstallFailed, "reason", "destination is a directory")
	}
	if !dstInfo.Mode().IsRegular() || dstInfo.Size() != srcInfo.Size() {
		return domain.OutcomeUpdated, nil
	}
	if dstInfo.Mode().Perm() != srcInfo.Mode().Perm() {
		return domain.OutcomeUpdated, nil
	}

	srcSum, err := digests.ComputeFileHash(action.Source)
	if err != nil {
		return 0, err
	}
	dstSum, err := digests.ComputeFileHash(action.Destination)
	if err != nil {
		return 0, err
	}
	if srcSum != dstSum {
		return domain.OutcomeUpdated, nil
	}
	return domain.OutcomeUnchanged, nil
}

// copyFile writes dst through a temp file in the same directory and renames it into place.
func copyFile(src, dst string, srcInfo iofs.FileInfo) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // Source comes from a matched install rule
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	tmp, err := os.CreateTemp(dir, ".deps-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chtimes(tmpName, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return err
	}
	// A symlink at dst is replaced, not followed.
	if info, err := os.Lstat(dst); err == nil && info.Mode()&iofs.ModeSymlink != 0 {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	return os.Rename(tmpName, dst)
}

func applyLink(action domain.InstallAction, mode domain.ApplyMode) (domain.Outcome, error) {
	if current, err := os.Readlink(action.Destination); err == nil && current == action.LinkTarget {
		return domain.OutcomeUnchanged, nil
	}
	if mode != domain.ModeApply {
		return domain.OutcomeLinked, nil
	}

	dir := filepath.Dir(action.Destination)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return 0, installErr(err, action)
	}
	if info, err := os.Lstat(action.Destination); err == nil {
		if info.IsDir() {
			return 0, installErr(zerr.With(domain.ErrInstallFailed, "reason", "destination is a directory"), action)
		}
		if err := os.Remove(action.Destination); err != nil {
			return 0, installErr(err, action)
		}
	}
	if err := os.Symlink(action.LinkTarget, action.Destination); err != nil {
		return 0, installErr(err, action)
	}
	return domain.OutcomeLinked, nil
}

func installErr(err error, action domain.InstallAction) error {
	err = zerr.Wrap(err, domain.ErrInstallFailed.Error())
	err = zerr.With(err, "source", action.Source)
	return zerr.With(err, "destination", action.Destination)
}
