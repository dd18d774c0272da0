package domain

import (
	"path/filepath"
	"runtime"
)

const (
	// DefaultSourcesDir is the directory holding checked out dependency sources.
	DefaultSourcesDir = "src"

	// DefaultInstallBase is the directory the platform install tree is placed under.
	DefaultInstallBase = "bin"

	// DefaultHeaderSubdir is the install subdirectory shared by header-only jobs.
	DefaultHeaderSubdir = "header-only"

	// DefaultCMake is the cmake executable used when none is configured.
	DefaultCMake = "cmake"

	// DefaultBuildFolder is the build folder used when a CMake job leaves it empty.
	DefaultBuildFolder = "build"

	// CacheDirName is the name of the cache directory created inside the install dir.
	CacheDirName = ".deps-cache"

	// IndexFileName is the name of the sqlite cache index.
	IndexFileName = "index.db"

	// LockFileName is the name of the lock file inside a build directory.
	LockFileName = ".lock"

	// JobsFileName is the conventional name of a jobs file.
	JobsFileName = "deps.yaml"

	// MaxBuildDirAttempts bounds the fallback build folders tried when a lock is held.
	MaxBuildDirAttempts = 64

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// Platform returns the platform name used in the default install path.
func Platform() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

// DefaultInstallDir returns bin/<Platform>.
func DefaultInstallDir() string {
	return filepath.Join(DefaultInstallBase, Platform())
}

// DefaultCacheDir returns the cache directory used for the given install dir.
func DefaultCacheDir(installDir string) string {
	return filepath.Join(installDir, CacheDirName)
}
