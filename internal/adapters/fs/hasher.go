package fs

import (
	"io"
	"os"
	"time"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/zerr"
)

// DigestCacheSize bounds the number of file digests remembered per process.
const DigestCacheSize = 4096

// Digester computes content digests of files.
type Digester interface {
	ComputeFileHash(path string) (uint64, error)
}

// Hasher computes xxhash content digests and remembers them per (path, size, mtime).
type Hasher struct {
	cache *lru.Cache[digestKey, uint64]
}

type digestKey struct {
	path  string
	size  int64
	mtime time.Time
}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	cache, _ := lru.New[digestKey, uint64](DigestCacheSize)
	return &Hasher{cache: cache}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	key := digestKey{path: path, size: info.Size(), mtime: info.ModTime()}
	if sum, ok := h.cache.Get(key); ok {
		return sum, nil
	}

	sum, err := hashFile(path)
	if err != nil {
		return 0, err
	}
	h.cache.Add(key, sum)
	return sum, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return digest.Sum64(), nil
}
