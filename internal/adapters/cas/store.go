// Package cas persists cache records, one JSON file per job or a combined sqlite index.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore using a file-per-job strategy.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new file-per-job store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the record of a job.
// A record in an unknown format is reported as an error so the caller rebuilds.
func (s *Store) Get(dir string, id domain.JobID) (*domain.CacheRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filename := s.getFilename(dir, id)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var record domain.CacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", filename)
	}
	if record.Format != domain.CacheRecordFormat {
		return nil, zerr.With(domain.ErrStoreUnknownFormat, "format", record.Format)
	}
	if record.JobID != id {
		return nil, zerr.With(domain.ErrStoreUnmarshalFailed, "job", string(record.JobID))
	}

	return &record, nil
}

// Put writes the record to a temp file in the store directory and renames it into place.
func (s *Store) Put(dir string, record domain.CacheRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "record-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmpName, s.getFilename(dir, record.JobID)); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// Close is a no-op; the file store keeps no handles open.
func (s *Store) Close() error {
	return nil
}

func (s *Store) getFilename(dir string, id domain.JobID) string {
	hash := sha256.Sum256([]byte(id))
	return filepath.Join(dir, hex.EncodeToString(hash[:])+".json")
}
