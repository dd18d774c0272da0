package cas

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"go.trai.ch/zerr"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

var _ ports.CacheStore = (*IndexStore)(nil)

const indexSchema = `
CREATE TABLE IF NOT EXISTS records (
	job_id TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	revision TEXT NOT NULL,
	recorded_at INTEGER NOT NULL,
	tool_version TEXT NOT NULL,
	format INTEGER NOT NULL
);
`

// IndexStore implements ports.CacheStore with one sqlite database per cache directory.
type IndexStore struct {
	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// NewIndexStore creates a new sqlite-backed store. Databases are opened on first use.
func NewIndexStore() *IndexStore {
	return &IndexStore{dbs: make(map[string]*sql.DB)}
}

// Get retrieves the record of a job.
func (s *IndexStore) Get(dir string, id domain.JobID) (*domain.CacheRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A missing index is an empty cache; do not create it on read.
	if _, err := os.Stat(filepath.Join(dir, domain.IndexFileName)); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	db, err := s.open(dir)
	if err != nil {
		return nil, err
	}

	var (
		record     domain.CacheRecord
		recordedAt int64
	)
	row := db.QueryRow(
		"SELECT job_id, fingerprint, revision, recorded_at, tool_version, format FROM records WHERE job_id = ?",
		string(id),
	)
	err = row.Scan(&record.JobID, &record.Fingerprint, &record.Revision, &recordedAt, &record.ToolVersion, &record.Format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	if record.Format != domain.CacheRecordFormat {
		return nil, zerr.With(domain.ErrStoreUnknownFormat, "format", record.Format)
	}
	record.RecordedAt = time.Unix(0, recordedAt).UTC()

	return &record, nil
}

// Put inserts or replaces the record of a job in a single statement.
func (s *IndexStore) Put(dir string, record domain.CacheRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(dir)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO records (job_id, fingerprint, revision, recorded_at, tool_version, format)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			revision = excluded.revision,
			recorded_at = excluded.recorded_at,
			tool_version = excluded.tool_version,
			format = excluded.format`,
		string(record.JobID), record.Fingerprint, record.Revision,
		record.RecordedAt.UnixNano(), record.ToolVersion, record.Format,
	)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// Close closes every database opened by the store.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for dir, db := range s.dbs {
		errs = append(errs, db.Close())
		delete(s.dbs, dir)
	}
	return errors.Join(errs...)
}

// open must be called with mu held.
func (s *IndexStore) open(dir string) (*sql.DB, error) {
	if db, ok := s.dbs[dir]; ok {
		return db, nil
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	path := filepath.Join(dir, domain.IndexFileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", path)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(indexSchema); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", path)
	}
	s.dbs[dir] = db
	return db, nil
}
