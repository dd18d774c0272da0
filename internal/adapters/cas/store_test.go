package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GrinlexGH/deps/internal/adapters/cas"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id domain.JobID, fingerprint string) domain.CacheRecord {
	return domain.NewCacheRecord(id, fingerprint, "abc123", "v1.0.0", time.Unix(1700000000, 0))
}

func assertRecord(t *testing.T, want domain.CacheRecord, got *domain.CacheRecord) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.Format, got.Format)
	assert.Equal(t, want.JobID, got.JobID)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.Equal(t, want.Revision, got.Revision)
	assert.Equal(t, want.ToolVersion, got.ToolVersion)
	assert.True(t, want.RecordedAt.Equal(got.RecordedAt))
}

func storeFactories() map[string]func() ports.CacheStore {
	return map[string]func() ports.CacheStore{
		"file":   func() ports.CacheStore { return cas.NewStore() },
		"sqlite": func() ports.CacheStore { return cas.NewIndexStore() },
	}
}

func TestStores_PutGet(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), ".deps-cache")
			store := factory()
			t.Cleanup(func() { _ = store.Close() })

			t.Run("get from missing directory", func(t *testing.T) {
				got, err := store.Get(filepath.Join(t.TempDir(), "nope"), "SDL@SDL")
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			rec := newRecord("SDL@SDL", "fp-1")
			require.NoError(t, store.Put(dir, rec))

			got, err := store.Get(dir, "SDL@SDL")
			require.NoError(t, err)
			assertRecord(t, rec, got)

			missing, err := store.Get(dir, "glm@header:glm")
			require.NoError(t, err)
			assert.Nil(t, missing)

			updated := newRecord("SDL@SDL", "fp-2")
			require.NoError(t, store.Put(dir, updated))

			got, err = store.Get(dir, "SDL@SDL")
			require.NoError(t, err)
			assertRecord(t, updated, got)
		})
	}
}

func TestStores_IndependentJobs(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			store := factory()
			t.Cleanup(func() { _ = store.Close() })

			a := newRecord("SDL@SDL", "fp-a")
			b := newRecord("tinyobjloader@tinyobjloader", "fp-b")
			require.NoError(t, store.Put(dir, a))
			require.NoError(t, store.Put(dir, b))

			gotA, err := store.Get(dir, a.JobID)
			require.NoError(t, err)
			assertRecord(t, a, gotA)

			gotB, err := store.Get(dir, b.JobID)
			require.NoError(t, err)
			assertRecord(t, b, gotB)
		})
	}
}

func TestStore_Corrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Put(dir, newRecord("SDL@SDL", "fp")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	err = os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{ invalid json"), 0o600)
	require.NoError(t, err)

	_, err = store.Get(dir, "SDL@SDL")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_UnknownFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Put(dir, newRecord("SDL@SDL", "fp")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	future := `{"format": 99, "job_id": "SDL@SDL", "fingerprint": "fp"}`
	err = os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte(future), 0o600)
	require.NoError(t, err)

	_, err = store.Get(dir, "SDL@SDL")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnknownFormat.Error())
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()
	for i := range 5 {
		rec := newRecord("SDL@SDL", "fp")
		rec.Revision = string(rune('a' + i))
		require.NoError(t, store.Put(dir, rec))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestIndexStore_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecord("SDL@SDL", "fp")

	first := cas.NewIndexStore()
	require.NoError(t, first.Put(dir, rec))
	require.NoError(t, first.Close())

	assert.FileExists(t, filepath.Join(dir, domain.IndexFileName))

	second := cas.NewIndexStore()
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Get(dir, rec.JobID)
	require.NoError(t, err)
	assertRecord(t, rec, got)
}

func TestIndexStore_GetDoesNotCreateIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewIndexStore()
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.Get(dir, "SDL@SDL")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoFileExists(t, filepath.Join(dir, domain.IndexFileName))
}
