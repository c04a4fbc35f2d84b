package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePersistCreatesDirectoryAndWritesRecord(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "queue")
	store := NewStore(dir)
	length := 42
	rec := domain.Record{
		At: time.UnixMilli(1700000009000),
		Observations: []domain.Observation{
			{At: time.UnixMilli(1700000001000), Position: 12, QueueLength: &length},
		},
	}

	require.NoError(t, store.Persist(context.Background(), rec))

	data, err := os.ReadFile(filepath.Join(dir, "1700000009000.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"1700000001000":[12,42]}`, string(data))
}

func TestStorePersistToleratesExistingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Persist(context.Background(), domain.Record{At: time.UnixMilli(1)}))
	require.NoError(t, store.Persist(context.Background(), domain.Record{At: time.UnixMilli(2)}))

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStorePersistConcurrentLanesShareDirectory(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "queue"))

	const lanes = 8
	var wg sync.WaitGroup
	errs := make(chan error, lanes)
	for i := 0; i < lanes; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Persist(context.Background(), domain.Record{At: time.UnixMilli(int64(1000 + i))})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, lanes)
}

func TestStorePersistSameMillisecondOverwrites(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	at := time.UnixMilli(1700000009000)

	first := domain.Record{At: at, Observations: []domain.Observation{{At: time.UnixMilli(1700000001000), Position: 10}}}
	second := domain.Record{At: at, Observations: []domain.Observation{{At: time.UnixMilli(1700000002000), Position: 3}}}

	require.NoError(t, store.Persist(context.Background(), first))
	require.NoError(t, store.Persist(context.Background(), second))
	assert.Equal(t, store.PathFor(first), store.PathFor(second))

	data, err := os.ReadFile(store.PathFor(second))
	require.NoError(t, err)
	assert.JSONEq(t, `{"1700000002000":[3,null]}`, string(data))

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Observations[0].Position)
}

func TestStorePersistFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "queue")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o600))

	err := NewStore(blocker).Persist(context.Background(), domain.Record{At: time.UnixMilli(1)})
	assert.ErrorContains(t, err, "create directory")
}

func TestStorePersistFailsWithoutWritePermission(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	dir := filepath.Join(t.TempDir(), "queue")
	require.NoError(t, os.Mkdir(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := NewStore(dir).Persist(context.Background(), domain.Record{At: time.UnixMilli(1)})
	assert.ErrorContains(t, err, "create temp file")
}

func TestStoreListIgnoresForeignFilesAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "later.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2000.json"), []byte(`{"1500":[2,null]}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1000.json"), []byte(`{"500":[7,9]}`), 0o600))

	records, err := NewStore(dir).List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1000), records[0].Key())
	assert.Equal(t, int64(2000), records[1].Key())
}

func TestStoreListMissingDirectory(t *testing.T) {
	t.Parallel()

	records, err := NewStore(filepath.Join(t.TempDir(), "missing")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
