package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/testutil"
)

func TestMemoryStore(t *testing.T) {
	testutil.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return storage.NewMemoryStore()
	})
}

func TestJSONStore(t *testing.T) {
	testutil.RunProviderTests(t, func(t *testing.T) storage.Provider {
		s := storage.NewJSONStore(filepath.Join(t.TempDir(), "rotipani.json"))
		require.NoError(t, s.Init())
		return s
	})
}

func TestCachedStore(t *testing.T) {
	testutil.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return storage.NewCachedStore(storage.NewMemoryStore(), 1)
	})
}

func TestJSONStorePersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rotipani.json")

	first := storage.NewJSONStore(path)
	require.NoError(t, first.Init())
	require.NoError(t, first.Set("2024-06-10", `{"lunch":true,"dinner":false}`))
	require.NoError(t, first.Set("userName", "Asha"))

	second := storage.NewJSONStore(path)
	require.NoError(t, second.Load())
	v, ok, err := second.Get("2024-06-10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"lunch":true,"dinner":false}`, v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestJSONStoreLifecycleErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotipani.json")

	t.Run("load before init", func(t *testing.T) {
		err := storage.NewJSONStore(path).Load()
		assert.ErrorIs(t, err, storage.ErrNotInitialized)
	})

	t.Run("use before load", func(t *testing.T) {
		s := storage.NewJSONStore(path)
		_, _, err := s.Get("userName")
		assert.ErrorIs(t, err, storage.ErrNotLoaded)
		assert.ErrorIs(t, s.Set("userName", "x"), storage.ErrNotLoaded)
	})

	t.Run("init twice", func(t *testing.T) {
		s := storage.NewJSONStore(path)
		require.NoError(t, s.Init())
		assert.ErrorIs(t, storage.NewJSONStore(path).Init(), storage.ErrAlreadyInitialized)
	})

	t.Run("corrupt document", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0600))
		assert.Error(t, storage.NewJSONStore(bad).Load())
	})
}

// countingStore records how often the wrapped provider is read.
type countingStore struct {
	*storage.MemoryStore
	gets int
}

func (c *countingStore) Get(key string) (string, bool, error) {
	c.gets++
	return c.MemoryStore.Get(key)
}

func TestCachedStoreServesRepeatReads(t *testing.T) {
	inner := &countingStore{MemoryStore: storage.NewMemoryStore()}
	require.NoError(t, inner.Set("2024-06-10", "v1"))
	cached := storage.NewCachedStore(inner, 1)

	for i := 0; i < 3; i++ {
		v, ok, err := cached.Get("2024-06-10")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v1", v)
	}
	// Absent keys are cached too.
	for i := 0; i < 3; i++ {
		_, ok, err := cached.Get("2024-06-09")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, inner.gets)

	require.NoError(t, cached.Set("2024-06-10", "v2"))
	v, _, err := cached.Get("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "v2", v, "writes must invalidate the cached value")

	require.NoError(t, cached.Set("2024-06-09", "new"))
	_, ok, err := cached.Get("2024-06-09")
	require.NoError(t, err)
	assert.True(t, ok, "writes must invalidate cached absence")

	stats := cached.(*storage.CachedStore).Stats()
	assert.Positive(t, stats.Hits)
}

func TestCachedStoreDisabled(t *testing.T) {
	inner := storage.NewMemoryStore()
	assert.Same(t, inner, storage.NewCachedStore(inner, 0))
}
