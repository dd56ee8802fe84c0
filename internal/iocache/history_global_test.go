package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/forecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &HistoryStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite file", func(t *testing.T) {
		resetManager(t)
		dbPath := filepath.Join(t.TempDir(), "history.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		require.NotNil(t, Manager.GetHistoryStore())
		CloseStores()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "database file should exist")
	})

	t.Run("idempotent", func(t *testing.T) {
		resetManager(t)
		dbPath := filepath.Join(t.TempDir(), "history.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		first := Manager.GetHistoryStore()
		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.Same(t, first, Manager.GetHistoryStore())
		CloseStores()
		CloseStores()
	})

	t.Run("empty backend disables tracking", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores("", ""))
		assert.Nil(t, Manager.GetHistoryStore())
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.NoneBackend, ""))
		store := Manager.GetHistoryStore()
		require.NotNil(t, store)
		runID, err := store.BeginRun(time.Now(), testMeta(), nil)
		assert.NoError(t, err)
		assert.Zero(t, runID)
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetManager(t)
		err := InitStores(schema.DatabaseBackend("bogus"), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize history store")
		assert.Nil(t, Manager.GetHistoryStore())
	})
}

func TestHistoryStoreManagerConcurrency(t *testing.T) {
	resetManager(t)
	require.NoError(t, InitStores(schema.SQLiteBackend, ":memory:"))
	defer CloseStores()

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			assert.NotNil(t, Manager.GetHistoryStore())
		})
	}
	wg.Wait()
}

func TestClearHistory(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "history.db")
		store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		err := ClearHistory(schema.SQLiteBackend, "", "")
		assert.Error(t, err)
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		err := ClearHistory(schema.DatabaseBackend("bogus"), "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported history backend")
	})
}
