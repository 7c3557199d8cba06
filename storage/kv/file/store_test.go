package filekv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sokoni/core"
)

func TestStore(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Read("cart_items")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})

	t.Run("write then read", func(t *testing.T) {
		payload := []byte(`[{"id":"crs-1","price":100}]`)
		require.NoError(t, store.Write("cart_items", payload))

		got, err := store.Read("cart_items")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Write("cart_items", []byte("[]")))

		got, err := store.Read("cart_items")
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete("cart_items"))
		_, err := store.Read("cart_items")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)

		// deleting a missing key is not an error
		assert.NoError(t, store.Delete("cart_items"))
	})
}

func TestStore_sanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write("../escape/attempt", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dir, filepath.Dir(filepath.Join(dir, entries[0].Name())))

	got, err := store.Read("../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestStore_survivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, store.Write("cart_items", []byte(`["a"]`)))

	reopened, err := New(dir)
	require.NoError(t, err)
	got, err := reopened.Read("cart_items")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), got)
}
