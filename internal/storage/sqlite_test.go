package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T, quota int64) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "nexus.db"), quota)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	backend := newTestSQLite(t, 0)

	_, found, err := backend.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Set("k", []byte(`{"v":1}`)))
	value, found, err := backend.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"v":1}`), value)

	// Overwrite in place.
	require.NoError(t, backend.Set("k", []byte(`{"v":2}`)))
	value, _, err = backend.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), value)

	require.NoError(t, backend.Remove("k"))
	_, found, err = backend.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	// Removing an absent key is not an error.
	require.NoError(t, backend.Remove("k"))
}

func TestSQLiteBackendQuota(t *testing.T) {
	backend := newTestSQLite(t, 8)

	require.NoError(t, backend.Set("a", []byte("1234")))
	require.NoError(t, backend.Set("b", []byte("1234")))
	assert.ErrorIs(t, backend.Set("c", []byte("x")), ErrQuotaExceeded)

	// Replacing an existing value is measured against the delta, not
	// double-counted.
	require.NoError(t, backend.Set("a", []byte("12345678")[:4]))

	used, err := backend.UsedBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(8), used)
}

func TestSQLiteBackendKeys(t *testing.T) {
	backend := newTestSQLite(t, 0)

	require.NoError(t, backend.Set("b", []byte("2")))
	require.NoError(t, backend.Set("a", []byte("1")))

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}
