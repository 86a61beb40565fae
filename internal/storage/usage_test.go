package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageReportsKeysSortedWithTotal(t *testing.T) {
	backend := NewMemoryBackend(0)
	require.NoError(t, backend.Set("nexus_todos", []byte("12345")))
	require.NoError(t, backend.Set("nexus_icon_cache", []byte("123456789")))
	require.NoError(t, backend.Set("nexus_notes", []byte("12")))

	usage, total, err := Usage(backend)
	require.NoError(t, err)

	assert.Equal(t, []KeyUsage{
		{Key: "nexus_icon_cache", Bytes: 9},
		{Key: "nexus_notes", Bytes: 2},
		{Key: "nexus_todos", Bytes: 5},
	}, usage)
	assert.Equal(t, int64(16), total)
}

func TestUsageEmptyBackend(t *testing.T) {
	usage, total, err := Usage(NewMemoryBackend(0))
	require.NoError(t, err)
	assert.Empty(t, usage)
	assert.Zero(t, total)
}
