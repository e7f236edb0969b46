package mrcgo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.mrc")
	f, err := New(path)
	require.NoError(t, err)
	require.NoError(t, f.SetDataFloat32([]float32{42}, 1, 1, 1))
	require.NoError(t, f.Close())

	fut := OpenAsync(path, WithReadOnly(true))
	defer fut.Close()

	g, err := fut.Result()
	require.NoError(t, err)
	v, err := g.Data().Float32At(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(42), v)

	// Result is stable across calls.
	g2, err := fut.Result()
	require.NoError(t, err)
	assert.Same(t, g, g2)
}

func TestOpenAsyncError(t *testing.T) {
	fut := OpenAsync(filepath.Join(t.TempDir(), "missing.mrc"))

	_, err := fut.Result()
	require.Error(t, err)

	// Close reports the failed open rather than swallowing it.
	assert.Equal(t, err, fut.Close())
}
