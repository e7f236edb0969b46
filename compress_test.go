package mrcgo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.mrc.gz")

	f, err := NewGzip(path)
	require.NoError(t, err)
	require.NoError(t, f.SetDataFloat32([]float32{1.5, 2.5}, 1, 1, 2))
	require.NoError(t, f.Close())

	// The file on disk is a gzip container, not a bare MRC stream.
	head, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(head), 2)
	assert.Equal(t, gzipMagic, head[:2])

	g, err := OpenGzip(path, WithReadOnly(true))
	require.NoError(t, err)
	defer g.Close()

	vals, err := g.Data().Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, 2.5}, vals)
}

func TestLz4RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.mrc.lz4")

	f, err := NewLz4(path)
	require.NoError(t, err)
	require.NoError(t, f.SetDataFloat32([]float32{-1, 0, 1}, 1, 1, 3))
	require.NoError(t, f.Close())

	g, err := OpenLz4(path)
	require.NoError(t, err)
	defer g.Close()

	vals, err := g.Data().Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{-1, 0, 1}, vals)
}

func TestNewGzipRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.mrc.gz")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	_, err := NewGzip(path)
	require.Error(t, err)

	f, err := NewGzip(path, WithOverwrite(true))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestOpenBzip2RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.bz2")
	require.NoError(t, os.WriteFile(path, []byte("definitely not bzip2"), 0o644))

	_, err := OpenBzip2(path)
	require.Error(t, err)
}

func TestCompressedCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volume.mrc.gz")

	f, err := NewGzip(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestOpenAutoDispatch(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.mrc")
	f, err := New(plain)
	require.NoError(t, err)
	require.NoError(t, f.SetDataFloat32([]float32{3}, 1, 1, 1))
	require.NoError(t, f.Close())

	gz := filepath.Join(dir, "packed.mrc.gz")
	g, err := NewGzip(gz)
	require.NoError(t, err)
	require.NoError(t, g.SetDataFloat32([]float32{4}, 1, 1, 1))
	require.NoError(t, g.Close())

	for path, want := range map[string]float32{plain: 3, gz: 4} {
		c, err := OpenAuto(path, WithReadOnly(true))
		require.NoError(t, err)
		v, err := c.Data().Float32At(0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, want, v)
		require.NoError(t, c.Close())
	}

	c, err := OpenAuto(plain, WithReadOnly(true))
	require.NoError(t, err)
	_, isFile := c.(*File)
	assert.True(t, isFile, "expected *File for plain stream, got %T", c)
	require.NoError(t, c.Close())
}
