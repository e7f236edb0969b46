package mrcgo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlock(mode Mode, nz, ny, nx int, raw []byte) *DataBlock {
	return &DataBlock{
		raw:   raw,
		mode:  mode,
		shape: [3]int{nz, ny, nx},
		order: binary.LittleEndian,
	}
}

func TestDataBlockFloat32(t *testing.T) {
	d := newTestBlock(ModeFloat32, 1, 2, 2, f32bytes(binary.LittleEndian, 1, 2, 3, 4))

	assert.Equal(t, 4, d.Len())
	v, err := d.Float32At(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(4), v)

	require.NoError(t, d.SetFloat32At(0, 0, 1, 9))
	vals, err := d.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 9, 3, 4}, vals)
}

func TestDataBlockIndexOutOfRange(t *testing.T) {
	d := newTestBlock(ModeFloat32, 1, 2, 2, make([]byte, 16))

	_, err := d.Float32At(1, 0, 0)
	require.Error(t, err)
	_, err = d.Float32At(0, -1, 0)
	require.Error(t, err)
	_, err = d.Float32At(0, 0, 2)
	require.Error(t, err)
}

func TestDataBlockModeMismatch(t *testing.T) {
	d := newTestBlock(ModeInt16, 1, 1, 1, make([]byte, 2))

	_, err := d.Float32At(0, 0, 0)
	require.Error(t, err)
	_, err = d.Float32s()
	require.Error(t, err)
}

func TestDataBlockIntegers(t *testing.T) {
	d8 := newTestBlock(ModeInt8, 1, 1, 2, []byte{0xff, 0x7f})
	v8, err := d8.Int8At(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), v8)

	d16 := newTestBlock(ModeInt16, 1, 1, 2, []byte{0xfe, 0xff, 0x02, 0x00})
	v16, err := d16.Int16At(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), v16)
	vals, err := d16.Int16s()
	require.NoError(t, err)
	assert.Equal(t, []int16{-2, 2}, vals)

	u16 := newTestBlock(ModeUint16, 1, 1, 1, []byte{0xff, 0xff})
	vu, err := u16.Uint16At(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xffff), vu)
}

func TestDataBlockComplex64(t *testing.T) {
	raw := f32bytes(binary.LittleEndian, 1.5, -2.5)
	d := newTestBlock(ModeComplex64, 1, 1, 1, raw)

	v, err := d.Complex64At(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, complex(float32(1.5), float32(-2.5)), v)
}
