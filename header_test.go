package mrcgo

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHeader(t *testing.T) {
	h := newDefaultHeader(binary.LittleEndian, false)

	assert.Equal(t, [4]byte{'M', 'A', 'P', ' '}, h.MapIDBytes())
	assert.NoError(t, h.checkMagic())
	assert.Equal(t, stampLittleEndian, h.MachineStamp())
	assert.Equal(t, ModeFloat32, h.Mode())
	assert.Equal(t, int32(20141), h.NVersion())

	mapc, mapr, maps := h.AxisOrder()
	assert.Equal(t, [3]int32{1, 2, 3}, [3]int32{mapc, mapr, maps})

	alpha, beta, gamma := h.CellAngles()
	assert.Equal(t, [3]float32{90, 90, 90}, [3]float32{alpha, beta, gamma})

	// Statistics start undetermined: dmax < dmin, dmean and rms below both.
	assert.Less(t, h.Dmax(), h.Dmin())
	assert.Less(t, h.Dmean(), h.Dmax())
	assert.Less(t, h.Rms(), float32(0))
}

func TestByteOrderFromMachineStamp(t *testing.T) {
	tests := []struct {
		name  string
		stamp [4]byte
		want  binary.ByteOrder
		ok    bool
	}{
		{"little-endian DD", [4]byte{0x44, 0x44, 0, 0}, binary.LittleEndian, true},
		{"little-endian DA", [4]byte{0x44, 0x41, 0, 0}, binary.LittleEndian, true},
		{"big-endian", [4]byte{0x11, 0x11, 0, 0}, binary.BigEndian, true},
		{"zero stamp", [4]byte{}, nil, false},
		{"garbage", [4]byte{0xde, 0xad, 0xbe, 0xef}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := byteOrderFromMachineStamp(tt.stamp)
			if !tt.ok {
				var berr *UnknownByteOrderError
				require.ErrorAs(t, err, &berr)
				assert.Equal(t, tt.stamp, berr.Stamp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, order)
		})
	}
}

func TestHeaderFieldRoundTrip(t *testing.T) {
	orders := map[string]binary.ByteOrder{
		"little-endian": binary.LittleEndian,
		"big-endian":    binary.BigEndian,
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			h := newDefaultHeader(order, false)

			require.NoError(t, h.SetDims(10, 20, 30))
			nx, ny, nz := h.Dims()
			assert.Equal(t, [3]int32{10, 20, 30}, [3]int32{nx, ny, nz})

			require.NoError(t, h.SetStart(-1, -2, -3))
			sx, sy, sz := h.Start()
			assert.Equal(t, [3]int32{-1, -2, -3}, [3]int32{sx, sy, sz})

			require.NoError(t, h.SetSampling(10, 20, 30))
			mx, my, mz := h.Sampling()
			assert.Equal(t, [3]int32{10, 20, 30}, [3]int32{mx, my, mz})

			require.NoError(t, h.SetCellSize(120.5, 130.25, 140.75))
			a, b, c := h.CellSize()
			assert.Equal(t, [3]float32{120.5, 130.25, 140.75}, [3]float32{a, b, c})

			require.NoError(t, h.SetOrigin(1.5, -2.5, 3.5))
			ox, oy, oz := h.Origin()
			assert.Equal(t, [3]float32{1.5, -2.5, 3.5}, [3]float32{ox, oy, oz})

			require.NoError(t, h.SetIspg(401))
			assert.Equal(t, int32(401), h.Ispg())

			require.NoError(t, h.SetStats(-1.5, 2.5, 0.5, 0.25))
			assert.Equal(t, float32(-1.5), h.Dmin())
			assert.Equal(t, float32(2.5), h.Dmax())
			assert.Equal(t, float32(0.5), h.Dmean())
			assert.Equal(t, float32(0.25), h.Rms())
		})
	}
}

func TestHeaderExtType(t *testing.T) {
	h := newDefaultHeader(binary.LittleEndian, false)

	require.NoError(t, h.SetExtType("FEI1"))
	assert.Equal(t, "FEI1", h.ExtType())

	// Short codes are space-padded.
	require.NoError(t, h.SetExtType("A"))
	assert.Equal(t, "A   ", h.ExtType())

	require.Error(t, h.SetExtType("TOOLONG"))
}

func TestHeaderLabels(t *testing.T) {
	h := newDefaultHeader(binary.LittleEndian, false)
	assert.Equal(t, int32(0), h.Nlabl())

	require.NoError(t, h.AddLabel("Created by mrcgo"))
	require.NoError(t, h.AddLabel("second label"))
	assert.Equal(t, int32(2), h.Nlabl())
	assert.Equal(t, "Created by mrcgo", h.Label(0))
	assert.Equal(t, "second label", h.Label(1))
	assert.Equal(t, "", h.Label(2))
	assert.Equal(t, "", h.Label(-1))

	for i := 2; i < MaxLabels; i++ {
		require.NoError(t, h.AddLabel(fmt.Sprintf("label %d", i)))
	}
	require.Error(t, h.AddLabel("one too many"))

	tooLong := make([]byte, labelSize+1)
	for i := range tooLong {
		tooLong[i] = 'x'
	}
	require.Error(t, h.AddLabel(string(tooLong)))
}

func TestHeaderReadOnly(t *testing.T) {
	h := newDefaultHeader(binary.LittleEndian, true)

	assert.ErrorIs(t, h.SetMode(ModeInt16), ErrReadOnly)
	assert.ErrorIs(t, h.SetDims(1, 1, 1), ErrReadOnly)
	assert.ErrorIs(t, h.SetStats(0, 0, 0, 0), ErrReadOnly)
	assert.ErrorIs(t, h.SetExtType("FEI1"), ErrReadOnly)
	assert.ErrorIs(t, h.AddLabel("nope"), ErrReadOnly)
	assert.True(t, h.ReadOnly())
}

func TestReadHeaderBytesShort(t *testing.T) {
	_, err := readHeaderBytes(NewMemoryStream(make([]byte, HeaderSize-1)))
	var terr *TruncatedHeaderError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, HeaderSize-1, terr.Actual)
}
