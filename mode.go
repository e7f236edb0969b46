package mrcgo

import (
	"fmt"
	"math"
)

// Mode is the MRC mode field: it selects the element type of the data block.
type Mode int32

// Recognized modes per the MRC2014 standard.
const (
	ModeInt8         Mode = 0  // signed 8-bit integer
	ModeInt16        Mode = 1  // signed 16-bit integer
	ModeFloat32      Mode = 2  // IEEE 754 32-bit float
	ModeComplexInt16 Mode = 3  // two signed 16-bit integers (real, imaginary)
	ModeComplex64    Mode = 4  // two 32-bit floats (real, imaginary)
	ModeUint16       Mode = 6  // unsigned 16-bit integer
	ModeFloat16      Mode = 12 // IEEE 754 16-bit float, kept as opaque 2-byte elements
)

var modeItemSizes = map[Mode]int{
	ModeInt8:         1,
	ModeInt16:        2,
	ModeFloat32:      4,
	ModeComplexInt16: 4,
	ModeComplex64:    8,
	ModeUint16:       2,
	ModeFloat16:      2,
}

// ItemSize returns the element size in bytes, or an InvalidModeError for an
// unrecognized mode.
func (m Mode) ItemSize() (int, error) {
	size, ok := modeItemSizes[m]
	if !ok {
		return 0, &InvalidModeError{Mode: m}
	}
	return size, nil
}

// Valid reports whether the mode maps to a known element type.
func (m Mode) Valid() bool {
	_, ok := modeItemSizes[m]
	return ok
}

func (m Mode) String() string {
	switch m {
	case ModeInt8:
		return "int8"
	case ModeInt16:
		return "int16"
	case ModeFloat32:
		return "float32"
	case ModeComplexInt16:
		return "complex-int16"
	case ModeComplex64:
		return "complex64"
	case ModeUint16:
		return "uint16"
	case ModeFloat16:
		return "float16"
	}
	return fmt.Sprintf("mode(%d)", int32(m))
}

// shapeFromHeader derives the data shape (nz, ny, nx) from the dimension
// fields. Axis lengths may be zero (empty map) but never negative.
func shapeFromHeader(h *Header) ([3]int, error) {
	nx, ny, nz := h.Nx(), h.Ny(), h.Nz()
	if nx < 0 || ny < 0 || nz < 0 {
		return [3]int{}, &InvalidShapeError{Nx: nx, Ny: ny, Nz: nz}
	}
	return [3]int{int(nz), int(ny), int(nx)}, nil
}

// byteLength returns itemSize × nz × ny × nx, or false when the product does
// not fit in an int. Each axis fits int32 on its own, so the product of four
// in-range factors can still overflow 64-bit arithmetic.
func byteLength(itemSize, nz, ny, nx int) (int, bool) {
	n := itemSize
	for _, axis := range [3]int{nz, ny, nx} {
		if axis != 0 && n > math.MaxInt/axis {
			return 0, false
		}
		n *= axis
	}
	return n, true
}

// dataLength computes the required data block byte length from the header's
// mode and dimension fields.
func dataLength(h *Header) (int, error) {
	itemSize, err := h.Mode().ItemSize()
	if err != nil {
		return 0, err
	}
	shape, err := shapeFromHeader(h)
	if err != nil {
		return 0, err
	}
	n, ok := byteLength(itemSize, shape[0], shape[1], shape[2])
	if !ok {
		return 0, &InvalidShapeError{Nx: h.Nx(), Ny: h.Ny(), Nz: h.Nz()}
	}
	return n, nil
}
