package mrcgo

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DataBlock is the data region of an MRC stream: a raw byte span plus the
// element mode, shape and byte order derived from the header. The span is a
// direct view of what was read; element accessors decode on demand, so no
// conversion pass or copy is needed to materialize the block.
type DataBlock struct {
	raw      []byte
	mode     Mode
	shape    [3]int // nz, ny, nx
	order    binary.ByteOrder
	readOnly bool
}

// Bytes returns the contiguous raw byte span, in the declared byte order.
// This is the exact span written on flush.
func (d *DataBlock) Bytes() []byte { return d.raw }

// Mode returns the element mode.
func (d *DataBlock) Mode() Mode { return d.mode }

// Shape returns the axis lengths in storage order (sections, rows, columns).
func (d *DataBlock) Shape() (nz, ny, nx int) {
	return d.shape[0], d.shape[1], d.shape[2]
}

// Len returns the number of elements.
func (d *DataBlock) Len() int {
	return d.shape[0] * d.shape[1] * d.shape[2]
}

// ByteOrder returns the byte order elements are encoded in.
func (d *DataBlock) ByteOrder() binary.ByteOrder { return d.order }

// ReadOnly reports whether mutation is blocked.
func (d *DataBlock) ReadOnly() bool { return d.readOnly }

func (d *DataBlock) offset(z, y, x, itemSize int) (int, error) {
	if z < 0 || z >= d.shape[0] || y < 0 || y >= d.shape[1] || x < 0 || x >= d.shape[2] {
		return 0, fmt.Errorf("index (%d, %d, %d) out of range for shape (%d, %d, %d)",
			z, y, x, d.shape[0], d.shape[1], d.shape[2])
	}
	return ((z*d.shape[1]+y)*d.shape[2] + x) * itemSize, nil
}

func (d *DataBlock) requireMode(want Mode) error {
	if d.mode != want {
		return fmt.Errorf("data block holds %s elements, not %s", d.mode, want)
	}
	return nil
}

// Float32At returns the element at (z, y, x) of a float32 data block.
func (d *DataBlock) Float32At(z, y, x int) (float32, error) {
	if err := d.requireMode(ModeFloat32); err != nil {
		return 0, err
	}
	off, err := d.offset(z, y, x, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(d.order.Uint32(d.raw[off : off+4])), nil
}

// SetFloat32At stores v at (z, y, x) of a float32 data block.
func (d *DataBlock) SetFloat32At(z, y, x int, v float32) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if err := d.requireMode(ModeFloat32); err != nil {
		return err
	}
	off, err := d.offset(z, y, x, 4)
	if err != nil {
		return err
	}
	d.order.PutUint32(d.raw[off:off+4], math.Float32bits(v))
	return nil
}

// Int8At returns the element at (z, y, x) of an int8 data block.
func (d *DataBlock) Int8At(z, y, x int) (int8, error) {
	if err := d.requireMode(ModeInt8); err != nil {
		return 0, err
	}
	off, err := d.offset(z, y, x, 1)
	if err != nil {
		return 0, err
	}
	return int8(d.raw[off]), nil
}

// Int16At returns the element at (z, y, x) of an int16 data block.
func (d *DataBlock) Int16At(z, y, x int) (int16, error) {
	if err := d.requireMode(ModeInt16); err != nil {
		return 0, err
	}
	off, err := d.offset(z, y, x, 2)
	if err != nil {
		return 0, err
	}
	return int16(d.order.Uint16(d.raw[off : off+2])), nil
}

// Uint16At returns the element at (z, y, x) of a uint16 data block.
func (d *DataBlock) Uint16At(z, y, x int) (uint16, error) {
	if err := d.requireMode(ModeUint16); err != nil {
		return 0, err
	}
	off, err := d.offset(z, y, x, 2)
	if err != nil {
		return 0, err
	}
	return d.order.Uint16(d.raw[off : off+2]), nil
}

// Complex64At returns the element at (z, y, x) of a complex64 data block.
func (d *DataBlock) Complex64At(z, y, x int) (complex64, error) {
	if err := d.requireMode(ModeComplex64); err != nil {
		return 0, err
	}
	off, err := d.offset(z, y, x, 8)
	if err != nil {
		return 0, err
	}
	re := math.Float32frombits(d.order.Uint32(d.raw[off : off+4]))
	im := math.Float32frombits(d.order.Uint32(d.raw[off+4 : off+8]))
	return complex(re, im), nil
}

// Float32s decodes a float32 data block into a freshly allocated slice in
// flat (z, y, x) order.
func (d *DataBlock) Float32s() ([]float32, error) {
	if err := d.requireMode(ModeFloat32); err != nil {
		return nil, err
	}
	out := make([]float32, d.Len())
	for i := range out {
		out[i] = math.Float32frombits(d.order.Uint32(d.raw[i*4 : i*4+4]))
	}
	return out, nil
}

// Int16s decodes an int16 data block into a freshly allocated slice in flat
// (z, y, x) order.
func (d *DataBlock) Int16s() ([]int16, error) {
	if err := d.requireMode(ModeInt16); err != nil {
		return nil, err
	}
	out := make([]int16, d.Len())
	for i := range out {
		out[i] = int16(d.order.Uint16(d.raw[i*2 : i*2+2]))
	}
	return out, nil
}
