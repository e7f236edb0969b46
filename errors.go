package mrcgo

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnly is returned when a mutation is attempted on a read-only
	// header, extended header or data block.
	ErrReadOnly = errors.New("instance is read-only")

	// ErrClosed is returned when an operation is attempted after Close.
	ErrClosed = errors.New("interpreter is closed")

	// ErrNotOpen is returned when Flush is called before a header exists.
	ErrNotOpen = errors.New("interpreter has no header")

	// ErrMmapUnsupported indicates that memory mapping isn't available on
	// this platform.
	ErrMmapUnsupported = errors.New("mmap unsupported")
)

// TruncatedHeaderError indicates that the stream ended before a full
// 1024-byte header could be read. This is never downgraded by permissive
// mode: without a complete header nothing else can be derived.
type TruncatedHeaderError struct {
	Expected int
	Actual   int
	cause    error
}

func (e *TruncatedHeaderError) Error() string {
	return fmt.Sprintf("truncated header: expected %d bytes, got %d", e.Expected, e.Actual)
}

func (e *TruncatedHeaderError) Unwrap() error { return e.cause }

// FormatMismatchError indicates that the map identifier field does not hold
// the "MAP " marker, so the stream is not an MRC file or is corrupt.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type FormatMismatchError struct {
	MapID [4]byte
	cause error
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("map ID %q not found - not an MRC file, or file is corrupt", e.MapID)
}

func (e *FormatMismatchError) Unwrap() error { return e.cause }

// UnknownByteOrderError indicates an unrecognized machine stamp.
type UnknownByteOrderError struct {
	Stamp [4]byte
	cause error
}

func (e *UnknownByteOrderError) Error() string {
	return fmt.Sprintf("unrecognized machine stamp: [% x]", e.Stamp)
}

func (e *UnknownByteOrderError) Unwrap() error { return e.cause }

// InvalidModeError indicates a mode field that maps to no known element type.
type InvalidModeError struct {
	Mode  Mode
	cause error
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("unrecognized mode %d", int32(e.Mode))
}

func (e *InvalidModeError) Unwrap() error { return e.cause }

// InvalidShapeError indicates dimension fields that derive no storable data
// shape: a negative axis length, or a byte length that overflows int.
type InvalidShapeError struct {
	Nx, Ny, Nz int32
	cause      error
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid data shape (%d, %d, %d)", e.Nz, e.Ny, e.Nx)
}

func (e *InvalidShapeError) Unwrap() error { return e.cause }

// TruncatedDataError indicates that the stream held fewer data bytes than the
// header-derived dtype and shape require.
type TruncatedDataError struct {
	Expected int
	Actual   int
	cause    error
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("expected %d bytes in data block but could only read %d", e.Expected, e.Actual)
}

func (e *TruncatedDataError) Unwrap() error { return e.cause }
