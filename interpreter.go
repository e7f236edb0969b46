package mrcgo

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Interpreter interprets an I/O stream as MRC data: the fixed header, the
// extended header and the data block, in that order. It owns the stream
// exclusively while open and is the only mutator of it.
//
// The zero value is not usable; construct with Interpret (read an existing
// stream) or NewInterpreter (default-initialized regions for a stream that
// will be written).
//
// Close must be called when done, normally via defer. There is no finalizer:
// an Interpreter that is garbage collected without Close does not flush.
type Interpreter struct {
	stream     Stream
	header     *Header
	extended   []byte
	data       *DataBlock
	permissive bool
	readOnly   bool
	logger     *Logger
	warnings   []error
	closed     bool
}

// Interpret reads header, extended header and data from the stream, which
// must be positioned at the start of the header. On success the stream has
// been advanced to the end of the data block. On a hard failure the stream is
// left wherever the failing stage stopped and no Interpreter is returned.
func Interpret(stream Stream, optFns ...Option) (*Interpreter, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	it := &Interpreter{
		stream:     stream,
		permissive: o.permissive,
		readOnly:   o.readOnly,
		logger:     o.logger,
	}
	if err := it.read(); err != nil {
		it.logger.LogOpen(0, 0, 0, 0, err)
		return nil, err
	}
	nz, ny, nx := 0, 0, 0
	if it.data != nil {
		nz, ny, nx = it.data.Shape()
	}
	it.logger.LogOpen(it.header.Mode(), nz, ny, nx, nil)
	return it, nil
}

// NewInterpreter builds an Interpreter over a stream that will be written
// rather than read: a default header (float32 mode, little-endian, valid map
// ID and machine stamp, undetermined statistics), an empty extended header
// and an empty data block. Nothing is read from or written to the stream
// until Flush.
func NewInterpreter(stream Stream, optFns ...Option) *Interpreter {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	h := newDefaultHeader(binary.LittleEndian, o.readOnly)
	return &Interpreter{
		stream:     stream,
		header:     h,
		extended:   []byte{},
		data:       &DataBlock{raw: []byte{}, mode: ModeFloat32, order: h.order, readOnly: o.readOnly},
		permissive: o.permissive,
		readOnly:   o.readOnly,
		logger:     o.logger,
	}
}

// degrade applies the permissive policy to a recoverable failure: in strict
// mode the error is returned as-is, in permissive mode it is collected and
// logged and interpretation continues.
func (it *Interpreter) degrade(stage string, err error) error {
	if !it.permissive {
		return err
	}
	it.warnings = append(it.warnings, err)
	it.logger.LogWarning(stage, err)
	return nil
}

func (it *Interpreter) read() error {
	if err := it.readHeader(); err != nil {
		return err
	}
	if err := it.readExtendedHeader(); err != nil {
		return err
	}
	return it.readData()
}

func (it *Interpreter) readHeader() error {
	raw, err := readHeaderBytes(it.stream)
	if err != nil {
		// A truncated header is unrecoverable regardless of policy.
		return err
	}
	return it.interpretHeader(raw)
}

func (it *Interpreter) interpretHeader(raw [HeaderSize]byte) error {
	// Interpret under the default byte order first; the map ID check is a
	// raw byte comparison and does not depend on it.
	h := &Header{raw: raw, order: binary.LittleEndian, readOnly: it.readOnly}

	if err := h.checkMagic(); err != nil {
		if err := it.degrade("header", err); err != nil {
			return err
		}
	}

	order, err := byteOrderFromMachineStamp(h.MachineStamp())
	if err != nil {
		if err := it.degrade("header", err); err != nil {
			return err
		}
		order = binary.LittleEndian // sensible default for quasi-valid files
	}

	// Retag the view with the detected order; the bytes are not re-read.
	h.order = order
	it.header = h
	return nil
}

func (it *Interpreter) readExtendedHeader() error {
	n := int(it.header.Nsymbt())
	if n < 0 {
		n = 0
	}
	buf := make([]byte, n)
	read, _ := io.ReadFull(it.stream, buf)
	// A short extended header silently yields fewer bytes than declared;
	// flush writes back what was actually read.
	it.extended = buf[:read]
	return nil
}

func (it *Interpreter) readData() error {
	need, err := dataLength(it.header)
	if err != nil {
		if err := it.degrade("data", err); err != nil {
			return err
		}
		// Data becomes absent and no data bytes are consumed, so the stream
		// position disagrees with a subsequent flush.
		it.data = nil
		return nil
	}

	buf := make([]byte, need)
	n, _ := io.ReadFull(it.stream, buf)
	if n < need {
		terr := &TruncatedDataError{Expected: need, Actual: n}
		if err := it.degrade("data", terr); err != nil {
			return err
		}
		it.data = nil
		return nil
	}

	shape, _ := shapeFromHeader(it.header) // validated by dataLength
	it.data = &DataBlock{
		raw:      buf,
		mode:     it.header.Mode(),
		shape:    shape,
		order:    it.header.order,
		readOnly: it.readOnly,
	}
	return nil
}

// Header returns the live header, or nil after Close.
func (it *Interpreter) Header() *Header { return it.header }

// ExtendedHeader returns the extended header bytes (possibly empty), or nil
// after Close.
func (it *Interpreter) ExtendedHeader() []byte { return it.extended }

// SetExtendedHeader replaces the extended header and updates the header's
// nsymbt field to match.
func (it *Interpreter) SetExtendedHeader(b []byte) error {
	if it.closed {
		return ErrClosed
	}
	if it.readOnly {
		return ErrReadOnly
	}
	if it.header == nil {
		return ErrNotOpen
	}
	if len(b) > math.MaxInt32 {
		return fmt.Errorf("extended header of %d bytes exceeds nsymbt range", len(b))
	}
	if err := it.header.setNsymbt(int32(len(b))); err != nil {
		return err
	}
	it.extended = b
	return nil
}

// Data returns the data block, or nil if it is absent (permissive recovery,
// or after Close).
func (it *Interpreter) Data() *DataBlock { return it.data }

// SetDataBytes replaces the data block with raw element bytes already in the
// header's byte order, and updates the header's mode and dimension fields.
func (it *Interpreter) SetDataBytes(b []byte, mode Mode, nz, ny, nx int) error {
	if it.closed {
		return ErrClosed
	}
	if it.readOnly {
		return ErrReadOnly
	}
	if it.header == nil {
		return ErrNotOpen
	}
	itemSize, err := mode.ItemSize()
	if err != nil {
		return err
	}
	if nz < 0 || ny < 0 || nx < 0 || nz > math.MaxInt32 || ny > math.MaxInt32 || nx > math.MaxInt32 {
		return &InvalidShapeError{Nx: int32(nx), Ny: int32(ny), Nz: int32(nz)}
	}
	want, ok := byteLength(itemSize, nz, ny, nx)
	if !ok {
		return &InvalidShapeError{Nx: int32(nx), Ny: int32(ny), Nz: int32(nz)}
	}
	if len(b) != want {
		return fmt.Errorf("data length %d does not match %s x (%d, %d, %d) = %d bytes",
			len(b), mode, nz, ny, nx, want)
	}
	if err := it.header.SetMode(mode); err != nil {
		return err
	}
	if err := it.header.SetDims(int32(nx), int32(ny), int32(nz)); err != nil {
		return err
	}
	it.data = &DataBlock{
		raw:      b,
		mode:     mode,
		shape:    [3]int{nz, ny, nx},
		order:    it.header.order,
		readOnly: it.readOnly,
	}
	return nil
}

// SetDataFloat32 replaces the data block with float32 values given in flat
// (z, y, x) order, encoding them in the header's byte order.
func (it *Interpreter) SetDataFloat32(vals []float32, nz, ny, nx int) error {
	if it.header == nil {
		return ErrNotOpen
	}
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		it.header.order.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return it.SetDataBytes(buf, ModeFloat32, nz, ny, nx)
}

// UpdateStats recomputes the header's dmin/dmax/dmean/rms fields from a
// float32 data block. An absent or empty block marks the statistics
// undetermined (dmax < dmin, dmean and rms below both).
func (it *Interpreter) UpdateStats() error {
	if it.closed {
		return ErrClosed
	}
	if it.header == nil {
		return ErrNotOpen
	}
	if it.data == nil || it.data.Len() == 0 {
		return it.header.SetStats(0, -1, -2, -1)
	}
	vals, err := it.data.Float32s()
	if err != nil {
		return err
	}
	min, max := vals[0], vals[0]
	var sum float64
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += float64(v)
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := float64(v) - mean
		sq += d * d
	}
	rms := math.Sqrt(sq / float64(len(vals)))
	return it.header.SetStats(min, max, float32(mean), float32(rms))
}

// Warnings returns the structural problems downgraded during permissive
// interpretation, in the order they were found.
func (it *Interpreter) Warnings() []error {
	return append([]error(nil), it.warnings...)
}

// ReadOnly reports whether mutation and flush are blocked.
func (it *Interpreter) ReadOnly() bool { return it.readOnly }

// Permissive reports whether permissive interpretation is enabled.
func (it *Interpreter) Permissive() bool { return it.permissive }

func (it *Interpreter) dataBytes() []byte {
	if it.data == nil {
		return nil
	}
	return it.data.Bytes()
}

// Flush serializes the three regions back to the stream: seek to offset 0
// (when the stream is seekable), write header, extended header and data
// bytes, truncate trailing bytes, and flush stream-level buffering. Read-only
// interpreters do nothing. Non-seekable streams get the one-shot sequential
// path: the regions are written from the current position.
func (it *Interpreter) Flush() error {
	if it.closed {
		return ErrClosed
	}
	if it.header == nil {
		return ErrNotOpen
	}
	if it.readOnly {
		return nil
	}

	if s, ok := it.stream.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("seek to header: %w", err)
		}
	}

	var written int64
	for _, region := range [][]byte{it.header.Bytes(), it.extended, it.dataBytes()} {
		n, err := it.stream.Write(region)
		written += int64(n)
		if err != nil {
			it.logger.LogFlush(written, err)
			return fmt.Errorf("write region: %w", err)
		}
	}

	if t, ok := it.stream.(Truncater); ok {
		if err := t.Truncate(written); err != nil {
			it.logger.LogFlush(written, err)
			return fmt.Errorf("truncate: %w", err)
		}
	}

	var err error
	switch s := it.stream.(type) {
	case Syncer:
		err = s.Sync()
	case Flusher:
		err = s.Flush()
	}
	it.logger.LogFlush(written, err)
	if err != nil {
		return fmt.Errorf("flush stream: %w", err)
	}
	return nil
}

// Close flushes (unless read-only, never opened, or the stream reports itself
// closed) and releases the header, extended header and data. A failed flush
// leaves the regions intact so Close can be retried. Once it succeeds Close is
// idempotent; further calls do nothing and perform no second write.
func (it *Interpreter) Close() error {
	if it.closed {
		return nil
	}
	if it.header != nil && !streamClosed(it.stream) {
		if err := it.Flush(); err != nil {
			return err
		}
	}
	it.discard()
	return nil
}

// discard releases the in-memory regions without flushing.
func (it *Interpreter) discard() {
	it.header = nil
	it.extended = nil
	it.data = nil
	it.closed = true
}

func streamClosed(s Stream) bool {
	c, ok := s.(interface{ Closed() bool })
	return ok && c.Closed()
}
