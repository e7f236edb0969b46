package mrcgo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	// HeaderSize is the fixed byte length of the MRC header record.
	HeaderSize = 1024

	// MapID is the format marker expected in the header's map field.
	MapID = "MAP "

	// MaxLabels is the number of 80-byte label slots in the header.
	MaxLabels = 10

	labelSize = 80
)

// Header field byte offsets (MRC2014 layout).
const (
	offNx       = 0
	offNy       = 4
	offNz       = 8
	offMode     = 12
	offNxStart  = 16
	offNyStart  = 20
	offNzStart  = 24
	offMx       = 28
	offMy       = 32
	offMz       = 36
	offCellA    = 40  // 3 x float32: cell dimensions in angstroms
	offCellB    = 52  // 3 x float32: cell angles in degrees
	offMapC     = 64
	offMapR     = 68
	offMapS     = 72
	offDmin     = 76
	offDmax     = 80
	offDmean    = 84
	offIspg     = 88
	offNsymbt   = 92
	offExtTyp   = 104 // 4 chars
	offNversion = 108
	offOrigin   = 196 // 3 x float32
	offMap      = 208 // "MAP "
	offMachst   = 212 // 4-byte machine stamp
	offRms      = 216
	offNlabl    = 220
	offLabel    = 224 // 10 x 80 chars
)

// Machine stamps written for each byte order. Only the first two bytes are
// significant on read; 0x44 0x41 is also accepted as little-endian.
var (
	stampLittleEndian = [4]byte{0x44, 0x44, 0x00, 0x00}
	stampBigEndian    = [4]byte{0x11, 0x11, 0x00, 0x00}
)

// Header is a tagged view over the raw 1024-byte MRC header record: one byte
// buffer plus a byte-order tag consulted by every field accessor. Detecting
// the true byte order therefore retags the view instead of re-decoding.
type Header struct {
	raw      [HeaderSize]byte
	order    binary.ByteOrder
	readOnly bool
}

// readHeaderBytes reads exactly HeaderSize bytes from the stream. A short
// read is unrecoverable regardless of permissive policy.
func readHeaderBytes(r io.Reader) ([HeaderSize]byte, error) {
	var raw [HeaderSize]byte
	n, err := io.ReadFull(r, raw[:])
	if n < HeaderSize {
		return raw, &TruncatedHeaderError{Expected: HeaderSize, Actual: n, cause: err}
	}
	return raw, nil
}

// checkMagic validates the map identifier field.
func (h *Header) checkMagic() error {
	if !bytes.Equal(h.raw[offMap:offMap+4], []byte(MapID)) {
		var id [4]byte
		copy(id[:], h.raw[offMap:offMap+4])
		return &FormatMismatchError{MapID: id}
	}
	return nil
}

// byteOrderFromMachineStamp resolves the stamp to a byte order via the table
// of recognized patterns.
func byteOrderFromMachineStamp(stamp [4]byte) (binary.ByteOrder, error) {
	switch stamp[0] {
	case 0x44:
		return binary.LittleEndian, nil
	case 0x11:
		return binary.BigEndian, nil
	}
	return nil, &UnknownByteOrderError{Stamp: stamp}
}

func machineStampForOrder(order binary.ByteOrder) [4]byte {
	if order == binary.BigEndian {
		return stampBigEndian
	}
	return stampLittleEndian
}

// newDefaultHeader builds the header used for newly created files: valid map
// ID and machine stamp, float32 mode, standard axis order, 90-degree cell
// angles, and statistics marked undetermined (dmax < dmin, dmean < both).
func newDefaultHeader(order binary.ByteOrder, readOnly bool) *Header {
	h := &Header{order: order, readOnly: false}
	copy(h.raw[offMap:], MapID)
	stamp := machineStampForOrder(order)
	copy(h.raw[offMachst:], stamp[:])
	_ = h.SetMode(ModeFloat32)
	_ = h.setI32(offMapC, 1)
	_ = h.setI32(offMapR, 2)
	_ = h.setI32(offMapS, 3)
	_ = h.SetCellAngles(90, 90, 90)
	_ = h.SetNVersion(20141)
	_ = h.setF32(offDmax, -1)
	_ = h.setF32(offDmean, -2)
	_ = h.setF32(offRms, -1)
	h.readOnly = readOnly
	return h
}

// ByteOrder returns the byte order the header fields are encoded in.
func (h *Header) ByteOrder() binary.ByteOrder { return h.order }

// Bytes returns the raw header record, already in the declared byte order.
// This is the exact 1024-byte span written on flush.
func (h *Header) Bytes() []byte { return h.raw[:] }

// ReadOnly reports whether mutation is blocked.
func (h *Header) ReadOnly() bool { return h.readOnly }

func (h *Header) i32(off int) int32 {
	return int32(h.order.Uint32(h.raw[off : off+4]))
}

func (h *Header) f32(off int) float32 {
	return math.Float32frombits(h.order.Uint32(h.raw[off : off+4]))
}

func (h *Header) setI32(off int, v int32) error {
	if h.readOnly {
		return ErrReadOnly
	}
	h.order.PutUint32(h.raw[off:off+4], uint32(v))
	return nil
}

func (h *Header) setF32(off int, v float32) error {
	if h.readOnly {
		return ErrReadOnly
	}
	h.order.PutUint32(h.raw[off:off+4], math.Float32bits(v))
	return nil
}

// Nx returns the number of columns.
func (h *Header) Nx() int32 { return h.i32(offNx) }

// Ny returns the number of rows.
func (h *Header) Ny() int32 { return h.i32(offNy) }

// Nz returns the number of sections.
func (h *Header) Nz() int32 { return h.i32(offNz) }

// Dims returns (nx, ny, nz).
func (h *Header) Dims() (nx, ny, nz int32) {
	return h.Nx(), h.Ny(), h.Nz()
}

// SetDims sets nx, ny and nz.
func (h *Header) SetDims(nx, ny, nz int32) error {
	if err := h.setI32(offNx, nx); err != nil {
		return err
	}
	if err := h.setI32(offNy, ny); err != nil {
		return err
	}
	return h.setI32(offNz, nz)
}

// Mode returns the data element mode.
func (h *Header) Mode() Mode { return Mode(h.i32(offMode)) }

// SetMode sets the data element mode.
func (h *Header) SetMode(m Mode) error { return h.setI32(offMode, int32(m)) }

// Start returns (nxstart, nystart, nzstart).
func (h *Header) Start() (x, y, z int32) {
	return h.i32(offNxStart), h.i32(offNyStart), h.i32(offNzStart)
}

// SetStart sets the sub-volume start position.
func (h *Header) SetStart(x, y, z int32) error {
	if err := h.setI32(offNxStart, x); err != nil {
		return err
	}
	if err := h.setI32(offNyStart, y); err != nil {
		return err
	}
	return h.setI32(offNzStart, z)
}

// Sampling returns the grid sampling (mx, my, mz).
func (h *Header) Sampling() (mx, my, mz int32) {
	return h.i32(offMx), h.i32(offMy), h.i32(offMz)
}

// SetSampling sets the grid sampling.
func (h *Header) SetSampling(mx, my, mz int32) error {
	if err := h.setI32(offMx, mx); err != nil {
		return err
	}
	if err := h.setI32(offMy, my); err != nil {
		return err
	}
	return h.setI32(offMz, mz)
}

// CellSize returns the unit cell dimensions in angstroms.
func (h *Header) CellSize() (a, b, c float32) {
	return h.f32(offCellA), h.f32(offCellA + 4), h.f32(offCellA + 8)
}

// SetCellSize sets the unit cell dimensions.
func (h *Header) SetCellSize(a, b, c float32) error {
	if err := h.setF32(offCellA, a); err != nil {
		return err
	}
	if err := h.setF32(offCellA+4, b); err != nil {
		return err
	}
	return h.setF32(offCellA+8, c)
}

// CellAngles returns the unit cell angles in degrees.
func (h *Header) CellAngles() (alpha, beta, gamma float32) {
	return h.f32(offCellB), h.f32(offCellB + 4), h.f32(offCellB + 8)
}

// SetCellAngles sets the unit cell angles.
func (h *Header) SetCellAngles(alpha, beta, gamma float32) error {
	if err := h.setF32(offCellB, alpha); err != nil {
		return err
	}
	if err := h.setF32(offCellB+4, beta); err != nil {
		return err
	}
	return h.setF32(offCellB+8, gamma)
}

// AxisOrder returns (mapc, mapr, maps): which axis corresponds to columns,
// rows and sections.
func (h *Header) AxisOrder() (mapc, mapr, maps int32) {
	return h.i32(offMapC), h.i32(offMapR), h.i32(offMapS)
}

// SetAxisOrder sets the axis correspondence fields.
func (h *Header) SetAxisOrder(mapc, mapr, maps int32) error {
	if err := h.setI32(offMapC, mapc); err != nil {
		return err
	}
	if err := h.setI32(offMapR, mapr); err != nil {
		return err
	}
	return h.setI32(offMapS, maps)
}

// Dmin returns the minimum density value.
func (h *Header) Dmin() float32 { return h.f32(offDmin) }

// Dmax returns the maximum density value.
func (h *Header) Dmax() float32 { return h.f32(offDmax) }

// Dmean returns the mean density value.
func (h *Header) Dmean() float32 { return h.f32(offDmean) }

// Rms returns the RMS deviation from the mean.
func (h *Header) Rms() float32 { return h.f32(offRms) }

// SetStats sets the density statistics fields.
func (h *Header) SetStats(dmin, dmax, dmean, rms float32) error {
	if err := h.setF32(offDmin, dmin); err != nil {
		return err
	}
	if err := h.setF32(offDmax, dmax); err != nil {
		return err
	}
	if err := h.setF32(offDmean, dmean); err != nil {
		return err
	}
	return h.setF32(offRms, rms)
}

// Ispg returns the space group number.
func (h *Header) Ispg() int32 { return h.i32(offIspg) }

// SetIspg sets the space group number.
func (h *Header) SetIspg(v int32) error { return h.setI32(offIspg, v) }

// Nsymbt returns the declared extended header byte length.
func (h *Header) Nsymbt() int32 { return h.i32(offNsymbt) }

func (h *Header) setNsymbt(v int32) error { return h.setI32(offNsymbt, v) }

// ExtType returns the extended header type code (e.g. "CCP4", "FEI1").
func (h *Header) ExtType() string {
	return string(h.raw[offExtTyp : offExtTyp+4])
}

// SetExtType sets the extended header type code. Codes longer than 4 bytes
// are rejected; shorter codes are space-padded.
func (h *Header) SetExtType(code string) error {
	if h.readOnly {
		return ErrReadOnly
	}
	if len(code) > 4 {
		return fmt.Errorf("exttyp %q exceeds 4 bytes", code)
	}
	copy(h.raw[offExtTyp:offExtTyp+4], []byte("    "))
	copy(h.raw[offExtTyp:], code)
	return nil
}

// NVersion returns the format version (year * 10 + sub-version).
func (h *Header) NVersion() int32 { return h.i32(offNversion) }

// SetNVersion sets the format version.
func (h *Header) SetNVersion(v int32) error { return h.setI32(offNversion, v) }

// Origin returns the phase origin or frame-of-reference shift.
func (h *Header) Origin() (x, y, z float32) {
	return h.f32(offOrigin), h.f32(offOrigin + 4), h.f32(offOrigin + 8)
}

// SetOrigin sets the origin fields.
func (h *Header) SetOrigin(x, y, z float32) error {
	if err := h.setF32(offOrigin, x); err != nil {
		return err
	}
	if err := h.setF32(offOrigin+4, y); err != nil {
		return err
	}
	return h.setF32(offOrigin+8, z)
}

// MapIDBytes returns the raw map identifier field.
func (h *Header) MapIDBytes() [4]byte {
	var id [4]byte
	copy(id[:], h.raw[offMap:offMap+4])
	return id
}

// MachineStamp returns the raw machine stamp field.
func (h *Header) MachineStamp() [4]byte {
	var stamp [4]byte
	copy(stamp[:], h.raw[offMachst:offMachst+4])
	return stamp
}

// Nlabl returns the number of used label slots.
func (h *Header) Nlabl() int32 { return h.i32(offNlabl) }

// Label returns label i with trailing whitespace removed. Out-of-range
// indexes yield an empty string.
func (h *Header) Label(i int) string {
	if i < 0 || i >= MaxLabels {
		return ""
	}
	off := offLabel + i*labelSize
	return strings.TrimRight(string(h.raw[off:off+labelSize]), " \x00")
}

// AddLabel appends a label to the first free slot. Labels longer than 80
// bytes are rejected; all 10 slots full is an error.
func (h *Header) AddLabel(label string) error {
	if h.readOnly {
		return ErrReadOnly
	}
	if len(label) > labelSize {
		return fmt.Errorf("label exceeds %d bytes", labelSize)
	}
	n := h.Nlabl()
	if n < 0 || n >= MaxLabels {
		return fmt.Errorf("all %d label slots are used", MaxLabels)
	}
	off := offLabel + int(n)*labelSize
	padded := label + strings.Repeat(" ", labelSize-len(label))
	copy(h.raw[off:], padded)
	return h.setI32(offNlabl, n+1)
}
