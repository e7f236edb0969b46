package mrcgo

import "github.com/hupe1980/mrcgo/internal/mmap"

// MappedFile is a read-only Interpreter over a memory-mapped MRC file. The
// extended header and data block alias the mapped region directly, so opening
// a multi-gigabyte map copies nothing but the 1024-byte header. Views into
// the regions become invalid after Close.
type MappedFile struct {
	*Interpreter
	mapping *mmap.Mapping
}

// OpenMmap memory-maps an MRC file and interprets it in place. The result is
// always read-only regardless of options.
func OpenMmap(path string, optFns ...Option) (*MappedFile, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	o.readOnly = true

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	it, err := interpretMapped(m.Bytes(), o)
	if err != nil {
		m.Close()
		return nil, err
	}
	return &MappedFile{Interpreter: it, mapping: m}, nil
}

// Close releases the in-memory regions and unmaps the file. Idempotent.
func (m *MappedFile) Close() error {
	if m.closed {
		return nil
	}
	m.discard()
	if m.mapping != nil {
		err := m.mapping.Close()
		m.mapping = nil
		return err
	}
	return nil
}

// interpretMapped runs the header, extended header and data stages over a
// byte region instead of a stream, slicing instead of reading.
func interpretMapped(data []byte, o options) (*Interpreter, error) {
	it := &Interpreter{
		permissive: o.permissive,
		readOnly:   true,
		logger:     o.logger,
	}

	if len(data) < HeaderSize {
		return nil, &TruncatedHeaderError{Expected: HeaderSize, Actual: len(data)}
	}
	var raw [HeaderSize]byte
	copy(raw[:], data)
	if err := it.interpretHeader(raw); err != nil {
		return nil, err
	}
	rest := data[HeaderSize:]

	n := int(it.header.Nsymbt())
	if n < 0 {
		n = 0
	}
	if n > len(rest) {
		// Same silent truncation as the stream path.
		n = len(rest)
	}
	it.extended = rest[:n:n]
	rest = rest[n:]

	need, err := dataLength(it.header)
	if err != nil {
		if err := it.degrade("data", err); err != nil {
			return nil, err
		}
		return it, nil
	}
	if need > len(rest) {
		terr := &TruncatedDataError{Expected: need, Actual: len(rest)}
		if err := it.degrade("data", terr); err != nil {
			return nil, err
		}
		return it, nil
	}

	shape, _ := shapeFromHeader(it.header)
	it.data = &DataBlock{
		raw:      rest[:need:need],
		mode:     it.header.Mode(),
		shape:    shape,
		order:    it.header.order,
		readOnly: true,
	}
	return it, nil
}
