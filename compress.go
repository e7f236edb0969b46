package mrcgo

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Compressed containers are interpreted through an in-memory copy: the whole
// stream is decompressed once on open, mutated in memory, and recompressed in
// one shot on flush. Seek/truncate therefore happen on the memory buffer, not
// on the compressed file.
//
// CompressedFile is returned by OpenGzip, NewGzip, OpenBzip2, OpenLz4 and
// NewLz4.
type CompressedFile struct {
	*Interpreter
	path string
	mem  *MemoryStream
	// compress wraps a writer with the codec's compressor; nil marks a
	// codec without write support (bzip2).
	compress func(io.Writer) io.WriteCloser
}

func gzipCompressor(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }

func lz4Compressor(w io.Writer) io.WriteCloser { return lz4.NewWriter(w) }

func openCompressed(path string, decompress func(io.Reader) (io.Reader, error), compress func(io.Writer) io.WriteCloser, optFns ...Option) (*CompressedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	dr, err := decompress(f)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	raw, err := io.ReadAll(dr)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	mem := NewMemoryStream(raw)
	it, err := Interpret(mem, optFns...)
	if err != nil {
		return nil, err
	}
	return &CompressedFile{Interpreter: it, path: path, mem: mem, compress: compress}, nil
}

// OpenGzip opens a gzip-compressed MRC file.
func OpenGzip(path string, optFns ...Option) (*CompressedFile, error) {
	return openCompressed(path, func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	}, gzipCompressor, optFns...)
}

// NewGzip creates a gzip-compressed MRC file with default-initialized header
// and empty data. An existing file is not replaced unless WithOverwrite(true)
// is given.
func NewGzip(path string, optFns ...Option) (*CompressedFile, error) {
	return newCompressed(path, gzipCompressor, optFns...)
}

// OpenBzip2 opens a bzip2-compressed MRC file. Go has no bzip2 writer, so the
// result is always read-only regardless of options.
func OpenBzip2(path string, optFns ...Option) (*CompressedFile, error) {
	optFns = append(optFns, WithReadOnly(true))
	return openCompressed(path, func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r), nil
	}, nil, optFns...)
}

// OpenLz4 opens an lz4-frame-compressed MRC file.
func OpenLz4(path string, optFns ...Option) (*CompressedFile, error) {
	return openCompressed(path, func(r io.Reader) (io.Reader, error) {
		return lz4.NewReader(r), nil
	}, lz4Compressor, optFns...)
}

// NewLz4 creates an lz4-frame-compressed MRC file with default-initialized
// header and empty data.
func NewLz4(path string, optFns ...Option) (*CompressedFile, error) {
	return newCompressed(path, lz4Compressor, optFns...)
}

func newCompressed(path string, compress func(io.Writer) io.WriteCloser, optFns ...Option) (*CompressedFile, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	if !o.overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("file %s already exists; use WithOverwrite(true) to replace it", path)
		}
	}

	mem := NewMemoryStream(nil)
	return &CompressedFile{
		Interpreter: NewInterpreter(mem, optFns...),
		path:        path,
		mem:         mem,
		compress:    compress,
	}, nil
}

// Path returns the compressed file path.
func (c *CompressedFile) Path() string { return c.path }

// Flush serializes the regions into the memory buffer and rewrites the
// compressed file from it in one shot. No-op when read-only.
func (c *CompressedFile) Flush() error {
	if c.closed {
		return ErrClosed
	}
	if c.readOnly {
		return nil
	}
	if c.compress == nil {
		return fmt.Errorf("codec has no write support")
	}
	if err := c.Interpreter.Flush(); err != nil {
		return err
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	cw := c.compress(f)
	if _, err := cw.Write(c.mem.Bytes()); err != nil {
		cw.Close()
		f.Close()
		return fmt.Errorf("compressing: %w", err)
	}
	if err := cw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("compressing: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

// Close flushes to the compressed file (unless read-only) and releases the
// in-memory regions. A failed flush leaves the regions intact so Close can be
// retried. Once it succeeds Close is idempotent.
func (c *CompressedFile) Close() error {
	if c.closed {
		return nil
	}
	if c.header != nil && !c.readOnly {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	c.discard()
	return nil
}

// Magic prefixes of the supported compressed containers.
var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	lz4Magic   = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Container is the surface shared by File and CompressedFile.
type Container interface {
	Header() *Header
	ExtendedHeader() []byte
	Data() *DataBlock
	Warnings() []error
	Flush() error
	Close() error
}

// OpenAuto sniffs the file's leading bytes and dispatches to Open, OpenGzip,
// OpenBzip2 or OpenLz4. The concrete type behind the interface is *File or
// *CompressedFile.
func OpenAuto(path string, optFns ...Option) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	head := make([]byte, 4)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	if err := f.Close(); err != nil {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return OpenGzip(path, optFns...)
	case bytes.HasPrefix(head, bzip2Magic):
		return OpenBzip2(path, optFns...)
	case bytes.HasPrefix(head, lz4Magic):
		return OpenLz4(path, optFns...)
	}
	return Open(path, optFns...)
}
