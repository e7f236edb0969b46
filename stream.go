package mrcgo

import (
	"fmt"
	"io"
)

// Stream is the minimum capability an Interpreter needs: sequential read for
// open and sequential write for a one-shot flush. Richer capabilities are
// discovered by type assertion:
//
//   - io.Seeker: enables the in-place flush (seek to start, rewrite)
//   - Truncater: trailing bytes beyond the data block are cut on flush
//   - Syncer or Flusher: stream-level buffering is flushed after writing
//   - interface{ Closed() bool }: Close skips the final flush if the stream
//     is already gone
//
// os.File provides all of the above except Closed.
type Stream interface {
	io.Reader
	io.Writer
}

// Truncater cuts a stream off at the given size.
type Truncater interface {
	Truncate(size int64) error
}

// Syncer commits buffered writes to stable storage (os.File.Sync).
type Syncer interface {
	Sync() error
}

// Flusher flushes stream-level write buffering (bufio.Writer, gzip.Writer).
type Flusher interface {
	Flush() error
}

// MemoryStream is a seekable in-memory Stream over a byte slice. It takes
// ownership of the slice passed to NewMemoryStream.
type MemoryStream struct {
	buf    []byte
	pos    int64
	closed bool
}

// NewMemoryStream returns a MemoryStream positioned at offset 0.
func NewMemoryStream(b []byte) *MemoryStream {
	return &MemoryStream{buf: b}
}

func (m *MemoryStream) Read(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MemoryStream) Write(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

func (m *MemoryStream) Seek(offset int64, whence int) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	m.pos = pos
	return pos, nil
}

// Truncate cuts the buffer off at size.
func (m *MemoryStream) Truncate(size int64) error {
	if m.closed {
		return ErrClosed
	}
	if size < 0 {
		return fmt.Errorf("negative truncate size %d", size)
	}
	if size < int64(len(m.buf)) {
		m.buf = m.buf[:size]
	}
	return nil
}

// Bytes returns the underlying buffer.
func (m *MemoryStream) Bytes() []byte { return m.buf }

// Len returns the buffer length.
func (m *MemoryStream) Len() int { return len(m.buf) }

// Close marks the stream closed. Further operations fail with ErrClosed.
func (m *MemoryStream) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryStream) Closed() bool { return m.closed }
