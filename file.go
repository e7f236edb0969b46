package mrcgo

import (
	"fmt"
	"os"
)

// File is an Interpreter over an os.File. Close flushes the interpreter and
// then closes the underlying file.
type File struct {
	*Interpreter
	path string
	file *os.File
}

// Open opens an MRC file and interprets it. Without WithReadOnly(true) the
// file is opened read-write and mutations are flushed on Close.
func Open(path string, optFns ...Option) (*File, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	flag := os.O_RDWR
	if o.readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	it, err := Interpret(f, optFns...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Interpreter: it, path: path, file: f}, nil
}

// New creates an MRC file with default-initialized header and empty data.
// An existing file is not replaced unless WithOverwrite(true) is given.
func New(path string, optFns ...Option) (*File, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	flag := os.O_RDWR | os.O_CREATE | os.O_EXCL
	if o.overwrite {
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	return &File{Interpreter: NewInterpreter(f, optFns...), path: path, file: f}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Close flushes the interpreter (unless read-only) and closes the underlying
// file. A failed flush leaves the file open and the regions intact so Close
// can be retried. Once it succeeds Close is idempotent.
func (f *File) Close() error {
	if f.file == nil {
		return nil
	}
	if err := f.Interpreter.Close(); err != nil {
		return err
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// WithFile opens path, passes the file to fn, and closes it on the way out
// whether fn succeeds or fails. The close error is reported when fn itself
// succeeded.
func WithFile(path string, fn func(*File) error, optFns ...Option) (err error) {
	f, oerr := Open(path, optFns...)
	if oerr != nil {
		return oerr
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
