package mrcgo

import "golang.org/x/sync/errgroup"

// Future is a pending Open started by OpenAsync.
type Future struct {
	g    errgroup.Group
	file *File
}

// OpenAsync opens an MRC file in a background goroutine. Call Result to wait
// for the outcome. The returned file must still be closed by the caller; the
// Future's Close helper does that after waiting.
func OpenAsync(path string, optFns ...Option) *Future {
	fut := &Future{}
	fut.g.Go(func() error {
		f, err := Open(path, optFns...)
		if err != nil {
			return err
		}
		fut.file = f
		return nil
	})
	return fut
}

// Result blocks until the open finishes and returns its outcome. Result may
// be called multiple times; every call returns the same value.
func (fut *Future) Result() (*File, error) {
	if err := fut.g.Wait(); err != nil {
		return nil, err
	}
	return fut.file, nil
}

// Close waits for the open, closes the file if it succeeded, and otherwise
// returns the error the open failed with.
func (fut *Future) Close() error {
	f, err := fut.Result()
	if err != nil {
		return err
	}
	return f.Close()
}
