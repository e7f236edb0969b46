// Package mrcgo reads and writes MRC / CCP4 volumetric map files in pure Go.
//
// An MRC file is a 1024-byte binary header, an optional extended header whose
// length is declared by the header's nsymbt field, and a raw block of
// multi-dimensional numeric data whose element type and shape are derived from
// header fields. mrcgo interprets an I/O stream as these three regions, keeps
// them addressable in memory, and can serialize them back out.
//
// Features:
//
//   - Byte-order auto-detection from the machine stamp, with a tagged view
//     over the raw header bytes (no double decoding)
//   - Mode-driven element types: int8, int16, float32, complex64, uint16,
//     float16 and complex int16 payloads
//   - Strict and permissive interpretation: in permissive mode recoverable
//     structural problems (bad magic, unknown machine stamp, invalid mode,
//     truncated data) become collected warnings instead of hard failures
//   - File, gzip, bzip2, lz4, in-memory and memory-mapped stream providers
//   - In-place flush (seek, rewrite, truncate) with a one-shot sequential
//     fallback for non-seekable streams
//
// # Quick start
//
// Read an existing map:
//
//	f, err := mrcgo.Open("map.mrc", mrcgo.WithReadOnly(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	nz, ny, nx := f.Data().Shape()
//	v, _ := f.Data().Float32At(0, 0, 0)
//
// Create a new one:
//
//	f, err := mrcgo.New("out.mrc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	_ = f.SetDataFloat32([]float32{1, 2, 3, 4}, 1, 2, 2)
//	_ = f.UpdateStats()
//
// The WithFile helper guarantees close on both normal and error return:
//
//	err := mrcgo.WithFile("map.mrc", func(f *mrcgo.File) error {
//	    return f.SetDataFloat32(values, nz, ny, nx)
//	})
//
// # Concurrency
//
// An Interpreter owns its stream exclusively while open. It performs no
// internal locking; sharing one instance across goroutines requires external
// synchronization.
package mrcgo
