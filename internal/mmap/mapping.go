package mmap

import (
	"errors"
	"math"
	"os"
	"sync/atomic"
)

var (
	// ErrTooLarge is returned for files that do not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
	// ErrInvalidSize is returned for anonymous mappings of zero or negative size.
	ErrInvalidSize = errors.New("mmap: invalid buffer size")
)

// Mapping owns a mapped region. Bytes is valid until Close.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func() error
}

// Open maps the document at path read-only. Empty files yield an empty
// Mapping without a system mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size > math.MaxInt {
		return nil, ErrTooLarge
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Anon maps size bytes of zeroed, writable memory.
func Anon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	data, unmap, err := mapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped region, or nil once closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Len returns the mapped size in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Close unmaps the region. Calls after the first are no-ops.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap()
}
