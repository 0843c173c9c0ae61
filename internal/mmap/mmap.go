// Package mmap maps local container blobs read-only into memory.
//
// A blob is read in one of two ways. Node decoding copies the whole payload
// front to back, while a CachingStore pulls fixed-size blocks at scattered
// offsets. Advise tells the kernel which of the two is under way so that
// read-ahead helps the first and stays out of the way of the second.
//
// Unix platforms use mmap(2) and madvise(2). Windows maps views with
// MapViewOfFile and ignores advice.
package mmap

import (
	"errors"
	"os"
	"sync"
)

// Advice describes how a mapping is about to be read.
type Advice int32

const (
	// Normal leaves read-ahead to the kernel.
	Normal Advice = iota
	// Sequential asks for aggressive read-ahead.
	Sequential
	// Random disables read-ahead.
	Random
	// WillNeed starts paging the mapping in.
	WillNeed
)

func (a Advice) String() string {
	switch a {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	case WillNeed:
		return "willneed"
	default:
		return "normal"
	}
}

// ErrClosed is returned by Advise after Close.
var ErrClosed = errors.New("mmap: mapping is closed")

// Mapping is a read-only view of a file.
type Mapping struct {
	mu     sync.RWMutex
	data   []byte
	unmap  func() error
	closed bool
}

// Open maps the file at path. An empty file yields a Mapping without
// backing memory.
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
	if fi.Size() == 0 {
		return &Mapping{}, nil
	}
	data, unmap, err := mapFile(f, int(fi.Size()))
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped memory, or nil once closed. The slice must not
// be used after Close.
func (m *Mapping) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil
	}
	return m.data
}

// Len returns the mapped length in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Advise passes a to the kernel. The hint is best effort: a platform that
// cannot apply it returns nil.
func (m *Mapping) Advise(a Advice) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return advise(m.data, a)
}

// Close unmaps the file. Calling it again has no effect.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.unmap == nil {
		return nil
	}
	return m.unmap()
}
