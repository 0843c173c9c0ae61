package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/hupe1980/seqgo/internal/mmap"
)

// sliceBlob serves a blob whose bytes are already addressable: a
// MemoryStore entry or a LocalStore file mapping.
//
// Whole-payload reads (Bytes, ReadRange) and block reads (ReadAt) walk the
// data differently. When advise is set the blob passes the pattern of each
// read on to the mapping, once per change of pattern.
type sliceBlob struct {
	data    []byte
	advise  func(mmap.Advice) error
	release func() error

	advice atomic.Int32
	closed atomic.Bool
}

func (b *sliceBlob) hint(a mmap.Advice) {
	if b.advise == nil || mmap.Advice(b.advice.Swap(int32(a))) == a {
		return
	}
	_ = b.advise(a)
}

func (b *sliceBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if b.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, errors.New("blobstore: negative offset")
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	b.hint(mmap.Random)
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *sliceBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	off = min(max(off, 0), int64(len(b.data)))
	end := min(off+max(length, 0), int64(len(b.data)))
	if end > off {
		b.hint(mmap.Sequential)
	}
	return io.NopCloser(bytes.NewReader(b.data[off:end])), nil
}

func (b *sliceBlob) Bytes() ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	b.hint(mmap.Sequential)
	return b.data, nil
}

func (b *sliceBlob) Size() int64 { return int64(len(b.data)) }

func (b *sliceBlob) Close() error {
	if b.closed.Swap(true) || b.release == nil {
		return nil
	}
	return b.release()
}
