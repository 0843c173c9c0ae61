package index

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/seqgo/arraystore"
)

const scanChunk = 65536

// BuildRunLength scans an integer node into a run-length index.
func BuildRunLength(ctx context.Context, node arraystore.Node) (*RunLength[int32], error) {
	var b Builder[int32]
	err := scan(ctx, node, arraystore.Int32, func(buf *arraystore.Buffer) {
		for _, v := range buf.Int32 {
			b.Add(v, 1)
		}
	})
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func scan(ctx context.Context, node arraystore.Node, dt arraystore.DType, fn func(*arraystore.Buffer)) error {
	if n := node.TotalCount(); n > int64(maxRecords) {
		return fmt.Errorf("%w of '%s': %d elements", ErrInvalidDimension, node.Path(), n)
	}
	it := node.Iterator()
	for {
		buf, err := it.ReadChunk(ctx, scanChunk, dt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(buf)
	}
}
