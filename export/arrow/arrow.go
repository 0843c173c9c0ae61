// Package arrow writes numeric variant matrices, such as dosages or
// per-block statistics, to Arrow IPC files. Every column is a float64
// field; rows are buffered and flushed as one record batch per chunk.
package arrow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/hupe1980/seqgo/arraystore"
)

// ErrFieldCount is returned when a row does not have one value per field.
var ErrFieldCount = errors.New("mismatch in number of fields")

// MissingDosage is written as null by WriteMatrix.
const MissingDosage uint8 = 0xFF

// Writer buffers rows and writes them as Arrow record batches. It is safe
// for concurrent use.
type Writer struct {
	mu             sync.Mutex
	schema         *arrow.Schema
	writer         *ipc.FileWriter
	builders       []*array.Float64Builder
	closer         io.Closer
	chunkSize      int
	numRowsInChunk int
}

// Create writes to a new file at path.
func Create(path string, fieldNames []string, chunkSize int) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(file, fieldNames, chunkSize)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	w.closer = file
	return w, nil
}

// NewWriter writes an Arrow IPC file to ws with one float64 column per
// field name. chunkSize rows go into each record batch.
func NewWriter(ws io.Writer, fieldNames []string, chunkSize int) (*Writer, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be >= 1, got %d", chunkSize)
	}
	pool := memory.NewGoAllocator()
	fields := make([]arrow.Field, len(fieldNames))
	for i, name := range fieldNames {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	writer, err := ipc.NewFileWriter(ws, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return nil, err
	}

	builders := make([]*array.Float64Builder, len(fields))
	for i := range fields {
		builders[i] = array.NewFloat64Builder(pool)
	}
	return &Writer{
		schema:    schema,
		writer:    writer,
		builders:  builders,
		chunkSize: chunkSize,
	}, nil
}

// Write appends one row.
func (w *Writer) Write(row []float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(row) != len(w.builders) {
		return fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, len(w.builders), len(row))
	}
	for i, v := range row {
		w.builders[i].Append(v)
	}
	return w.rowDone()
}

// WriteMatrix appends the rows of a [row][field] numeric buffer. UInt8
// values equal to MissingDosage are written as null.
func (w *Writer) WriteMatrix(buf *arraystore.Buffer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(buf.Dims) != 2 || buf.Dims[1] != len(w.builders) {
		return fmt.Errorf("%w: expected a [rows][%d] matrix, got dims %v", ErrFieldCount, len(w.builders), buf.Dims)
	}
	if !buf.DType.IsNumeric() {
		return fmt.Errorf("%w: %s is not numeric", arraystore.ErrTypeMismatch, buf.DType)
	}
	cols := buf.Dims[1]
	for r := range buf.Dims[0] {
		for c := range cols {
			k := r*cols + c
			if buf.DType == arraystore.UInt8 && buf.UInt8[k] == MissingDosage {
				w.builders[c].AppendNull()
				continue
			}
			w.builders[c].Append(buf.Float64At(k))
		}
		if err := w.rowDone(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) rowDone() error {
	w.numRowsInChunk++
	if w.numRowsInChunk == w.chunkSize {
		return w.writeChunk()
	}
	return nil
}

func (w *Writer) writeChunk() error {
	cols := make([]arrow.Array, len(w.builders))
	for i, b := range w.builders {
		// NewArray resets the builder.
		cols[i] = b.NewArray()
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	record := array.NewRecord(w.schema, cols, int64(w.numRowsInChunk))
	defer record.Release()

	if err := w.writer.Write(record); err != nil {
		return err
	}
	w.numRowsInChunk = 0
	return nil
}

// Close flushes buffered rows, writes the file footer and closes the file
// opened by Create.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var err error
	if w.numRowsInChunk > 0 {
		err = w.writeChunk()
	}
	err = errors.Join(err, w.writer.Close())
	for _, b := range w.builders {
		b.Release()
	}
	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}
