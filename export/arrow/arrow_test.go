package arrow

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqgo/arraystore"
)

// readColumns returns every column of an Arrow file, nulls as -1.
func readColumns(t *testing.T, data []byte) (names []string, cols [][]float64, batches int) {
	t.Helper()
	reader, err := ipc.NewFileReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer reader.Close()

	for _, f := range reader.Schema().Fields() {
		names = append(names, f.Name)
	}
	cols = make([][]float64, len(names))
	for i := 0; i < reader.NumRecords(); i++ {
		record, err := reader.Record(i)
		require.NoError(t, err)
		for c, col := range record.Columns() {
			arr, ok := col.(*array.Float64)
			require.True(t, ok, "column %d is %T", c, col)
			for r := 0; r < arr.Len(); r++ {
				if arr.IsNull(r) {
					cols[c] = append(cols[c], -1)
				} else {
					cols[c] = append(cols[c], arr.Value(r))
				}
			}
		}
	}
	return names, cols, reader.NumRecords()
}

func TestWriter_WriteRead(t *testing.T) {
	var out bytes.Buffer
	w, err := NewWriter(&out, []string{"S1", "S2", "S3"}, 5)
	require.NoError(t, err)

	for i := range 12 {
		require.NoError(t, w.Write([]float64{float64(i), float64(i + 1), float64(i + 2)}))
	}
	require.NoError(t, w.Close())

	names, cols, batches := readColumns(t, out.Bytes())
	assert.Equal(t, []string{"S1", "S2", "S3"}, names)
	assert.Equal(t, 3, batches)
	require.Len(t, cols[0], 12)
	assert.InDelta(t, 11.0, cols[0][11], 0)
	assert.InDelta(t, 13.0, cols[2][11], 0)
}

func TestWriter_WriteMatrix(t *testing.T) {
	var out bytes.Buffer
	w, err := NewWriter(&out, []string{"S1", "S2"}, 10)
	require.NoError(t, err)

	dosage := &arraystore.Buffer{
		DType: arraystore.UInt8,
		Dims:  []int{3, 2},
		UInt8: []uint8{2, 1, MissingDosage, 0, 1, 1},
	}
	require.NoError(t, w.WriteMatrix(dosage))
	require.NoError(t, w.Close())

	_, cols, batches := readColumns(t, out.Bytes())
	assert.Equal(t, 1, batches)
	assert.Equal(t, []float64{2, -1, 1}, cols[0])
	assert.Equal(t, []float64{1, 0, 1}, cols[1])
}

func TestWriter_Errors(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, []string{"a"}, 0)
	require.Error(t, err)

	w, err := NewWriter(&bytes.Buffer{}, []string{"a", "b"}, 2)
	require.NoError(t, err)
	defer w.Close()

	assert.ErrorIs(t, w.Write([]float64{1}), ErrFieldCount)
	assert.ErrorIs(t, w.WriteMatrix(&arraystore.Buffer{DType: arraystore.Int32, Dims: []int{1, 3}, Int32: []int32{1, 2, 3}}), ErrFieldCount)
	assert.ErrorIs(t, w.WriteMatrix(&arraystore.Buffer{DType: arraystore.String, Dims: []int{1, 2}, String: []string{"x", "y"}}), arraystore.ErrTypeMismatch)
}

func TestWriter_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.arrow")
	w, err := Create(path, []string{"routine", "step"}, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 5 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 10 {
				assert.NoError(t, w.Write([]float64{float64(id), float64(j)}))
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, cols, _ := readColumns(t, data)
	assert.Len(t, cols[0], 50)
}
