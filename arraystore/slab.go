package arraystore

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// plan resolves req against dims into the selected coordinates of every
// dimension, in increasing order.
func plan(dims []int32, req Request) ([][]int, error) {
	rank := len(dims)
	if req.Start != nil && len(req.Start) != rank {
		return nil, fmt.Errorf("%w: start has %d entries, node rank is %d", ErrInvalidRequest, len(req.Start), rank)
	}
	if req.Count != nil && len(req.Count) != rank {
		return nil, fmt.Errorf("%w: count has %d entries, node rank is %d", ErrInvalidRequest, len(req.Count), rank)
	}
	if req.Selection != nil && len(req.Selection) != rank {
		return nil, fmt.Errorf("%w: selection has %d entries, node rank is %d", ErrInvalidRequest, len(req.Selection), rank)
	}

	coords := make([][]int, rank)
	for d := range rank {
		start, count := 0, int(dims[d])
		if req.Start != nil {
			start = int(req.Start[d])
		}
		if req.Count != nil {
			count = int(req.Count[d])
		}
		if start < 0 || count < 0 || start+count > int(dims[d]) {
			return nil, fmt.Errorf("%w: dimension %d [%d, %d) exceeds extent %d", ErrOutOfRange, d, start, start+count, dims[d])
		}
		var mask []bool
		if req.Selection != nil {
			mask = req.Selection[d]
		}
		if mask != nil && len(mask) != count {
			return nil, fmt.Errorf("%w: selection of dimension %d has length %d, want %d", ErrInvalidRequest, d, len(mask), count)
		}
		c := make([]int, 0, count)
		for i := range count {
			if mask == nil || mask[i] {
				c = append(c, start+i)
			}
		}
		coords[d] = c
	}
	return coords, nil
}

func shapeOf(coords [][]int) []int {
	s := make([]int, len(coords))
	for d, c := range coords {
		s[d] = len(c)
	}
	return s
}

// gather copies the addressed elements of a row-major array.
func gather[T any](src []T, dims []int32, coords [][]int) []T {
	rank := len(dims)
	if rank == 0 {
		return append([]T(nil), src...)
	}
	total := 1
	for _, c := range coords {
		total *= len(c)
	}
	out := make([]T, 0, total)
	if total == 0 {
		return out
	}

	stride := make([]int, rank)
	stride[rank-1] = 1
	for d := rank - 2; d >= 0; d-- {
		stride[d] = stride[d+1] * int(dims[d+1])
	}

	idx := make([]int, rank)
	inner := coords[rank-1]
	for {
		base := 0
		for d := 0; d < rank-1; d++ {
			base += coords[d][idx[d]] * stride[d]
		}
		for _, c := range inner {
			out = append(out, src[base+c])
		}

		d := rank - 2
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < len(coords[d]) {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			return out
		}
	}
}

func castSlice[S, D number](src []S) []D {
	out := make([]D, len(src))
	for i, v := range src {
		out[i] = D(v)
	}
	return out
}

func numericBuffer[S number](src []S, native, target DType) (*Buffer, error) {
	if target == Custom {
		target = native
	}
	b := &Buffer{DType: target}
	switch target {
	case Int32:
		b.Int32 = castSlice[S, int32](src)
	case UInt16:
		b.UInt16 = castSlice[S, uint16](src)
	case UInt8:
		b.UInt8 = castSlice[S, uint8](src)
	case Float64:
		b.Float64 = castSlice[S, float64](src)
	default:
		return nil, fmt.Errorf("%w: cannot read %s as %s", ErrTypeMismatch, native, target)
	}
	return b, nil
}

// toBuffer converts one of the supported value slices to a buffer of type target.
func toBuffer(values any, target DType) (*Buffer, error) {
	switch v := values.(type) {
	case []int32:
		return numericBuffer(v, Int32, target)
	case []uint16:
		return numericBuffer(v, UInt16, target)
	case []uint8:
		return numericBuffer(v, UInt8, target)
	case []float64:
		return numericBuffer(v, Float64, target)
	case []string:
		if target != Custom && target != String {
			return nil, fmt.Errorf("%w: cannot read string as %s", ErrTypeMismatch, target)
		}
		return &Buffer{DType: String, String: append([]string(nil), v...)}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrTypeMismatch, values)
	}
}

// valuesInfo returns the element type and length of a supported value slice.
func valuesInfo(values any) (DType, int, error) {
	switch v := values.(type) {
	case []int32:
		return Int32, len(v), nil
	case []uint16:
		return UInt16, len(v), nil
	case []uint8:
		return UInt8, len(v), nil
	case []float64:
		return Float64, len(v), nil
	case []string:
		return String, len(v), nil
	case []bool:
		return UInt8, len(v), nil
	default:
		return Custom, 0, fmt.Errorf("%w: unsupported value type %T", ErrTypeMismatch, values)
	}
}

// normalizeValues maps []bool onto the uint8 representation used for flags.
func normalizeValues(values any) any {
	if b, ok := values.([]bool); ok {
		out := make([]uint8, len(b))
		for i, v := range b {
			if v {
				out[i] = 1
			}
		}
		return out
	}
	return values
}

func gatherValues(values any, dims []int32, coords [][]int) any {
	switch v := values.(type) {
	case []int32:
		return gather(v, dims, coords)
	case []uint16:
		return gather(v, dims, coords)
	case []uint8:
		return gather(v, dims, coords)
	case []float64:
		return gather(v, dims, coords)
	case []string:
		return gather(v, dims, coords)
	default:
		return nil
	}
}

func sliceValues(values any, i, j int) any {
	switch v := values.(type) {
	case []int32:
		return v[i:j]
	case []uint16:
		return v[i:j]
	case []uint8:
		return v[i:j]
	case []float64:
		return v[i:j]
	case []string:
		return v[i:j]
	default:
		return nil
	}
}
