package arraystore

import "fmt"

// Buffer holds a typed, row-major block of values.
//
// Exactly one of the value slices is populated, matching DType. Dims is the
// shape of the block with the slowest-varying dimension first; a nil Dims
// means a flat vector of Len() values.
type Buffer struct {
	DType   DType
	Dims    []int
	Int32   []int32
	UInt16  []uint16
	UInt8   []uint8
	Float64 []float64
	String  []string
}

// NewBuffer returns an empty buffer of the given type with room for n values.
func NewBuffer(dt DType, n int) *Buffer {
	b := &Buffer{DType: dt}
	switch dt {
	case Int32:
		b.Int32 = make([]int32, 0, n)
	case UInt16:
		b.UInt16 = make([]uint16, 0, n)
	case UInt8:
		b.UInt8 = make([]uint8, 0, n)
	case Float64:
		b.Float64 = make([]float64, 0, n)
	case String:
		b.String = make([]string, 0, n)
	}
	return b
}

// Len returns the number of values held.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	switch b.DType {
	case Int32:
		return len(b.Int32)
	case UInt16:
		return len(b.UInt16)
	case UInt8:
		return len(b.UInt8)
	case Float64:
		return len(b.Float64)
	case String:
		return len(b.String)
	default:
		return 0
	}
}

// Append appends the values of o. An untyped (Custom) receiver adopts the
// type of o.
func (b *Buffer) Append(o *Buffer) error {
	if o == nil {
		return nil
	}
	if b.DType == Custom {
		b.DType = o.DType
	}
	if b.DType != o.DType {
		return fmt.Errorf("%w: cannot append %s to %s", ErrTypeMismatch, o.DType, b.DType)
	}
	switch b.DType {
	case Int32:
		b.Int32 = append(b.Int32, o.Int32...)
	case UInt16:
		b.UInt16 = append(b.UInt16, o.UInt16...)
	case UInt8:
		b.UInt8 = append(b.UInt8, o.UInt8...)
	case Float64:
		b.Float64 = append(b.Float64, o.Float64...)
	case String:
		b.String = append(b.String, o.String...)
	}
	return nil
}

// Slice returns a flat view of values [i, j). The view shares memory with b.
func (b *Buffer) Slice(i, j int) *Buffer {
	v := &Buffer{DType: b.DType}
	switch b.DType {
	case Int32:
		v.Int32 = b.Int32[i:j]
	case UInt16:
		v.UInt16 = b.UInt16[i:j]
	case UInt8:
		v.UInt8 = b.UInt8[i:j]
	case Float64:
		v.Float64 = b.Float64[i:j]
	case String:
		v.String = b.String[i:j]
	}
	return v
}

// Values returns the populated slice as an untyped value.
func (b *Buffer) Values() any {
	switch b.DType {
	case Int32:
		return b.Int32
	case UInt16:
		return b.UInt16
	case UInt8:
		return b.UInt8
	case Float64:
		return b.Float64
	case String:
		return b.String
	default:
		return nil
	}
}

// Float64At returns value i converted to float64. String buffers yield 0.
func (b *Buffer) Float64At(i int) float64 {
	switch b.DType {
	case Int32:
		return float64(b.Int32[i])
	case UInt16:
		return float64(b.UInt16[i])
	case UInt8:
		return float64(b.UInt8[i])
	case Float64:
		return b.Float64[i]
	default:
		return 0
	}
}
