package arraystore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeValues serializes values little-endian. Strings are written as a
// uvarint length followed by their UTF-8 bytes.
func encodeValues(values any) ([]byte, error) {
	switch v := values.(type) {
	case []int32:
		out := make([]byte, 4*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint32(out[4*i:], uint32(x))
		}
		return out, nil
	case []uint16:
		out := make([]byte, 2*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint16(out[2*i:], x)
		}
		return out, nil
	case []uint8:
		return append([]byte(nil), v...), nil
	case []float64:
		out := make([]byte, 8*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(x))
		}
		return out, nil
	case []string:
		var out []byte
		for _, s := range v {
			out = binary.AppendUvarint(out, uint64(len(s)))
			out = append(out, s...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrTypeMismatch, values)
	}
}

// decodeValues reverses encodeValues for n elements of type dt.
func decodeValues(data []byte, dt DType, n int) (any, error) {
	if w := dt.Size(); w > 0 && len(data) != w*n {
		return nil, fmt.Errorf("%w: payload has %d bytes, want %d", errCorruptBlock, len(data), w*n)
	}
	switch dt {
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
		}
		return out, nil
	case UInt16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(data[2*i:])
		}
		return out, nil
	case UInt8:
		return append([]uint8(nil), data...), nil
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		}
		return out, nil
	case String:
		out := make([]string, n)
		off := 0
		for i := range out {
			l, k := binary.Uvarint(data[off:])
			if k <= 0 || off+k+int(l) > len(data) {
				return nil, fmt.Errorf("%w: truncated string %d", errCorruptBlock, i)
			}
			off += k
			out[i] = string(data[off : off+int(l)])
			off += int(l)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot decode %s", ErrTypeMismatch, dt)
	}
}
