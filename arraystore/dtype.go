package arraystore

import "fmt"

// DType identifies the element type of a node or of a requested buffer.
type DType uint8

const (
	// Custom requests the node's native element type.
	Custom DType = iota
	Int32
	UInt16
	UInt8
	Float64
	String
)

// String returns the stable name of the type.
func (d DType) String() string {
	switch d {
	case Custom:
		return "custom"
	case Int32:
		return "int32"
	case UInt16:
		return "uint16"
	case UInt8:
		return "uint8"
	case Float64:
		return "float64"
	case String:
		return "string"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(d))
	}
}

// ParseDType resolves a type by its stable name.
func ParseDType(name string) (DType, error) {
	switch name {
	case "int32":
		return Int32, nil
	case "uint16":
		return UInt16, nil
	case "uint8":
		return UInt8, nil
	case "float64":
		return Float64, nil
	case "string":
		return String, nil
	default:
		return Custom, fmt.Errorf("%w: unknown dtype %q", ErrTypeMismatch, name)
	}
}

// Size returns the fixed encoded width in bytes, or 0 for variable width types.
func (d DType) Size() int {
	switch d {
	case Int32:
		return 4
	case UInt16:
		return 2
	case UInt8:
		return 1
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsNumeric reports whether values of d are numbers.
func (d DType) IsNumeric() bool {
	return d == Int32 || d == UInt16 || d == UInt8 || d == Float64
}
