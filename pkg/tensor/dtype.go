package tensor

import "fmt"

// DType is the element type of a tensor.
type DType uint8

const (
	Invalid DType = iota
	Float32
	Int32
	UInt8
)

// Size returns the size of one element in bytes.
func (d DType) Size() int {
	switch d {
	case Float32, Int32:
		return 4
	case UInt8:
		return 1
	default:
		return 0
	}
}

// String returns the dtype name.
func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case UInt8:
		return "uint8"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("DType(%d)", d)
	}
}
