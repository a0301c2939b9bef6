package eigtypes

import "github.com/x448/float16"

// Precision is the element precision a matrix is stored in.
type Precision uint8

const (
	PrecisionDouble Precision = iota // float64
	PrecisionSingle                  // float32
	PrecisionHalf                    // IEEE 754 binary16
)

// String returns the dtype name accepted on the command line.
func (p Precision) String() string {
	switch p {
	case PrecisionDouble:
		return "double"
	case PrecisionSingle:
		return "float"
	case PrecisionHalf:
		return "half"
	default:
		return "unknown"
	}
}

// Size returns the storage size of one element in bytes.
func (p Precision) Size() int {
	switch p {
	case PrecisionSingle:
		return 4
	case PrecisionHalf:
		return 2
	default:
		return 8
	}
}

// Epsilon returns the machine epsilon (unit roundoff times two).
func (p Precision) Epsilon() float64 {
	switch p {
	case PrecisionSingle:
		return 0x1p-23
	case PrecisionHalf:
		return 0x1p-10
	default:
		return 0x1p-52
	}
}

// Round rounds x to the nearest value representable in p.
func (p Precision) Round(x float64) float64 {
	switch p {
	case PrecisionSingle:
		return float64(float32(x))
	case PrecisionHalf:
		return float64(float16.Fromfloat32(float32(x)).Float32())
	default:
		return x
	}
}

// Round32 rounds a float32 to p. Double and single are returned unchanged.
func (p Precision) Round32(x float32) float32 {
	if p == PrecisionHalf {
		return float16.Fromfloat32(x).Float32()
	}
	return x
}

// Valid reports whether p is a known precision.
func (p Precision) Valid() bool {
	return p <= PrecisionHalf
}
