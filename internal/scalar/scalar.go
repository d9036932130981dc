// Package scalar implements the PLY scalar type registry: the mapping from
// the sixteen scalar type spellings to the eight canonical numeric kinds,
// their on-disk byte widths, and the clamp/round rules used on the write
// path.
package scalar

import (
	"fmt"
	"math"

	"github.com/jtang613/goply/internal/plyerr"
)

// Kind is one of the eight canonical PLY numeric kinds.
type Kind int

const (
	I8 Kind = iota
	U8
	I16
	U16
	I32
	U32
	F32
	F64
)

func (k Kind) String() string {
	switch k {
	case I8:
		return "int8"
	case U8:
		return "uint8"
	case I16:
		return "int16"
	case U16:
		return "uint16"
	case I32:
		return "int32"
	case U32:
		return "uint32"
	case F32:
		return "float32"
	case F64:
		return "float64"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// spellings maps every accepted header-grammar token to its canonical kind.
// List is not a Kind; it is handled separately by the header parser as the
// property-flavor marker.
var spellings = map[string]Kind{
	"char":    I8,
	"int8":    I8,
	"uchar":   U8,
	"uint8":   U8,
	"short":   I16,
	"int16":   I16,
	"ushort":  U16,
	"uint16":  U16,
	"int":     I32,
	"int32":   I32,
	"uint":    U32,
	"uint32":  U32,
	"float":   F32,
	"float32": F32,
	"double":  F64,
	"float64": F64,
}

// widths holds the fixed on-disk byte width of each kind.
var widths = [...]int{
	I8:  1,
	U8:  1,
	I16: 2,
	U16: 2,
	I32: 4,
	U32: 4,
	F32: 4,
	F64: 8,
}

// Resolve maps a header type spelling to its canonical kind. "list" is
// rejected here; the header parser recognizes it separately as the list
// marker, not a scalar kind.
func Resolve(spelling string) (Kind, error) {
	k, ok := spellings[spelling]
	if !ok {
		return 0, plyerr.Wrap(plyerr.UnknownType, ErrUnknownType, "%q", spelling)
	}
	return k, nil
}

// Width returns the fixed on-disk byte width of kind.
func Width(k Kind) int {
	return widths[k]
}

// ErrUnknownType is wrapped by Resolve when the spelling is not one of the
// sixteen scalar type tokens (the list marker "list" is rejected as well).
var ErrUnknownType = fmt.Errorf("unknown PLY scalar type")

// ClampToInt truncates v toward zero and clamps it into kind's representable
// signed/unsigned integer range. k must be an integer kind.
func ClampToInt(k Kind, v float64) int64 {
	lo, hi := intRange(k)
	t := math.Trunc(v)
	if math.IsNaN(t) {
		return 0
	}
	if t < float64(lo) {
		return lo
	}
	if t > float64(hi) {
		return hi
	}
	return int64(t)
}

func intRange(k Kind) (lo, hi int64) {
	switch k {
	case I8:
		return math.MinInt8, math.MaxInt8
	case U8:
		return 0, math.MaxUint8
	case I16:
		return math.MinInt16, math.MaxInt16
	case U16:
		return 0, math.MaxUint16
	case I32:
		return math.MinInt32, math.MaxInt32
	case U32:
		return 0, math.MaxUint32
	default:
		panic(fmt.Sprintf("scalar: %v is not an integer kind", k))
	}
}

// IsFloat reports whether k is one of the two floating-point kinds.
func IsFloat(k Kind) bool {
	return k == F32 || k == F64
}

// IsSigned reports whether k is a signed integer kind.
func IsSigned(k Kind) bool {
	switch k {
	case I8, I16, I32:
		return true
	default:
		return false
	}
}
