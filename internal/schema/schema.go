// Package schema implements the PLY schema model of spec §4.4: an
// append-only-while-building, read-only-while-driving representation of a
// file's elements, properties, comments, and object-info lines.
//
// Grounded on pkg/pdb/types.go's flat exported-struct records and
// msf/stream.go's StreamDirectory (an ordered, index-addressed table built
// once and then iterated many times).
package schema

import (
	"encoding/binary"

	"github.com/jtang613/goply/internal/scalar"
)

// StorageMode is the on-disk encoding of value bytes (spec §3).
type StorageMode int

const (
	ASCII StorageMode = iota
	BinaryLittleEndian
	BinaryBigEndian
)

func (m StorageMode) String() string {
	switch m {
	case ASCII:
		return "ascii"
	case BinaryLittleEndian:
		return "binary_little_endian"
	case BinaryBigEndian:
		return "binary_big_endian"
	default:
		return "unknown"
	}
}

// Flavor distinguishes a scalar property from a list property.
type Flavor int

const (
	Scalar Flavor = iota
	List
)

// Property is one named field within an element.
type Property struct {
	Name   string
	Flavor Flavor

	// Valid when Flavor == Scalar.
	ValueKind scalar.Kind

	// Valid when Flavor == List.
	LengthKind scalar.Kind
	ListValue  scalar.Kind
}

// Element is a named, ordered group of properties with a declared instance
// count.
type Element struct {
	Name       string
	Count      int64
	Properties []Property
}

// PropertyIndex returns the index of the named property within e, or -1.
func (e *Element) PropertyIndex(name string) int {
	for i, p := range e.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Schema is the in-memory header model: ordered elements, each with ordered
// properties, plus the free-form comment and object-info sequences and the
// chosen storage mode.
type Schema struct {
	Mode     StorageMode
	Elements []Element
	Comments []string
	ObjInfo  []string
}

// ElementIndex returns the index of the named element, or -1.
func (s *Schema) ElementIndex(name string) int {
	for i, e := range s.Elements {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// nativeMode is resolved once at init time and used wherever spec §3's
// "default"/"binary" tokens resolve to the host's native endianness.
var nativeMode StorageMode

func init() {
	b := make([]byte, 2)
	binary.NativeEndian.PutUint16(b, 0xABCD)
	if b[0] == 0xCD {
		nativeMode = BinaryLittleEndian
	} else {
		nativeMode = BinaryBigEndian
	}
}

// NativeMode returns the host's native-endianness storage mode.
func NativeMode() StorageMode {
	return nativeMode
}
