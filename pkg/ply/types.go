// Package ply implements a reader and writer for the PLY geometry
// interchange format: a header parser and element-directed reader that
// streams element instances through caller-registered per-property
// callbacks, and a header emitter and element writer that accepts values in
// declaration order and produces byte-for-byte correct output in any of the
// three storage modes (ascii, binary_little_endian, binary_big_endian).
//
// Grounded on pkg/pdb/pdb.go's PDB type: one façade composing several
// lower-level sub-parsers (msf, streams, codeview) behind a handful of
// flat accessor methods. Here the sub-parsers are internal/schema,
// internal/header, internal/codec, and internal/bufio.
package ply

import (
	"github.com/jtang613/goply/internal/scalar"
	"github.com/jtang613/goply/internal/schema"
)

// Kind is one of the eight canonical PLY numeric kinds (spec §3).
type Kind = scalar.Kind

const (
	Int8    = scalar.I8
	Uint8   = scalar.U8
	Int16   = scalar.I16
	Uint16  = scalar.U16
	Int32   = scalar.I32
	Uint32  = scalar.U32
	Float32 = scalar.F32
	Float64 = scalar.F64
)

// StorageMode is the on-disk encoding of value bytes.
type StorageMode = schema.StorageMode

const (
	ASCII              = schema.ASCII
	BinaryLittleEndian = schema.BinaryLittleEndian
	BinaryBigEndian    = schema.BinaryBigEndian
)

// Default resolves to the host's native endianness (spec §3, §6).
func Default() StorageMode { return schema.NativeMode() }

// Flavor distinguishes a scalar property from a list property.
type Flavor = schema.Flavor

const (
	Scalar = schema.Scalar
	List   = schema.List
)

// Element and Property mirror the schema model of spec §4.4, exposed here
// as the read-only view callers get back from Reader.Elements.
type Element = schema.Element
type Property = schema.Property
