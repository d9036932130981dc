// Package codec implements the per-kind, per-storage-mode encoding
// primitives of spec §4.3: decode one on-disk value into a float64, encode
// a float64 into a kind's on-disk representation, for each of the three
// storage modes.
//
// Grounded on pkg/pdb/msf/superblock.go's field-at-a-time
// binary.Read(r, binary.LittleEndian, &field) calls, generalized here into
// a kind-indexed dispatch table instead of one fixed struct.
package codec

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/jtang613/goply/internal/bufio"
	"github.com/jtang613/goply/internal/plyerr"
	"github.com/jtang613/goply/internal/scalar"
	"github.com/jtang613/goply/internal/schema"
)

func byteOrder(mode schema.StorageMode) binary.ByteOrder {
	if mode == schema.BinaryBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Decode reads one on-disk value of kind k, in storage mode, from r and
// returns it widened to a float64.
func Decode(r *bufio.Reader, mode schema.StorageMode, k scalar.Kind) (float64, error) {
	if mode == schema.ASCII {
		return decodeText(r, k)
	}
	return decodeBinary(r, mode, k)
}

// Encode writes v to w as kind k's on-disk representation in storage mode.
func Encode(w *bufio.Writer, mode schema.StorageMode, k scalar.Kind, v float64) error {
	if mode == schema.ASCII {
		return encodeText(w, k, v)
	}
	return encodeBinary(w, mode, k, v)
}

func decodeText(r *bufio.Reader, k scalar.Kind) (float64, error) {
	word, err := r.ReadWord()
	if err != nil {
		return 0, err
	}
	if scalar.IsFloat(k) {
		bitSize := 64
		if k == scalar.F32 {
			bitSize = 32
		}
		f, err := strconv.ParseFloat(word, bitSize)
		if err != nil {
			return 0, plyerr.Wrap(plyerr.BadFloat, err, "invalid %s literal %q", k, word)
		}
		return f, nil
	}
	if scalar.IsSigned(k) {
		n, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return 0, plyerr.Wrap(plyerr.BadInteger, err, "invalid %s literal %q", k, word)
		}
		return float64(n), nil
	}
	n, err := strconv.ParseUint(word, 10, 64)
	if err != nil {
		return 0, plyerr.Wrap(plyerr.BadInteger, err, "invalid %s literal %q", k, word)
	}
	return float64(n), nil
}

// encodeText writes the minimal round-trippable decimal form for floats and
// the standard decimal form for integers (spec §4.3).
func encodeText(w *bufio.Writer, k scalar.Kind, v float64) error {
	switch k {
	case scalar.F32:
		return w.PutWord(strconv.FormatFloat(v, 'g', -1, 32))
	case scalar.F64:
		return w.PutWord(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		n := scalar.ClampToInt(k, v)
		if scalar.IsSigned(k) {
			return w.PutWord(strconv.FormatInt(n, 10))
		}
		return w.PutWord(strconv.FormatUint(uint64(n), 10))
	}
}

func decodeBinary(r *bufio.Reader, mode schema.StorageMode, k scalar.Kind) (float64, error) {
	b, err := r.GetBytes(scalar.Width(k))
	if err != nil {
		return 0, err
	}
	order := byteOrder(mode)
	switch k {
	case scalar.I8:
		return float64(int8(b[0])), nil
	case scalar.U8:
		return float64(b[0]), nil
	case scalar.I16:
		return float64(int16(order.Uint16(b))), nil
	case scalar.U16:
		return float64(order.Uint16(b)), nil
	case scalar.I32:
		return float64(int32(order.Uint32(b))), nil
	case scalar.U32:
		return float64(order.Uint32(b)), nil
	case scalar.F32:
		return float64(math.Float32frombits(order.Uint32(b))), nil
	case scalar.F64:
		return math.Float64frombits(order.Uint64(b)), nil
	default:
		return 0, plyerr.New(plyerr.UnknownType, "unhandled kind %v", k)
	}
}

func encodeBinary(w *bufio.Writer, mode schema.StorageMode, k scalar.Kind, v float64) error {
	order := byteOrder(mode)
	b := make([]byte, scalar.Width(k))
	switch k {
	case scalar.I8:
		b[0] = byte(int8(scalar.ClampToInt(k, v)))
	case scalar.U8:
		b[0] = byte(scalar.ClampToInt(k, v))
	case scalar.I16:
		order.PutUint16(b, uint16(int16(scalar.ClampToInt(k, v))))
	case scalar.U16:
		order.PutUint16(b, uint16(scalar.ClampToInt(k, v)))
	case scalar.I32:
		order.PutUint32(b, uint32(int32(scalar.ClampToInt(k, v))))
	case scalar.U32:
		order.PutUint32(b, uint32(scalar.ClampToInt(k, v)))
	case scalar.F32:
		order.PutUint32(b, math.Float32bits(float32(v)))
	case scalar.F64:
		order.PutUint64(b, math.Float64bits(v))
	default:
		return plyerr.New(plyerr.UnknownType, "unhandled kind %v", k)
	}
	return w.PutBytes(b)
}
