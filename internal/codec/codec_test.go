package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/jtang613/goply/internal/bufio"
	"github.com/jtang613/goply/internal/scalar"
	"github.com/jtang613/goply/internal/schema"
)

func roundTrip(t *testing.T, mode schema.StorageMode, k scalar.Kind, v float64) float64 {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := Encode(w, mode, k, v); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if mode == schema.ASCII {
		if err := w.PutEOL(); err != nil {
			t.Fatalf("PutEOL failed: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	r := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := Decode(r, mode, k)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return got
}

func TestRoundTripIntegers(t *testing.T) {
	modes := []schema.StorageMode{schema.ASCII, schema.BinaryLittleEndian, schema.BinaryBigEndian}
	kinds := []scalar.Kind{scalar.I8, scalar.U8, scalar.I16, scalar.U16, scalar.I32, scalar.U32}
	for _, mode := range modes {
		for _, k := range kinds {
			got := roundTrip(t, mode, k, 7)
			if got != 7 {
				t.Errorf("mode=%v kind=%v: round trip of 7 got %v", mode, k, got)
			}
		}
	}
}

func TestRoundTripFloats(t *testing.T) {
	modes := []schema.StorageMode{schema.ASCII, schema.BinaryLittleEndian, schema.BinaryBigEndian}
	for _, mode := range modes {
		got := roundTrip(t, mode, scalar.F64, 3.14159265358979)
		if math.Abs(got-3.14159265358979) > 1e-12 {
			t.Errorf("mode=%v: f64 round trip got %v", mode, got)
		}
		gotF32 := float32(roundTrip(t, mode, scalar.F32, 3.14159))
		if math.Abs(float64(gotF32-3.14159)) > 1e-5 {
			t.Errorf("mode=%v: f32 round trip got %v", mode, gotF32)
		}
	}
}

func TestEncodeClampsOnWrite(t *testing.T) {
	got := roundTrip(t, schema.BinaryLittleEndian, scalar.U8, 300.0)
	if got != 255 {
		t.Errorf("writing 300 as uint8 = %v, want 255", got)
	}
	got = roundTrip(t, schema.BinaryLittleEndian, scalar.I16, -1.5)
	if got != -1 {
		t.Errorf("writing -1.5 as int16 = %v, want -1", got)
	}
}

func TestEncodeFloat32Overflow(t *testing.T) {
	got := roundTrip(t, schema.BinaryLittleEndian, scalar.F32, 1e40)
	if !math.IsInf(got, 1) {
		t.Errorf("writing 1e40 as float32 = %v, want +Inf", got)
	}
}

func TestDecodeBadInteger(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte("notanumber\n")))
	if _, err := Decode(r, schema.ASCII, scalar.I32); err == nil {
		t.Fatal("expected BadInteger decoding a non-numeric word")
	}
}

func TestEndianSwap(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := Encode(w, schema.BinaryBigEndian, scalar.I32, -12345); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	r := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := Decode(r, schema.BinaryBigEndian, scalar.I32)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != -12345 {
		t.Fatalf("big-endian round trip got %v, want -12345", got)
	}
}
