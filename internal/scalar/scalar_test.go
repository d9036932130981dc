package scalar

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		spelling string
		want     Kind
	}{
		{"char", I8}, {"int8", I8},
		{"uchar", U8}, {"uint8", U8},
		{"short", I16}, {"int16", I16},
		{"ushort", U16}, {"uint16", U16},
		{"int", I32}, {"int32", I32},
		{"uint", U32}, {"uint32", U32},
		{"float", F32}, {"float32", F32},
		{"double", F64}, {"float64", F64},
	}
	for _, c := range cases {
		t.Run(c.spelling, func(t *testing.T) {
			got, err := Resolve(c.spelling)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", c.spelling, err)
			}
			if got != c.want {
				t.Fatalf("Resolve(%q) = %v, want %v", c.spelling, got, c.want)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	if _, err := Resolve("list"); err == nil {
		t.Fatal("Resolve(\"list\") should fail: list is a property marker, not a scalar kind")
	}
	if _, err := Resolve("byte"); err == nil {
		t.Fatal("Resolve(\"byte\") should fail: not one of the seventeen accepted spellings")
	}
}

func TestWidth(t *testing.T) {
	cases := map[Kind]int{
		I8: 1, U8: 1, I16: 2, U16: 2, I32: 4, U32: 4, F32: 4, F64: 8,
	}
	for k, want := range cases {
		if got := Width(k); got != want {
			t.Errorf("Width(%v) = %d, want %d", k, got, want)
		}
	}
}

func TestClampToInt(t *testing.T) {
	cases := []struct {
		name string
		k    Kind
		in   float64
		want int64
	}{
		{"overflow uint8", U8, 300.0, 255},
		{"negative fraction int16 truncates toward zero", I16, -1.5, -1},
		{"in range", I32, 42.0, 42},
		{"negative into unsigned clamps to zero", U32, -5.0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClampToInt(c.k, c.in); got != c.want {
				t.Fatalf("ClampToInt(%v, %v) = %d, want %d", c.k, c.in, got, c.want)
			}
		})
	}
}
