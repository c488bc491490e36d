package word

import "testing"

func TestOctalFloatRoundtrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		f := NewOctalFloatFromByte(uint8(b))
		if f.Byte() != uint8(b) {
			t.Fatalf("OctalFloat(%#02x) roundtrip mismatch: got %#02x", b, f.Byte())
		}
	}
}

func TestOctalFloatFromHexToFloat(t *testing.T) {
	f, err := NewOctalFloatFromHex("AA")
	if err != nil {
		t.Fatalf("NewOctalFloatFromHex: %v", err)
	}
	want := -0.15625
	if got := f.Float64(); got != want {
		t.Errorf("OctalFloat(AA).Float64() = %v, want %v", got, want)
	}
}

func TestRightShift4(t *testing.T) {
	tests := []struct {
		mantissa uint8
		y        int
		want     uint8
	}{
		{0b1111, 2, 0b0011},
		{0b1111, 0, 0b1111},
		{0b1111, 4, 0b0000},
		{0b1010, 1, 0b0101},
	}
	for _, tc := range tests {
		got := RightShift4(tc.mantissa, tc.y)
		if got != tc.want {
			t.Errorf("RightShift4(%04b, %d) = %04b, want %04b", tc.mantissa, tc.y, got, tc.want)
		}
	}
}

func TestOctalFloatAdd(t *testing.T) {
	a, err := NewOctalFloatFromHex("20") // sign 0, exp 2-8=-6, mantissa 0
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewOctalFloatFromHex("21") // sign 0, exp -6, mantissa 1
	if err != nil {
		t.Fatal(err)
	}
	sum := a.Add(b)
	if sum.Exponent() != -6 {
		t.Errorf("sum exponent = %d, want -6", sum.Exponent())
	}
	if sum.mantissa != 1 {
		t.Errorf("sum mantissa = %d, want 1", sum.mantissa)
	}
}
