package word

import "testing"

func TestNewCellWraps(t *testing.T) {
	tests := []struct {
		name  string
		in    int
		want  int
		wantB string
	}{
		{"zero", 0, 0, "00000000"},
		{"in range", 44, 44, "00101100"},
		{"wraps over 255", 300, 44, "00101100"},
		{"wraps exactly 256", 256, 0, "00000000"},
		{"negative wraps", -1, 255, "11111111"},
		{"negative large", -300, 212, "11010100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCell(tc.in)
			if c.Value() != tc.want {
				t.Errorf("NewCell(%d).Value() = %d, want %d", tc.in, c.Value(), tc.want)
			}
			if c.BinaryValue() != tc.wantB {
				t.Errorf("NewCell(%d).BinaryValue() = %s, want %s", tc.in, c.BinaryValue(), tc.wantB)
			}
		})
	}
}

func TestCellSetHex(t *testing.T) {
	var c Cell
	if err := c.SetHex("A0"); err != nil {
		t.Fatalf("SetHex: %v", err)
	}
	if c.Value() != 0xA0 {
		t.Errorf("Value() = %#x, want 0xa0", c.Value())
	}
	if c.Hex() != "A0" {
		t.Errorf("Hex() = %s, want A0", c.Hex())
	}
}

func TestCellEquality(t *testing.T) {
	a := NewCell(44)
	b := NewCell(300)
	if a != b {
		t.Errorf("NewCell(44) != NewCell(300), want equal by value")
	}
}

func TestCellSetHexInvalid(t *testing.T) {
	var c Cell
	if err := c.SetHex("zz"); err == nil {
		t.Error("SetHex(\"zz\") expected an error, got nil")
	}
}

func TestRotateRightRoundtrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		for k := 0; k < 8; k++ {
			got := RotateRight(RotateRight(uint8(v), k), 8-k)
			if got != uint8(v) {
				t.Fatalf("RotateRight(RotateRight(%d, %d), %d) = %d, want %d", v, k, 8-k, got, v)
			}
		}
	}
}

func TestRotateRightKnownValues(t *testing.T) {
	tests := []struct {
		v, n int
		want uint8
	}{
		{0b00000001, 1, 0b10000000},
		{0b10000000, 1, 0b01000000},
		{0b11110000, 4, 0b00001111},
		{0b00000001, 0, 0b00000001},
	}
	for _, tc := range tests {
		got := RotateRight(uint8(tc.v), tc.n)
		if got != tc.want {
			t.Errorf("RotateRight(%08b, %d) = %08b, want %08b", tc.v, tc.n, got, tc.want)
		}
	}
}
