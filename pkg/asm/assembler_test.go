package asm

import "testing"

// TestAssembleHaltOnly covers the trivial one-instruction program.
func TestAssembleHaltOnly(t *testing.T) {
	a := NewAssembler(nil)
	mem, err := a.Assemble("halt\n", 32)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mem[0].Hex() != "C0" || mem[1].Hex() != "00" {
		t.Fatalf("mem[0:2] = %s%s, want C000", mem[0].Hex(), mem[1].Hex())
	}
}

// TestAssembleLoadImmediateAndStore exercises a contested mnemonic pair
// (immediate load, direct store) plus numeral conversion.
func TestAssembleLoadImmediateAndStore(t *testing.T) {
	a := NewAssembler(nil)
	src := "load r2, 20h\nstore r2, [21h]\nhalt\n"
	mem, err := a.Assemble(src, 32)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mem[0].Hex() != "22" || mem[1].Hex() != "20" {
		t.Errorf("load encoding = %s%s, want 2220", mem[0].Hex(), mem[1].Hex())
	}
	if mem[2].Hex() != "32" || mem[3].Hex() != "21" {
		t.Errorf("store encoding = %s%s, want 3221", mem[2].Hex(), mem[3].Hex())
	}
	if mem[4].Hex() != "C0" || mem[5].Hex() != "00" {
		t.Errorf("halt encoding = %s%s, want C000", mem[4].Hex(), mem[5].Hex())
	}
}

// TestAssembleDBDirective covers raw byte emission via db.
func TestAssembleDBDirective(t *testing.T) {
	a := NewAssembler(nil)
	src := "db 41h,42h,43h\n"
	mem, err := a.Assemble(src, 16)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{"41", "42", "43"}
	for i, w := range want {
		if mem[i].Hex() != w {
			t.Errorf("mem[%d] = %s, want %s", i, mem[i].Hex(), w)
		}
	}
}

// TestAssembleDBDirectiveString covers character-string db operands,
// which must expand one byte per character rather than being dropped.
func TestAssembleDBDirectiveString(t *testing.T) {
	a := NewAssembler(nil)
	src := `db "hi",2ah` + "\n"
	mem, err := a.Assemble(src, 16)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{"68", "69", "2A"}
	for i, w := range want {
		if mem[i].Hex() != w {
			t.Errorf("mem[%d] = %s, want %s", i, mem[i].Hex(), w)
		}
	}
}

// TestAssembleOrgDirective covers the org directive repositioning the
// write pointer mid-program.
func TestAssembleOrgDirective(t *testing.T) {
	a := NewAssembler(nil)
	src := "org 10h\nhalt\n"
	mem, err := a.Assemble(src, 32)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mem[0x10].Hex() != "C0" || mem[0x11].Hex() != "00" {
		t.Errorf("halt at org target = %s%s, want C000", mem[0x10].Hex(), mem[0x11].Hex())
	}
}

// TestAssembleLabelLoop assembles a forward-referencing jump to a labeled
// instruction and checks the resolved target address.
func TestAssembleLabelLoop(t *testing.T) {
	a := NewAssembler(nil)
	src := "jmp loop\nloop: halt\n"
	mem, err := a.Assemble(src, 32)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mem[0].Hex() != "B0" || mem[1].Hex() != "02" {
		t.Errorf("jmp encoding = %s%s, want B002", mem[0].Hex(), mem[1].Hex())
	}
	if mem[2].Hex() != "C0" || mem[3].Hex() != "00" {
		t.Errorf("halt encoding = %s%s, want C000", mem[2].Hex(), mem[3].Hex())
	}
}

// TestAssembleUnknownMnemonic verifies parse errors are surfaced with
// line context.
func TestAssembleUnknownMnemonic(t *testing.T) {
	a := NewAssembler(nil)
	_, err := a.Assemble("frobnicate r1,r2\n", 32)
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}
