package disasm

import (
	"testing"

	"github.com/ambertide/sasvm/pkg/word"
)

func TestDisassembleKnownEncodings(t *testing.T) {
	tests := []struct {
		encoding string
		want     string
	}{
		{"A404", "ror R4, 4; A404"},
		{"C000", "halt; C000"},
		{"B020", "jmp 20h; B020"},
	}
	got := Disassemble([]string{tests[0].encoding, tests[1].encoding, tests[2].encoding})
	for i, tc := range tests {
		if got[i] != tc.want {
			t.Errorf("Disassemble[%d] = %q, want %q", i, got[i], tc.want)
		}
	}
}

func TestDisassembleUnknownWordFallsBackToData(t *testing.T) {
	got := Disassemble([]string{"ZZZZ"})
	if got[0] != "db ZZZZ; ZZZZ" {
		t.Errorf("Disassemble(unknown) = %q", got[0])
	}
}

func TestDisassembleMemoryPairsCells(t *testing.T) {
	mem := word.NewMemory(4)
	mem[0] = word.NewCell(0xC0)
	mem[1] = word.NewCell(0x00)
	mem[2] = word.NewCell(0xA4)
	mem[3] = word.NewCell(0x04)
	lines := DisassembleMemory(mem)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "halt; C000" {
		t.Errorf("lines[0] = %q, want %q", lines[0], "halt; C000")
	}
	if lines[1] != "ror R4, 4; A404" {
		t.Errorf("lines[1] = %q, want %q", lines[1], "ror R4, 4; A404")
	}
}
