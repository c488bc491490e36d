// Package disasm turns a stream of 4-character instruction words back into
// readable assembly text, the mirror image of pkg/asm.
package disasm

import (
	"strings"

	"github.com/ambertide/sasvm/pkg/inst"
	"github.com/ambertide/sasvm/pkg/word"
)

// Disassemble renders each 4-character hex word in words as one line of
// text. A word that does not resolve to a catalog entry is rendered as a
// raw data line ("db <word>; <word>") rather than dropped, so every input
// word produces exactly one output line.
func Disassemble(words []string) []string {
	lines := make([]string, len(words))
	for i, w := range words {
		lines[i] = disassembleWord(w)
	}
	return lines
}

func disassembleWord(w string) string {
	w = strings.ToUpper(w)
	entry, ok := inst.FindByEncoding(w)
	if !ok {
		return "db " + w + "; " + w
	}
	return entry.Render(w)
}

// DisassembleMemory pairs up memory cells two-at-a-time into 4-character
// words and disassembles the resulting instruction stream, matching the
// layout the assembler writes (§4.G: each instruction occupies two
// consecutive cells, high byte first).
func DisassembleMemory(mem word.Memory) []string {
	var words []string
	for i := 0; i+1 < len(mem); i += 2 {
		words = append(words, mem[i].Hex()+mem[i+1].Hex())
	}
	return Disassemble(words)
}
