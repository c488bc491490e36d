package inst

import "strings"

func span(start, end int) Span { return Span{Start: start, End: end} }

// threeRegisterSpans is the field layout shared by the three-operand
// register arithmetic/bitwise instructions (addi, addf, or, and, xor).
var threeRegisterSpans = []Span{span(1, 2), span(2, 3), span(3, 4)}
var threeRegisterPrefixes = []string{"R", "R", "R"}
var threeRegisterSuffixes = []string{"", "", ""}

// Catalog is the full 16-entry declarative instruction table driving both
// the assembler and the disassembler, ported field-for-field from the
// reference implementation's INSTRUCTIONS list.
var Catalog = []Instruction{
	{Prefix: "1", Mnemonic: "load", Spans: []Span{span(1, 2), span(2, 4)}, Prefixes: []string{"R", "["}, Suffixes: []string{"", "h]"}},
	{Prefix: "2", Mnemonic: "load", Spans: []Span{span(1, 2), span(2, 4)}, Prefixes: []string{"R", ""}, Suffixes: []string{"", "h"}},
	{Prefix: "3", Mnemonic: "store", Spans: []Span{span(1, 2), span(2, 4)}, Prefixes: []string{"R", "["}, Suffixes: []string{"", "h]"}},
	{Prefix: "40", Mnemonic: "move", Spans: []Span{span(2, 3), span(3, 4)}, Prefixes: []string{"R", "R"}, Suffixes: []string{"", ""}},
	{Prefix: "5", Mnemonic: "addi", Spans: threeRegisterSpans, Prefixes: threeRegisterPrefixes, Suffixes: threeRegisterSuffixes},
	{Prefix: "6", Mnemonic: "addf", Spans: threeRegisterSpans, Prefixes: threeRegisterPrefixes, Suffixes: threeRegisterSuffixes},
	{Prefix: "7", Mnemonic: "or", Spans: threeRegisterSpans, Prefixes: threeRegisterPrefixes, Suffixes: threeRegisterSuffixes},
	{Prefix: "8", Mnemonic: "and", Spans: threeRegisterSpans, Prefixes: threeRegisterPrefixes, Suffixes: threeRegisterSuffixes},
	{Prefix: "9", Mnemonic: "xor", Spans: threeRegisterSpans, Prefixes: threeRegisterPrefixes, Suffixes: threeRegisterSuffixes},
	{Prefix: "A", Mnemonic: "ror", Spans: []Span{span(1, 2), span(3, 4)}, Prefixes: []string{"R", ""}, Suffixes: []string{"", ""}},
	{Prefix: "B0", Mnemonic: "jmp", Spans: []Span{span(2, 4)}, Prefixes: []string{""}, Suffixes: []string{"h"}},
	{Prefix: "B", Mnemonic: "jmpeq", Spans: []Span{span(1, 2), span(2, 4)}, Prefixes: []string{"R", ""}, Suffixes: []string{"=R0", "h"}},
	{Prefix: "C0", Mnemonic: "halt", Spans: nil, Prefixes: nil, Suffixes: nil},
	{Prefix: "D0", Mnemonic: "load", Spans: []Span{span(2, 3), span(3, 4)}, Prefixes: []string{"R", "R["}, Suffixes: []string{"", "]"}},
	{Prefix: "E0", Mnemonic: "store", Spans: []Span{span(2, 3), span(3, 4)}, Prefixes: []string{"R", "R["}, Suffixes: []string{"", "]"}},
	{Prefix: "F", Mnemonic: "jmple", Spans: []Span{span(1, 2), span(2, 4)}, Prefixes: []string{"R", ""}, Suffixes: []string{"<=R0", "h"}},
}

// contestedMatcher picks the catalog entry for a contested mnemonic
// (load/store) by inspecting the operand text shape, in the same priority
// order as the reference implementation's match table.
type contestedMatcher struct {
	match func(mnemonic, line string) bool
	entry *Instruction
}

var contestedMatchers = buildContestedMatchers()

func buildContestedMatchers() []contestedMatcher {
	directLoad := &Catalog[0]   // "1"
	immediateLoad := &Catalog[1] // "2"
	directStore := &Catalog[2]  // "3"
	indirectLoad := &Catalog[13] // "D0"
	indirectStore := &Catalog[14] // "E0"

	return []contestedMatcher{
		{func(m, l string) bool { return m == "load" && strings.Contains(l, "[") && !strings.Contains(l, "r[") }, directLoad},
		{func(m, l string) bool { return m == "load" && !strings.Contains(l, "[") }, immediateLoad},
		{func(m, l string) bool { return m == "store" && strings.Contains(l, "[") && !strings.Contains(l, "r[") }, directStore},
		{func(m, l string) bool { return m == "store" && strings.Contains(l, "r[") }, indirectStore},
		{func(m, l string) bool { return m == "load" && strings.Contains(l, "r[") }, indirectLoad},
	}
}

// ContestedMnemonics is the set of mnemonics whose encoding depends on
// operand shape rather than being determined by the mnemonic alone.
var ContestedMnemonics = map[string]bool{"load": true, "store": true}

// FindContested resolves a contested mnemonic's encoding by matching the
// preprocessed line's operand shape.
func FindContested(mnemonic, line string) (*Instruction, bool) {
	for _, m := range contestedMatchers {
		if m.match(mnemonic, line) {
			return m.entry, true
		}
	}
	return nil, false
}

// FindByMnemonic resolves an uncontested mnemonic to its single catalog
// entry.
func FindByMnemonic(mnemonic string) (*Instruction, bool) {
	for i := range Catalog {
		if Catalog[i].Mnemonic == mnemonic && !ContestedMnemonics[mnemonic] {
			return &Catalog[i], true
		}
	}
	return nil, false
}

// FindByEncoding resolves a 4-character instruction encoding to its catalog
// entry, preferring a two-character prefix match (so "B0" is found before
// the broader "B", and "C0"/"D0"/"E0" before any single-character
// collision) and falling back to a one-character match.
func FindByEncoding(encoding string) (*Instruction, bool) {
	if len(encoding) < 2 {
		return nil, false
	}
	two := encoding[0:2]
	for i := range Catalog {
		if len(Catalog[i].Prefix) == 2 && Catalog[i].Prefix == two {
			return &Catalog[i], true
		}
	}
	one := encoding[0:1]
	for i := range Catalog {
		if len(Catalog[i].Prefix) == 1 && Catalog[i].Prefix == one {
			return &Catalog[i], true
		}
	}
	return nil, false
}
