// Package inst holds the declarative Instruction catalog shared by the
// assembler and disassembler: sixteen entries, keyed by opcode prefix, each
// naming its mnemonic and the character spans, prefixes and suffixes used to
// render or strip its operands.
package inst

import "strings"

// Span is a half-open character range [Start, End) inside a 4-character
// instruction encoding that names one operand.
type Span struct {
	Start, End int
}

// Instruction is a declarative descriptor for one opcode, shared by both the
// assembler (mnemonic -> encoding) and the disassembler (encoding ->
// mnemonic). It is a direct analog of the teacher's pkg/inst.Info entry,
// generalized from a single fixed catalog index to the field-span/
// prefix/suffix shape the spec's 16-opcode table actually needs.
type Instruction struct {
	Prefix     string // 1 or 2 hex characters identifying the instruction
	Mnemonic   string
	Spans      []Span
	Prefixes   []string // per-operand decoration stripped/added around each span
	Suffixes   []string
}

// Slice extracts the raw operand substrings named by the descriptor's spans
// out of a 4-character instruction encoding.
func (in Instruction) Slice(encoding string) []string {
	vars := make([]string, len(in.Spans))
	for i, sp := range in.Spans {
		vars[i] = encoding[sp.Start:sp.End]
	}
	return vars
}

// Render turns a raw 4-character encoding into its disassembled text line,
// "mnemonic op1, op2[, op3]; <raw 4-char word>".
func (in Instruction) Render(encoding string) string {
	vars := in.Slice(encoding)
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = in.Prefixes[i] + v + in.Suffixes[i]
	}
	if len(parts) == 0 {
		return in.Mnemonic + "; " + encoding
	}
	return in.Mnemonic + " " + strings.Join(parts, ", ") + "; " + encoding
}

// Assemble turns a preprocessed source line (mnemonic plus comma-separated,
// space-free operand list) into its 4-character hex encoding. halt has no
// operands and always encodes to C000. ror inserts a literal "0" between its
// two operands (the "0" fills the third nibble, the rotate amount the
// fourth); move reverses its two register operands (the source text names
// the destination first, while the encoding stores the source nibble first).
func (in Instruction) Assemble(line string) string {
	if in.Mnemonic == "halt" {
		return "C000"
	}

	_, rest, _ := strings.Cut(line, " ")
	operands := strings.Split(rest, ",")
	for i, operand := range operands {
		if i < len(in.Prefixes) && in.Prefixes[i] != "" {
			operand = strings.ReplaceAll(operand, in.Prefixes[i], "")
		}
		if i < len(in.Suffixes) && in.Suffixes[i] != "" {
			operand = strings.ReplaceAll(operand, in.Suffixes[i], "")
		}
		operands[i] = operand
	}

	if in.Mnemonic == "ror" {
		operands = append(operands[:1], append([]string{"0"}, operands[1:]...)...)
	}
	if in.Mnemonic == "move" {
		operands[0], operands[1] = operands[1], operands[0]
	}

	encoding := in.Prefix + strings.Join(operands, "")
	encoding = strings.ReplaceAll(encoding, " ", "")
	encoding = strings.ReplaceAll(encoding, "<=r0", "")
	encoding = strings.ReplaceAll(encoding, "=r0", "")
	encoding = strings.ReplaceAll(encoding, "<=R0", "")
	encoding = strings.ReplaceAll(encoding, "=R0", "")
	return keepHex(encoding)
}

func keepHex(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune("0123456789abcdefABCDEF", r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
