package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ambertide/sasvm/pkg/inst"
	"github.com/ambertide/sasvm/pkg/word"
)

// Assembler performs the two-pass translation described in spec.md §4.D:
// the Preprocessor's canonical line stream is walked once, `org` moves the
// write pointer, `db` emits raw bytes, and every other line resolves
// through pkg/inst's catalog to a 4-character encoding written as two
// memory cells.
type Assembler struct {
	log logrus.FieldLogger
}

// NewAssembler builds an Assembler. A nil logger defaults to logrus's
// standard logger.
func NewAssembler(log logrus.FieldLogger) *Assembler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Assembler{log: log}
}

// Assemble preprocesses source and writes the resulting program into a
// freshly allocated memory image of memSize cells.
func (a *Assembler) Assemble(source string, memSize int) (word.Memory, error) {
	preprocessed := NewPreprocessor(a.log).Process(source)
	mem := word.NewMemory(memSize)
	ptr := 0
	for lineNo, line := range strings.Split(preprocessed, "\n") {
		if line == "" {
			continue
		}
		var err error
		ptr, err = a.assembleLine(mem, ptr, line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: %q", lineNo+1, line)
		}
	}
	return mem, nil
}

func (a *Assembler) assembleLine(mem word.Memory, ptr int, line string) (int, error) {
	switch {
	case isOrg(line):
		target, err := parseOrgTargetHex(line)
		if err != nil {
			return ptr, err
		}
		return target, nil
	case strings.Contains(line, "db "):
		cells := parseDBOperandsHex(line)
		for _, c := range cells {
			mem[ptr%len(mem)] = c
			ptr++
		}
		return ptr, nil
	default:
		encoding, err := a.assembleInstruction(line)
		if err != nil {
			return ptr, err
		}
		if len(encoding) != 4 {
			return ptr, errors.Errorf("encoding %q is not 4 hex characters", encoding)
		}
		hi, err := strconv.ParseInt(encoding[0:2], 16, 16)
		if err != nil {
			return ptr, errors.Wrapf(err, "high byte of %q", encoding)
		}
		lo, err := strconv.ParseInt(encoding[2:4], 16, 16)
		if err != nil {
			return ptr, errors.Wrapf(err, "low byte of %q", encoding)
		}
		mem[ptr%len(mem)] = word.NewCell(int(hi))
		mem[(ptr+1)%len(mem)] = word.NewCell(int(lo))
		return ptr + 2, nil
	}
}

func (a *Assembler) assembleInstruction(line string) (string, error) {
	mnemonic, _, _ := strings.Cut(line, " ")
	var entry *inst.Instruction
	if inst.ContestedMnemonics[mnemonic] {
		found, ok := inst.FindContested(mnemonic, line)
		if !ok {
			return "", errors.Errorf("no contested catalog entry matches %q", line)
		}
		entry = found
	} else {
		found, ok := inst.FindByMnemonic(mnemonic)
		if !ok {
			return "", errors.Errorf("unknown mnemonic %q", mnemonic)
		}
		entry = found
	}
	a.log.WithFields(logrus.Fields{"mnemonic": mnemonic, "line": line}).Debug("assembling instruction")
	return entry.Assemble(line), nil
}

// parseDBOperandsHex splits a fully preprocessed "db a,b,c" line into its
// operand byte values. By the time the assembler sees it every numeric
// operand has already passed through numeral canonicalization into a bare
// two-digit hex token, so it is parsed directly as hex rather than re-run
// through ConvertNumeral (which would misread a bare digit string as
// decimal). A quoted character-string operand is untouched by numeral
// canonicalization and expands to one byte per character (spec.md §4.D/§9).
func parseDBOperandsHex(line string) []word.Cell {
	_, rest, hasRest := strings.Cut(line, "db ")
	if !hasRest {
		return nil
	}
	var cells []word.Cell
	for _, tok := range splitDBTokens(rest) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if str, ok := stringTokenLiteral(tok); ok {
			for _, r := range str {
				cells = append(cells, word.NewCell(int(r)))
			}
			continue
		}
		c, err := word.NewCellFromHex(tok)
		if err != nil {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}
