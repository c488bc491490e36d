// Package state implements the SASVM on-disk binary formats: ".prg"
// (memory-only) and ".svm" (full machine state).
package state

import (
	"github.com/pkg/errors"

	"github.com/ambertide/sasvm/pkg/word"
)

// DumpProgramMemory encodes mem in the ".prg" layout: one significant byte
// per cell followed by three zero padding bytes, 4 bytes per cell total.
func DumpProgramMemory(mem word.Memory) []byte {
	out := make([]byte, 0, len(mem)*4)
	for _, c := range mem {
		out = append(out, byte(c.Value()), 0, 0, 0)
	}
	return out
}

// ParseProgramMemory decodes a ".prg" byte stream back into a memory
// image of memSize cells, reading every 4th byte and zero-padding any
// shortfall. It is the left inverse of DumpProgramMemory: for any mem of
// length memSize, ParseProgramMemory(DumpProgramMemory(mem), memSize)
// reproduces mem exactly.
func ParseProgramMemory(data []byte, memSize int) word.Memory {
	mem := word.NewMemory(memSize)
	for i := 0; i*4 < len(data) && i < memSize; i++ {
		mem[i] = word.NewCell(int(data[i*4]))
	}
	return mem
}

// MachineState is the full snapshot written/read by the ".svm" format:
// memory, registers, PC, and IR.
type MachineState struct {
	Memory    word.Memory
	Registers word.Registers
	PC        int
	IR        string
}

// DumpSVM encodes a full machine snapshot in the ".svm" layout: one byte
// per memory cell, one byte per register, one PC byte, then two IR bytes
// (high half, low half) — unlike ".prg", memory is packed one byte per
// cell rather than padded to four.
func DumpSVM(s MachineState) ([]byte, error) {
	if len(s.IR) != 4 {
		return nil, errors.Errorf("state: IR must be 4 hex characters, got %q", s.IR)
	}
	irHi, err := word.NewCellFromHex(s.IR[0:2])
	if err != nil {
		return nil, errors.Wrap(err, "state: IR high byte")
	}
	irLo, err := word.NewCellFromHex(s.IR[2:4])
	if err != nil {
		return nil, errors.Wrap(err, "state: IR low byte")
	}

	out := make([]byte, 0, len(s.Memory)+len(s.Registers)+3)
	for _, c := range s.Memory {
		out = append(out, byte(c.Value()))
	}
	for _, c := range s.Registers {
		out = append(out, byte(c.Value()))
	}
	out = append(out, byte(s.PC), byte(irHi.Value()), byte(irLo.Value()))
	return out, nil
}

// ParseSVM decodes a ".svm" byte stream into a MachineState, given the
// expected memory and register capacities. Reading resets PC/IR from the
// trailing bytes, mirroring the reference's "load then reset special
// registers then assign PC/IR" sequence.
func ParseSVM(data []byte, memSize, regCount int) (MachineState, error) {
	want := memSize + regCount + 3
	if len(data) < want {
		return MachineState{}, errors.Errorf("state: .svm payload too short: got %d bytes, want %d", len(data), want)
	}

	mem := word.NewMemory(memSize)
	for i := 0; i < memSize; i++ {
		mem[i] = word.NewCell(int(data[i]))
	}

	regs := word.NewRegisters(regCount)
	for i := 0; i < regCount; i++ {
		regs[i] = word.NewCell(int(data[memSize+i]))
	}

	pc := int(data[memSize+regCount])
	irHi := word.NewCell(int(data[memSize+regCount+1]))
	irLo := word.NewCell(int(data[memSize+regCount+2]))

	return MachineState{
		Memory:    mem,
		Registers: regs,
		PC:        pc,
		IR:        irHi.Hex() + irLo.Hex(),
	}, nil
}
