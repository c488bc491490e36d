// Package vm implements the SASVM fetch-decode-execute loop: a 16-opcode
// simulator over a fixed memory image and register file, with a latched
// teletype side channel.
package vm

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ambertide/sasvm/pkg/word"
)

// DefaultMemSize is the capacity of a freshly constructed Simulator's
// memory image when the caller does not override it.
const DefaultMemSize = 256

// DefaultRegisterCount is the number of general-purpose registers.
const DefaultRegisterCount = 16

// DefaultTeletypeIndices names register F (index 15) as the sole teletype
// latch by default.
var DefaultTeletypeIndices = []int{15}

// StepResult reports what happened during one call to Step, replacing the
// reference implementation's raise-to-terminate iterator protocol with an
// explicit return value.
type StepResult int

const (
	// Continued means the instruction executed and the machine may still
	// be stepped further.
	Continued StepResult = iota
	// Halted means a halt instruction just executed; further steps are
	// no-ops.
	Halted
	// EndOfMemory means PC has advanced to memory_size; further steps are
	// no-ops.
	EndOfMemory
)

func (r StepResult) String() string {
	switch r {
	case Continued:
		return "continued"
	case Halted:
		return "halted"
	case EndOfMemory:
		return "end-of-memory"
	default:
		return "unknown"
	}
}

// Simulator owns one machine's full mutable state: memory, registers, the
// special PC/IR registers, the jump-pending flag, and the teletype latch.
type Simulator struct {
	memory    word.Memory
	registers word.Registers
	pc        int
	ir        string

	jumpFlag bool
	halted   bool

	teletypeIndices []int
	teletypeArmed   bool

	log logrus.FieldLogger
}

// New builds a Simulator with the given memory size, register count, and
// set of teletype register indices. A nil logger defaults to logrus's
// standard logger.
func New(memSize, regCount int, teletypeIndices []int, log logrus.FieldLogger) *Simulator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Simulator{
		memory:          word.NewMemory(memSize),
		registers:       word.NewRegisters(regCount),
		ir:              "0000",
		teletypeIndices: append([]int(nil), teletypeIndices...),
		log:             log,
	}
}

// LoadMemory replaces the simulator's memory with cells, zero-padding if
// cells is shorter than the existing capacity.
func (s *Simulator) LoadMemory(cells word.Memory) {
	for i := range s.memory {
		if i < len(cells) {
			s.memory[i] = cells[i]
		} else {
			s.memory[i] = word.NewCell(0)
		}
	}
}

// LoadRegisters replaces the simulator's register file, zero-padding if
// cells is shorter than the existing capacity.
func (s *Simulator) LoadRegisters(cells word.Registers) {
	for i := range s.registers {
		if i < len(cells) {
			s.registers[i] = cells[i]
		} else {
			s.registers[i] = word.NewCell(0)
		}
	}
}

// ResetSpecialRegisters sets PC to 0 and IR to "0000", leaving memory,
// registers, and the halted/jump/teletype state untouched.
func (s *Simulator) ResetSpecialRegisters() {
	s.pc = 0
	s.ir = "0000"
}

// SetSpecialRegisters assigns PC and IR directly, used by the ".svm"
// loader after memory/registers are replaced and special registers reset
// (spec.md §4.G).
func (s *Simulator) SetSpecialRegisters(pc int, ir string) {
	s.pc = pc
	s.ir = ir
	s.halted = false
	s.jumpFlag = false
}

// PC returns the current program counter.
func (s *Simulator) PC() int { return s.pc }

// IR returns the current instruction register text.
func (s *Simulator) IR() string { return s.ir }

// ReturnMemory returns a value-copy snapshot of memory, safe for a caller
// to retain and mutate without affecting the simulator.
func (s *Simulator) ReturnMemory() word.Memory { return s.memory.Clone() }

// ReturnRegisters returns a value-copy snapshot of the register file.
func (s *Simulator) ReturnRegisters() word.Registers { return s.registers.Clone() }

// ReturnStdout drains the teletype latch: if armed, it returns one
// character per configured teletype register (in configured order) and
// disarms; otherwise it returns the empty string.
func (s *Simulator) ReturnStdout() string {
	if !s.teletypeArmed {
		return ""
	}
	s.teletypeArmed = false
	out := make([]byte, 0, len(s.teletypeIndices))
	for _, idx := range s.teletypeIndices {
		out = append(out, byte(s.registers[idx].Value()))
	}
	return string(out)
}

// Step executes exactly one fetch-decode-execute cycle. Termination is
// reported via the return value, not an error or panic: once Halted or
// EndOfMemory has been returned, further calls keep returning the same
// result without mutating state.
func (s *Simulator) Step() StepResult {
	if s.halted {
		return Halted
	}
	if s.pc >= len(s.memory) {
		return EndOfMemory
	}

	s.ir = s.fetch()

	if !s.jumpFlag {
		s.pc += 2
		s.execute(s.ir)
	} else {
		s.jumpFlag = false
		s.execute(s.ir)
		if !s.jumpFlag {
			s.pc += 2
		}
	}

	if s.halted {
		return Halted
	}
	if s.pc >= len(s.memory) {
		return EndOfMemory
	}
	return Continued
}

func (s *Simulator) fetch() string {
	lo := s.memory[s.pc%len(s.memory)]
	hi := s.memory[(s.pc+1)%len(s.memory)]
	return lo.Hex() + hi.Hex()
}

// execute dispatches on the first hex character of ir, special-casing the
// "B0" two-character prefix ahead of the broader "B" conditional-jump
// family.
func (s *Simulator) execute(ir string) {
	s.log.WithFields(logrus.Fields{"pc": s.pc, "ir": ir}).Trace("executing instruction")

	if len(ir) != 4 {
		return
	}
	if ir[0:2] == "B0" {
		s.execJump(ir)
		return
	}

	switch ir[0] {
	case '1':
		s.execLoadDirect(ir)
	case '2':
		s.execLoadImmediate(ir)
	case '3':
		s.execStoreDirect(ir)
	case '4':
		if ir[0:2] == "40" {
			s.execMove(ir)
		}
	case '5':
		s.execAddInt(ir)
	case '6':
		s.execAddFloat(ir)
	case '7':
		s.execBitwise(ir, bitwiseOr)
	case '8':
		s.execBitwise(ir, bitwiseAnd)
	case '9':
		s.execBitwise(ir, bitwiseXor)
	case 'A', 'a':
		s.execRotateRight(ir)
	case 'B', 'b':
		s.execJumpEQ(ir)
	case 'C', 'c':
		if ir[0:2] == "C0" {
			s.halted = true
		}
	case 'D', 'd':
		if ir[0:2] == "D0" {
			s.execLoadIndirect(ir)
		}
	case 'E', 'e':
		if ir[0:2] == "E0" {
			s.execStoreIndirect(ir)
		}
	case 'F', 'f':
		s.execJumpLE(ir)
	default:
		// Invalid opcode: no-op, PC already advanced by the caller.
	}
}

func hexDigit(c byte) int {
	n, err := strconv.ParseInt(string(c), 16, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

func hexByte(s string) int {
	n, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// writeRegister stores value into register idx and arms the teletype
// latch if idx is a configured teletype register. Only register-file
// writes performed by the opcode handlers below arm the latch; stores
// through memory never do.
func (s *Simulator) writeRegister(idx int, value int) {
	s.registers[idx%len(s.registers)] = word.NewCell(value)
	for _, tt := range s.teletypeIndices {
		if tt == idx {
			s.teletypeArmed = true
			break
		}
	}
}

func (s *Simulator) memIndex(addr int) int {
	return ((addr % len(s.memory)) + len(s.memory)) % len(s.memory)
}

// execLoadDirect implements "1<d><addr>": Rd <- M[addr].
func (s *Simulator) execLoadDirect(ir string) {
	d := hexDigit(ir[1])
	addr := hexByte(ir[2:4])
	s.writeRegister(d, s.memory[s.memIndex(addr)].Value())
}

// execLoadImmediate implements "2<d><imm>": Rd <- imm.
func (s *Simulator) execLoadImmediate(ir string) {
	d := hexDigit(ir[1])
	imm := hexByte(ir[2:4])
	s.writeRegister(d, imm)
}

// execStoreDirect implements "3<s><addr>": M[addr] <- Rs. Copies the
// register's numeric value, not the Cell itself.
func (s *Simulator) execStoreDirect(ir string) {
	src := hexDigit(ir[1])
	addr := hexByte(ir[2:4])
	s.memory[s.memIndex(addr)] = word.NewCell(s.registers[src%len(s.registers)].Value())
}

// execMove implements "40<s><d>": Rd <- Rs.
func (s *Simulator) execMove(ir string) {
	src := hexDigit(ir[2])
	dst := hexDigit(ir[3])
	s.writeRegister(dst, s.registers[src%len(s.registers)].Value())
}

// execAddInt implements "5<d><a><b>": Rd <- Ra + Rb, mod 256.
func (s *Simulator) execAddInt(ir string) {
	d, a, b := hexDigit(ir[1]), hexDigit(ir[2]), hexDigit(ir[3])
	sum := s.registers[a%len(s.registers)].Value() + s.registers[b%len(s.registers)].Value()
	s.writeRegister(d, sum)
}

// execAddFloat implements "6<d><a><b>": Rd <- OctalFloat(Ra)+OctalFloat(Rb)
// as an 8-bit int.
func (s *Simulator) execAddFloat(ir string) {
	d, a, b := hexDigit(ir[1]), hexDigit(ir[2]), hexDigit(ir[3])
	fa := word.NewOctalFloatFromByte(uint8(s.registers[a%len(s.registers)].Value()))
	fb := word.NewOctalFloatFromByte(uint8(s.registers[b%len(s.registers)].Value()))
	sum := fa.Add(fb)
	s.writeRegister(d, sum.Int())
}

type bitwiseOp func(a, b int) int

func bitwiseOr(a, b int) int  { return a | b }
func bitwiseAnd(a, b int) int { return a & b }
func bitwiseXor(a, b int) int { return a ^ b }

// execBitwise implements "7/8/9<d><a><b>": Rd <- Ra op Rb.
func (s *Simulator) execBitwise(ir string, op bitwiseOp) {
	d, a, b := hexDigit(ir[1]), hexDigit(ir[2]), hexDigit(ir[3])
	result := op(s.registers[a%len(s.registers)].Value(), s.registers[b%len(s.registers)].Value())
	s.writeRegister(d, result)
}

// execRotateRight implements "A<d>0<n>": Rd <- rotate_right(Rd, n).
func (s *Simulator) execRotateRight(ir string) {
	d := hexDigit(ir[1])
	n := hexDigit(ir[3])
	rotated := word.RotateRight(uint8(s.registers[d%len(s.registers)].Value()), n)
	s.writeRegister(d, int(rotated))
}

// execJump implements "B0<addr>": unconditional jump.
func (s *Simulator) execJump(ir string) {
	s.pc = hexByte(ir[2:4])
	s.jumpFlag = true
}

// execJumpEQ implements "B<x><addr>": if Rx == R0, PC <- addr.
func (s *Simulator) execJumpEQ(ir string) {
	x := hexDigit(ir[1])
	addr := hexByte(ir[2:4])
	if s.registers[x%len(s.registers)].Value() == s.registers[0].Value() {
		s.pc = addr
		s.jumpFlag = true
	}
}

// execJumpLE implements "F<x><addr>": if Rx <= R0, PC <- addr.
func (s *Simulator) execJumpLE(ir string) {
	x := hexDigit(ir[1])
	addr := hexByte(ir[2:4])
	if s.registers[x%len(s.registers)].Value() <= s.registers[0].Value() {
		s.pc = addr
		s.jumpFlag = true
	}
}

// execLoadIndirect implements "D0<d><r>": Rd <- M[Rr].
func (s *Simulator) execLoadIndirect(ir string) {
	d := hexDigit(ir[2])
	r := hexDigit(ir[3])
	addr := s.registers[r%len(s.registers)].Value()
	s.writeRegister(d, s.memory[s.memIndex(addr)].Value())
}

// execStoreIndirect implements "E0<s><r>": M[Rr] <- Rs. Copies the
// register's numeric value, not the Cell itself.
func (s *Simulator) execStoreIndirect(ir string) {
	src := hexDigit(ir[2])
	r := hexDigit(ir[3])
	addr := s.registers[r%len(s.registers)].Value()
	s.memory[s.memIndex(addr)] = word.NewCell(s.registers[src%len(s.registers)].Value())
}

// String renders a compact one-line trace of the current machine state,
// used by callers wiring up a step/trace CLI command.
func (s *Simulator) String() string {
	return fmt.Sprintf("pc=%02X ir=%s halted=%v", s.pc, s.ir, s.halted)
}
