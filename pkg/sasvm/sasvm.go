// Package sasvm is the external-facing façade: it wires the assembler,
// simulator, and state codec together behind the single entry point a
// consumer (CLI, UI, test harness) drives.
package sasvm

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ambertide/sasvm/pkg/asm"
	"github.com/ambertide/sasvm/pkg/state"
	"github.com/ambertide/sasvm/pkg/vm"
	"github.com/ambertide/sasvm/pkg/word"
)

// ErrCycleBudgetExceeded is returned by Run when a program does not
// terminate within the caller's cycle budget, guarding the façade against
// non-terminating programs the way spec.md §8's test runner requires.
var ErrCycleBudgetExceeded = errors.New("sasvm: cycle budget exceeded")

// Machine bundles an Assembler-produced memory image with the Simulator
// that owns it, plus the logger threaded through both.
type Machine struct {
	Sim *vm.Simulator
	log logrus.FieldLogger
}

// Config holds the three construction parameters spec.md §4.H names for a
// Simulator, defaulting to the spec's 256/16/[15] machine shape.
type Config struct {
	MemSize         int
	RegisterCount   int
	TeletypeIndices []int
	Log             logrus.FieldLogger
}

// DefaultConfig returns the spec's default machine shape.
func DefaultConfig() Config {
	return Config{
		MemSize:         vm.DefaultMemSize,
		RegisterCount:   vm.DefaultRegisterCount,
		TeletypeIndices: vm.DefaultTeletypeIndices,
	}
}

// Assemble builds a memory image from source using cfg.MemSize.
func Assemble(source string, cfg Config) (word.Memory, error) {
	a := asm.NewAssembler(cfg.Log)
	mem, err := a.Assemble(source, cfg.MemSize)
	if err != nil {
		return nil, errors.Wrap(err, "sasvm: assemble")
	}
	return mem, nil
}

// NewMachine assembles source and loads the result into a freshly built
// Simulator, implementing the §4.H construction sequence: build an
// Assembler, retrieve its memory, construct a Simulator, load_memory.
func NewMachine(source string, cfg Config) (*Machine, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	mem, err := Assemble(source, cfg)
	if err != nil {
		return nil, err
	}
	sim := vm.New(cfg.MemSize, cfg.RegisterCount, cfg.TeletypeIndices, log)
	sim.LoadMemory(mem)
	return &Machine{Sim: sim, log: log}, nil
}

// RunResult reports how a bounded run ended.
type RunResult struct {
	Stdout string
	Status vm.StepResult
	Steps  int
}

// Run steps the machine until it terminates (halt or end-of-memory) or
// maxCycles steps elapse, whichever comes first, accumulating the
// teletype stream across the run. Exceeding maxCycles without termination
// returns ErrCycleBudgetExceeded, guarding callers against a program that
// never halts.
func (m *Machine) Run(maxCycles int) (RunResult, error) {
	var stdout []byte
	for i := 0; i < maxCycles; i++ {
		result := m.Sim.Step()
		stdout = append(stdout, []byte(m.Sim.ReturnStdout())...)
		if result != vm.Continued {
			return RunResult{Stdout: string(stdout), Status: result, Steps: i + 1}, nil
		}
	}
	return RunResult{Stdout: string(stdout), Status: vm.Continued, Steps: maxCycles}, ErrCycleBudgetExceeded
}

// Step executes a single instruction and drains whatever teletype output
// it produced.
func (m *Machine) Step() (vm.StepResult, string) {
	result := m.Sim.Step()
	return result, m.Sim.ReturnStdout()
}

// DumpProgramMemory saves the machine's current memory in the ".prg"
// format.
func (m *Machine) DumpProgramMemory() []byte {
	return state.DumpProgramMemory(m.Sim.ReturnMemory())
}

// DumpSVM saves the machine's full state in the ".svm" format.
func (m *Machine) DumpSVM() ([]byte, error) {
	return state.DumpSVM(state.MachineState{
		Memory:    m.Sim.ReturnMemory(),
		Registers: m.Sim.ReturnRegisters(),
		PC:        m.Sim.PC(),
		IR:        m.Sim.IR(),
	})
}

// LoadProgramMemory replaces the machine's memory from a ".prg" payload.
func (m *Machine) LoadProgramMemory(data []byte, memSize int) {
	m.Sim.LoadMemory(state.ParseProgramMemory(data, memSize))
}

// LoadSVM replaces the machine's full state from a ".svm" payload.
func (m *Machine) LoadSVM(data []byte, memSize, regCount int) error {
	snap, err := state.ParseSVM(data, memSize, regCount)
	if err != nil {
		return errors.Wrap(err, "sasvm: load .svm")
	}
	m.Sim.LoadMemory(snap.Memory)
	m.Sim.LoadRegisters(snap.Registers)
	m.Sim.ResetSpecialRegisters()
	m.Sim.SetSpecialRegisters(snap.PC, snap.IR)
	return nil
}
