package sasvm

import "testing"

const alphabetSource = `
load R0, 5Ah
load R1, 1
load R2, 40h
loop:
    move RF, R2
    addi R2, R2, R1
    jmpLE R2<=R0, loop
    halt
`

const subtractSource = `
load R5, 01010001b
load R4, 1
substract:
    load R6, 11111111b
    xor  R7, R5, R6
    and  R8, R7, R4
    xor  R5, R5, R4
    move R4, R8
    addi R4, R4, R4
    jmpEQ R4 = R0, end
    jmp substract
end:
    move RF, R5
    halt
`

// TestAlphabetEndToEnd assembles and runs spec.md S1 through the façade.
func TestAlphabetEndToEnd(t *testing.T) {
	m, err := NewMachine(alphabetSource, DefaultConfig())
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	result, err := m.Run(10000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "@ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if result.Stdout != want {
		t.Errorf("stdout = %q, want %q", result.Stdout, want)
	}
}

// TestSubtractEndToEnd assembles and runs spec.md S2 through the façade.
func TestSubtractEndToEnd(t *testing.T) {
	m, err := NewMachine(subtractSource, DefaultConfig())
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	result, err := m.Run(10000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stdout != "P" {
		t.Errorf("stdout = %q, want %q", result.Stdout, "P")
	}
}

// TestRunRespectsCycleBudget verifies a non-terminating program is
// reported rather than looped forever.
func TestRunRespectsCycleBudget(t *testing.T) {
	m, err := NewMachine("loop: jmp loop\n", DefaultConfig())
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	_, err = m.Run(100)
	if err != ErrCycleBudgetExceeded {
		t.Fatalf("err = %v, want ErrCycleBudgetExceeded", err)
	}
}

// TestDumpAndLoadProgramMemoryRoundtrips exercises the façade's .prg save
// path after assembly.
func TestDumpAndLoadProgramMemoryRoundtrips(t *testing.T) {
	cfg := DefaultConfig()
	m, err := NewMachine(alphabetSource, cfg)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	dumped := m.DumpProgramMemory()

	reloaded, err := NewMachine("halt\n", cfg)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	reloaded.LoadProgramMemory(dumped, cfg.MemSize)

	result, err := reloaded.Run(10000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "@ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if result.Stdout != want {
		t.Errorf("stdout after .prg reload = %q, want %q", result.Stdout, want)
	}
}
