package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ambertide/sasvm/pkg/disasm"
	"github.com/ambertide/sasvm/pkg/sasvm"
	"github.com/ambertide/sasvm/pkg/state"
	"github.com/ambertide/sasvm/pkg/vm"
)

func main() {
	log := logrus.StandardLogger()

	rootCmd := &cobra.Command{
		Use:   "sasvm",
		Short: "SASVM — an 8-bit educational assembler, disassembler, and virtual machine",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostic logging")
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	})

	// assemble command
	var assembleMemSize int
	var assembleOutput string

	assembleCmd := &cobra.Command{
		Use:   "assemble [source.asm]",
		Short: "Assemble a source file into a .prg memory image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg := sasvm.DefaultConfig()
			cfg.MemSize = assembleMemSize
			cfg.Log = log
			mem, err := sasvm.Assemble(string(source), cfg)
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}
			dumped := state.DumpProgramMemory(mem)
			if assembleOutput == "" {
				assembleOutput = args[0] + ".prg"
			}
			if err := os.WriteFile(assembleOutput, dumped, 0o644); err != nil {
				return err
			}
			fmt.Printf("Assembled %s -> %s (%d cells)\n", args[0], assembleOutput, assembleMemSize)
			return nil
		},
	}
	assembleCmd.Flags().IntVar(&assembleMemSize, "mem-size", vm.DefaultMemSize, "Memory image size in cells")
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "Output .prg path (default: <source>.prg)")

	// run command
	var runMemSize int
	var runCycleBudget int
	var runSaveState string

	runCmd := &cobra.Command{
		Use:   "run [source.asm]",
		Short: "Assemble and run a source file, printing its teletype stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg := sasvm.DefaultConfig()
			cfg.MemSize = runMemSize
			cfg.Log = log
			m, err := sasvm.NewMachine(string(source), cfg)
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}
			result, runErr := m.Run(runCycleBudget)
			fmt.Print(result.Stdout)
			fmt.Fprintf(os.Stderr, "\n[%s after %d steps]\n", result.Status, result.Steps)
			if runSaveState != "" {
				snapshot, err := m.DumpSVM()
				if err != nil {
					return fmt.Errorf("save state: %w", err)
				}
				if err := os.WriteFile(runSaveState, snapshot, 0o644); err != nil {
					return err
				}
			}
			if runErr != nil {
				return fmt.Errorf("run: %w", runErr)
			}
			return nil
		},
	}
	runCmd.Flags().IntVar(&runMemSize, "mem-size", vm.DefaultMemSize, "Memory image size in cells")
	runCmd.Flags().IntVar(&runCycleBudget, "cycle-budget", 10000, "Maximum steps before aborting a non-terminating program")
	runCmd.Flags().StringVar(&runSaveState, "save-state", "", "Write the machine's full .svm state after running")

	// resume command
	var resumeCycleBudget int

	resumeCmd := &cobra.Command{
		Use:   "resume [state.svm]",
		Short: "Resume execution from a saved .svm snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg := sasvm.DefaultConfig()
			cfg.Log = log
			m, err := sasvm.NewMachine("halt\n", cfg)
			if err != nil {
				return err
			}
			if err := m.LoadSVM(data, cfg.MemSize, cfg.RegisterCount); err != nil {
				return fmt.Errorf("load state: %w", err)
			}
			result, err := m.Run(resumeCycleBudget)
			fmt.Print(result.Stdout)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			fmt.Fprintf(os.Stderr, "\n[%s after %d steps]\n", result.Status, result.Steps)
			return nil
		},
	}
	resumeCmd.Flags().IntVar(&resumeCycleBudget, "cycle-budget", 10000, "Maximum steps before aborting a non-terminating program")

	// disasm command
	disasmCmd := &cobra.Command{
		Use:   "disasm [program.prg]",
		Short: "Disassemble a .prg memory image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mem := state.ParseProgramMemory(data, len(data)/4)
			for _, line := range disasm.DisassembleMemory(mem) {
				fmt.Println(line)
			}
			return nil
		},
	}

	// dump command
	dumpCmd := &cobra.Command{
		Use:   "dump [program.prg]",
		Short: "Print a hex dump of a .prg memory image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mem := state.ParseProgramMemory(data, len(data)/4)
			return mem.Dump(os.Stdout)
		},
	}

	rootCmd.AddCommand(assembleCmd, runCmd, resumeCmd, disasmCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
