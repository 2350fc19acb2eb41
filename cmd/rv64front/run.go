package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64front/emu"
	"github.com/sarchlab/rv64front/loader"
)

// profiles names the optional profile outputs of a run.
type profiles struct {
	cpu string
	mem string
}

func newRunCmd(opts *options) *cobra.Command {
	var prof profiles

	cmd := &cobra.Command{
		Use:   "run <program.elf>",
		Short: "Run a statically linked RISC-V 64 program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode, err := runProgram(opts, prof, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			os.Exit(int(exitCode))
			return nil
		},
	}

	cmd.Flags().StringVar(&prof.cpu, "cpuprofile", "", "Write a CPU profile to file")
	cmd.Flags().StringVar(&prof.mem, "memprofile", "", "Write a heap profile to file")

	return cmd
}

// runProgram loads and runs an ELF program and returns its exit code.
func runProgram(opts *options, prof profiles, path string, stdin io.Reader, stdout, stderr io.Writer) (int64, error) {
	c, err := opts.load()
	if err != nil {
		return 0, err
	}

	prog, err := loader.Load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load program: %w", err)
	}

	if prof.cpu != "" {
		f, err := os.Create(prof.cpu)
		if err != nil {
			return 0, fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			return 0, fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	log := opts.logger(stderr)
	emulator := emu.NewEmulator(
		emu.WithStdin(stdin),
		emu.WithStdout(stdout),
		emu.WithStderr(stderr),
		emu.WithStackPointer(prog.InitialSP),
		emu.WithMaxInstructions(c.MaxInstructions),
		emu.WithDriver(c.NewDriver(log)),
		emu.WithLogger(log),
	)
	prog.LoadInto(emulator.Memory())
	emulator.State().PC = prog.EntryPoint

	exitCode := emulator.Run()

	stats := emulator.Driver().Cache().Stats()
	log.Info("program finished",
		"program", path,
		"exitCode", exitCode,
		"instructions", emulator.InstructionCount(),
		"translations", stats.Inserts,
		"cacheHitRate", fmt.Sprintf("%.3f", stats.HitRate()))

	if prof.mem != "" {
		f, err := os.Create(prof.mem)
		if err != nil {
			return exitCode, fmt.Errorf("failed to create heap profile: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			return exitCode, fmt.Errorf("failed to write heap profile: %w", err)
		}
	}

	return exitCode, nil
}
