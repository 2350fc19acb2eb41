package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64front/block"
	"github.com/sarchlab/rv64front/emu"
	"github.com/sarchlab/rv64front/loader"
)

func newTranslateCmd(opts *options) *cobra.Command {
	var (
		pc      uint64
		elfPath string
		flat    bool
	)

	cmd := &cobra.Command{
		Use:   "translate [word]...",
		Short: "Translate one block",
		Long: `Translate the block starting at --pc, either from hex instruction
words given as arguments or from an ELF executable given with --elf (in
which case --pc defaults to the entry point).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load()
			if err != nil {
				return err
			}

			var code block.Code
			start := pc

			switch {
			case elfPath != "":
				prog, err := loader.Load(elfPath)
				if err != nil {
					return fmt.Errorf("failed to load program: %w", err)
				}
				memory := emu.NewMemory()
				prog.LoadInto(memory)
				code = memory
				if !cmd.Flags().Changed("pc") {
					start = prog.EntryPoint
				}
			case len(args) > 0:
				bytes, err := parseWords(args)
				if err != nil {
					return err
				}
				code = &flatCode{base: pc, bytes: bytes}
			default:
				return fmt.Errorf("nothing to translate: give instruction words or --elf")
			}

			if start&1 != 0 {
				return fmt.Errorf("misaligned pc 0x%x", start)
			}

			d := c.NewDriver(opts.logger(cmd.ErrOrStderr()))
			printTranslation(cmd.OutOrStdout(), d.Build(code, start), flat)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&pc, "pc", 0x10000, "Guest address of the block")
	cmd.Flags().StringVar(&elfPath, "elf", "", "Translate from an ELF executable")
	cmd.Flags().BoolVar(&flat, "flat", false, "Print the block as a flat statement list")

	return cmd
}

func printTranslation(w io.Writer, t *block.Translation, flat bool) {
	if flat {
		_, _ = fmt.Fprint(w, t.Block.String())
		return
	}

	title := fmt.Sprintf("block 0x%x [%s] %d insns, %d bytes", t.Addr, t.ID, t.Insns, t.Size)
	_, _ = fmt.Fprint(w, t.Block.Tree(title).String())
}
