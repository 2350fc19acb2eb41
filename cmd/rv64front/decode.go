package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64front/frontend"
	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

func newDecodeCmd(opts *options) *cobra.Command {
	var pc uint64

	cmd := &cobra.Command{
		Use:   "decode <word>...",
		Short: "Decode instruction words one at a time",
		Long: `Decode hex instruction words laid out back to back from --pc and
print the IR and outcome of each. Translation does not stop at jumps.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load()
			if err != nil {
				return err
			}

			code, err := parseWords(args)
			if err != nil {
				return err
			}

			fe := c.NewFrontEnd(opts.logger(cmd.ErrOrStderr()))
			return decode(cmd.OutOrStdout(), fe, code, pc)
		},
	}

	cmd.Flags().Uint64Var(&pc, "pc", 0x10000, "Guest address of the first word")

	return cmd
}

// decode prints each instruction of code with the IR it translates to.
func decode(w io.Writer, fe *frontend.FrontEnd, code []byte, pc uint64) error {
	if pc&1 != 0 {
		return fmt.Errorf("misaligned pc 0x%x", pc)
	}

	// Keep a guard window past the last instruction.
	padded := append(append([]byte(nil), code...), 0, 0, 0, 0)

	for delta := 0; delta < len(code); {
		addr := pc + uint64(delta)
		word := insts.ReadWord(padded[delta:])

		b := ir.NewBlock()
		ok, out := fe.DisInstr(b, padded, delta, addr)

		_, _ = fmt.Fprintf(w, "0x%x: %0*x  %-24s", addr, word.Len()*2, uint32(word), insts.Disassemble(word))
		if !ok {
			_, _ = fmt.Fprintf(w, "no decode\n")
			delta += word.Len()
			continue
		}

		_, _ = fmt.Fprintf(w, "len=%d %s", out.Len, out.WhatNext)
		if out.JumpKind != ir.JumpInvalid {
			_, _ = fmt.Fprintf(w, " %s", out.JumpKind)
		}
		if out.Hint == frontend.HintCall {
			_, _ = fmt.Fprintf(w, " hint=call")
		}
		_, _ = fmt.Fprintln(w)

		for _, s := range b.Stmts {
			_, _ = fmt.Fprintf(w, "    %s\n", s)
		}

		delta += out.Len
	}

	return nil
}
