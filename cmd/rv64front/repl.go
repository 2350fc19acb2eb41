package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64front/block"
)

func newReplCmd(opts *options) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively translate instruction words",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load()
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "rv64> ",
				HistoryFile: history,
				Stdout:      cmd.OutOrStdout(),
				Stderr:      cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to start readline: %w", err)
			}
			defer func() { _ = rl.Close() }()

			s := newSession(c.NewDriver(opts.logger(cmd.ErrOrStderr())))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Enter hex instruction words, 'pc <addr>', 'stats' or 'exit'.")

			for {
				line, err := rl.Readline()
				if err != nil {
					return nil
				}
				if !s.handle(cmd.OutOrStdout(), line) {
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&history, "history", "", "Readline history file")

	return cmd
}

// session is the state of one interactive translation session. Each line of
// words is placed at the current pc, which then advances past it.
type session struct {
	driver *block.Driver
	pc     uint64
}

func newSession(d *block.Driver) *session {
	return &session{driver: d, pc: 0x10000}
}

// handle executes one input line and reports whether to continue.
func (s *session) handle(w io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)

	switch {
	case line == "":
	case line == "exit" || line == "quit":
		return false
	case line == "stats":
		st := s.driver.Cache().Stats()
		_, _ = fmt.Fprintf(w, "lookups=%d hits=%d inserts=%d evictions=%d cached=%d\n",
			st.Lookups, st.Hits, st.Inserts, st.Evictions, s.driver.Cache().Len())
	case fields[0] == "pc":
		if len(fields) != 2 {
			_, _ = fmt.Fprintln(w, "usage: pc <addr>")
			break
		}
		pc, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 64)
		if err != nil || pc&1 != 0 {
			_, _ = fmt.Fprintf(w, "bad address %q\n", fields[1])
			break
		}
		s.pc = pc
	default:
		code, err := parseWords(fields)
		if err != nil {
			_, _ = fmt.Fprintln(w, err)
			break
		}

		src := &flatCode{base: s.pc, bytes: code}
		if c := s.driver.Cache(); c != nil {
			c.Invalidate(src.base, uint64(len(code)))
		}
		printTranslation(w, s.driver.Translate(src, s.pc), false)
		s.pc = src.end()
	}

	return true
}
