// Package main provides rv64front, a command-line driver for the RISC-V 64
// front end: decode single instructions, translate blocks, run programs.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64front/config"
)

// options are the flags shared by all subcommands.
type options struct {
	configPath string
	verbose    int
	trace      bool
}

func (o *options) load() (*config.Config, error) {
	c := config.Default()
	if o.configPath != "" {
		var err error
		c, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	if o.trace {
		c.TraceFrontEnd = true
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

func (o *options) logger(w io.Writer) logr.Logger {
	verbosity := o.verbose
	if o.trace && verbosity < 1 {
		verbosity = 1
	}

	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rv64front",
		Short: "RISC-V 64 instruction front end",
		Long: `rv64front decodes RISC-V 64 (RV64I + C) guest instructions into a
VEX-style IR, builds translated blocks from them, and can run small
statically linked programs on top of the translations.`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity")
	rootCmd.PersistentFlags().BoolVar(&opts.trace, "trace", false, "Trace every decoded instruction")

	rootCmd.AddCommand(
		newDecodeCmd(opts),
		newTranslateCmd(opts),
		newRunCmd(opts),
		newReplCmd(opts),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
