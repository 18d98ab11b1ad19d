// Package commands provides the CLI commands for the jsserver tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pjlast/jsserver/internal/checker"
)

var cfg = checker.DefaultConfig()

// noOccursCheck is the raw flag value; --no-occurs-check negates into
// cfg.EnableOccursCheck in PersistentPreRun, since the flag's name and the
// field it controls have opposite polarity.
var noOccursCheck bool

var rootCmd = &cobra.Command{
	Use:   "jsserver",
	Short: "Type checker and language server for an untyped scripting language",
	Long: `jsserver infers principal types for a small, dynamically-typed scripting
language from a JSON-encoded expression tree — no type annotations required.

Usage:
  jsserver check program.json       Type-check a single program
  jsserver check --watch program.json  Re-check on every write
  jsserver serve                    Run the language server over stdio
  jsserver version                  Print version`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.EnableOccursCheck = !noOccursCheck
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVar(&noOccursCheck, "no-occurs-check", false, "disable the unifier's occurs check (debugging escape hatch)")
	rootCmd.PersistentFlags().IntVar(&cfg.MaxUnionSize, "max-union-size", 0, "cap the number of alternatives a built union may accumulate (0 = unbounded)")
	rootCmd.PersistentFlags().BoolVar(&cfg.VerboseMode, "verbose", false, "print each inferred top-level type and its residual substitution")
}
