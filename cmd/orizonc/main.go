// Command orizonc is the expanded driver CLI (SPEC_FULL.md §10): a
// cobra-based tool with build/watch/repl subcommands, replacing the
// teacher's flag-based cmd/orizon-compiler now that there are real
// subcommands whose cobra's subcommand model pays for itself. Since a
// grammar-driven parser is an external collaborator this spec's core
// never depends on (spec.md §1), every subcommand operates over the
// fixed gallery of hand-built CST trees in internal/demoprograms rather
// than parsing real .oriz source files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "orizonc",
	Short: "Orizon mid-end compiler driver",
	Long:  "orizonc drives the CST -> HIR -> MIR -> monomorphized MIR pipeline over the built-in demo program gallery.",
}

func main() {
	rootCmd.Version = cli.GetVersionInfo().Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().String("color", "auto", "accepted but not read; diagnostics are colored whenever stdout is a terminal")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
