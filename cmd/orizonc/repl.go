package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// replCmd hands off to the standalone orizon-repl binary rather than
// embedding bubbletea directly in orizonc, so the interactive stepper and
// its terminal state live in one process (SPEC_FULL.md §10).
var replCmd = &cobra.Command{
	Use:   "repl [scenario]",
	Short: "Launch the interactive pipeline stepper (orizon-repl)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	bin, err := exec.LookPath("orizon-repl")
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "orizon-repl not found on PATH; build it with `go build ./cmd/orizon-repl`")
		return err
	}

	sub := exec.Command(bin, args...)
	sub.Stdin = os.Stdin
	sub.Stdout = os.Stdout
	sub.Stderr = os.Stderr

	return sub.Run()
}
