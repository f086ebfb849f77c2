package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/orizon/internal/demoprograms"
	"github.com/orizon-lang/orizon/internal/driver"
	"github.com/orizon-lang/orizon/internal/interp"
	"github.com/orizon-lang/orizon/internal/prettyprint"
)

var buildCmd = &cobra.Command{
	Use:   "build <scenario|all>",
	Short: "Run the full pipeline over one (or all) demo program(s)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("emit-hir", false, "print the lowered HIR of each scenario's main function")
	buildCmd.Flags().Bool("emit-mir", false, "print the monomorphized MIR of every function")
	buildCmd.Flags().Bool("emit-mir-yaml", false, "dump the final MIR program as YAML")
	buildCmd.Flags().Bool("run", false, "run the scenario's main function through the reference interpreter")
}

func runBuild(cmd *cobra.Command, args []string) error {
	emitHIR, _ := cmd.Flags().GetBool("emit-hir")
	emitMIR, _ := cmd.Flags().GetBool("emit-mir")
	emitYAML, _ := cmd.Flags().GetBool("emit-mir-yaml")
	run, _ := cmd.Flags().GetBool("run")

	target := args[0]

	for _, sc := range demoprograms.All() {
		if target != "all" && sc.Name != target {
			continue
		}

		ctx := driver.New(sc.Name)

		mirProg, err := ctx.Compile(sc.Root)
		if err != nil {
			return fmt.Errorf("crate %q: %w", sc.Name, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "== %s (%s) ==\n", sc.Name, sc.Description)
		fmt.Fprint(cmd.OutOrStdout(), prettyprint.Diagnostics(os.Stdout, ctx.Diagnostics))

		if emitHIR {
			mainSym := ctx.Lowering.Program.Symbols.Intern("main")
			if fnID, ok := ctx.Lowering.Program.FnByName[mainSym]; ok {
				fmt.Fprint(cmd.OutOrStdout(), prettyprint.HIR(ctx.Lowering.Program, fnID))
			}
		}

		if emitMIR {
			fmt.Fprint(cmd.OutOrStdout(), prettyprint.MIR(mirProg))
		}

		if emitYAML {
			data, err := yaml.Marshal(mirProg)
			if err != nil {
				return fmt.Errorf("crate %q: emit-mir-yaml: %w", sc.Name, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		if run {
			result, err := interp.New(mirProg).RunMain()
			if err != nil {
				return fmt.Errorf("crate %q: interpreter: %w", sc.Name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "main() = %d\n", result)
		}

		if target != "all" {
			return nil
		}
	}

	if target != "all" {
		return fmt.Errorf("unknown scenario %q (try `orizonc list`)", target)
	}

	return nil
}
