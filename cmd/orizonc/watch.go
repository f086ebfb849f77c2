package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon/internal/buildconfig"
	"github.com/orizon-lang/orizon/internal/demoprograms"
	"github.com/orizon-lang/orizon/internal/driver"
	"github.com/orizon-lang/orizon/internal/prettyprint"
	"github.com/orizon-lang/orizon/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-run the pipeline whenever a crate's sources or orizon.toml change",
	Long: "Watches dir with fsnotify and recompiles the demo scenario named by " +
		"orizon.toml's package.name on every change, since a real parser is " +
		"outside this spec's core scope (spec.md §1).",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	w, err := watch.New()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (ctrl-c to stop)\n", dir)

	recompile := func() {
		manifest, err := manifestIn(dir)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "orizon.toml: %v\n", err)
			return
		}

		for _, sc := range demoprograms.All() {
			if sc.Name != manifest.Package.Name {
				continue
			}

			ctx := driver.New(sc.Name)
			if _, err := ctx.Compile(sc.Root); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", sc.Name, err)
				return
			}

			fmt.Fprint(cmd.OutOrStdout(), prettyprint.Diagnostics(cmd.OutOrStdout(), ctx.Diagnostics))
		}
	}

	recompile()

	for {
		select {
		case <-w.Changes():
			recompile()
		case err := <-w.Errors():
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}

func manifestIn(dir string) (*buildconfig.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "orizon.toml"))
	if err != nil {
		return nil, err
	}

	return buildconfig.Load(data)
}
