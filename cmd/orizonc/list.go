package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon/internal/demoprograms"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in demo program gallery",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, sc := range demoprograms.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", sc.Name, sc.Description)
		}

		return nil
	},
}
