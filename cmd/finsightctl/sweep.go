package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove orphaned index directories",
	Long: `Scan the index root and remove every session directory no registry
entry references. The directory marked active by a running server is
never removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, indexes, _ := openState()

		removed := indexes.Sweep(reg.IndexPaths())
		fmt.Printf("Removed %d director%s\n", removed, plural(removed, "y", "ies"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
