package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteKeepIndex bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Long: `Remove one session from the registry, then sweep its index directory
unless --keep-index is set. A directory a running server has marked
active is left in place either way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, indexes, _ := openState()

		if err := reg.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted session", args[0])

		if deleteKeepIndex {
			return nil
		}
		if removed := indexes.Sweep(reg.IndexPaths()); removed > 0 {
			fmt.Printf("Removed %d index director%s\n", removed, plural(removed, "y", "ies"))
		}
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteKeepIndex, "keep-index", false, "Leave the index directory on disk")
}
