package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/export"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session transcript",
	Long:  `Print one session as Markdown: title, summary charts, and the full transcript with sources.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, _ := openState()

		sess, err := reg.Get(args[0])
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter("markdown")
		if err != nil {
			return err
		}
		return exporter.Export(sess, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
