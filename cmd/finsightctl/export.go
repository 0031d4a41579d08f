package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/export"
)

var (
	exportFormat string
	exportDir    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session to a file",
	Long: `Export one session to a file in the chosen format (json, yaml, markdown).

The file is written as session_<id>.<ext> in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, _ := openState()

		sess, err := reg.Get(args[0])
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		path := filepath.Join(exportDir, "session_"+sess.ID+"."+exporter.Extension())
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()

		if err := exporter.Export(sess, f); err != nil {
			return fmt.Errorf("failed to export session: %w", err)
		}

		fmt.Println("Wrote", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format: json, yaml, or markdown")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "Directory to write the export into")
}
