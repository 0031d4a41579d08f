package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/domain"
	"github.com/finsight-ai/finsight/internal/index"
)

var documentsFull bool

// documentsCmd represents the documents command
var documentsCmd = &cobra.Command{
	Use:   "documents <session-id>",
	Short: "Dump the chunks stored in a session's index",
	Long: `Print every chunk in the session's vector index, in insertion order.
The default view truncates the text; use --full for the complete chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, logger := openState()

		sess, err := reg.Get(args[0])
		if err != nil {
			return err
		}

		// Reading chunks never embeds anything, so no provider client.
		noEmbed := func(context.Context, string) ([]float32, error) {
			return nil, domain.ErrEmbeddingUnavailable
		}

		store, err := index.Open(sess.IndexPath, noEmbed, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		docs := store.AllDocuments()
		if len(docs) == 0 {
			fmt.Println(headerStyle.Render("Index is empty"))
			return nil
		}

		if documentsFull {
			for _, doc := range docs {
				fmt.Printf("--- chunk %d (%s) ---\n%s\n\n", doc.ID, doc.Source, doc.Content)
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSource\tText")
		for _, doc := range docs {
			fmt.Fprintf(w, "%d\t%s\t%s\n", doc.ID, doc.Source, truncate(doc.Content, 80))
		}
		return w.Flush()
	},
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.Flags().BoolVar(&documentsFull, "full", false, "Print complete chunk text")
}
